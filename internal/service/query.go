package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cortexai/sqlconsole/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxResponseBytes = 32 << 20

var errNullBody = errors.New("response body is null")

// QueryService talks to the NL→SQL backend
type QueryService struct {
	client    *http.Client
	baseURL   string
	queryPath string
}

// NewQueryService creates a backend client. A zero timeout leaves requests
// bounded only by the caller's context.
func NewQueryService(baseURL, queryPath string, timeout time.Duration) *QueryService {
	return &QueryService{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		queryPath: "/" + strings.TrimLeft(queryPath, "/"),
	}
}

// backendResponse adds the FastAPI error envelope to QueryResponse
type backendResponse struct {
	models.QueryResponse
	Detail any `json:"detail,omitempty"`
}

// Query posts the question and decodes the reply. The body is decoded
// regardless of status code; only transport failures and bodies that are
// not a JSON object are errors.
func (s *QueryService) Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+s.queryPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.New().String()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", s.queryPath, err)
	}
	defer resp.Body.Close()

	var decoded *backendResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if decoded == nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, errNullBody)
	}

	out := decoded.QueryResponse
	if out.ErrorText() == "" && resp.StatusCode >= http.StatusBadRequest {
		msg := detailText(decoded.Detail)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		out.Error = models.StringPtr(msg)
	}

	log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Bool("has_sql", out.SQL != nil).
		Bool("has_results", out.Results != nil).
		Bool("has_chart", out.ChartConfig != nil).
		Msg("backend query")

	return &out, nil
}

// TestConnection checks that the backend answers HTTP at all
func (s *QueryService) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET /: %w", err)
	}
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}
	return nil
}

// detailText flattens a FastAPI "detail" value, which is either a string or
// a list of validation errors.
func detailText(detail any) string {
	switch d := detail.(type) {
	case nil:
		return ""
	case string:
		return d
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
