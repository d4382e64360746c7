package models

import (
	"errors"
	"strings"
)

// ErrEmptyQuery is returned when a submitted question has no content.
var ErrEmptyQuery = errors.New("query is required")

// QueryRequest is the body of POST /api/query
type QueryRequest struct {
	Query string `json:"query"`
}

// NewQueryRequest trims raw user input into a request.
// An input that is empty after trimming yields ErrEmptyQuery.
func NewQueryRequest(raw string) (QueryRequest, error) {
	req := QueryRequest{Query: strings.TrimSpace(raw)}
	if err := req.Validate(); err != nil {
		return QueryRequest{}, err
	}
	return req, nil
}

func (r QueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	return nil
}
