package chart

// Palette is the series color cycle. Series i uses Palette[i%len(Palette)].
var Palette = []string{
	"#36a2eb",
	"#ff6384",
	"#4bc0c0",
	"#ff9f40",
	"#9966ff",
	"#ffcd56",
	"#c9cbcf",
}

// Color returns the palette color for series index i.
func Color(i int) string {
	return Palette[i%len(Palette)]
}
