package model

// HighlightedDocument is a standalone HTML page produced for one render.
// Height is the suggested pixel height of the panel embedding it.
type HighlightedDocument struct {
	Language string
	LexerID  string
	HTML     string
	Lines    int
	Height   int
}
