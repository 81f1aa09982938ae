package highlight

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is a dark chroma style close to the page background.
const DefaultStyle = "monokai"

const (
	lineHeight = 22
	padding    = 50
	minHeight  = 200
	maxHeight  = 800
)

var (
	ErrUnknownLexer = errors.New("unknown lexer")
	ErrUnknownStyle = errors.New("unknown style")
)

// Renderer turns source text into a standalone dark-theme HTML page.
// It holds no per-call state and may be shared between goroutines.
type Renderer struct {
	style     *chroma.Style
	formatter *html.Formatter
}

// New returns a Renderer using the named chroma style. An empty name selects
// DefaultStyle.
func New(style string) (*Renderer, error) {
	if style == "" {
		style = DefaultStyle
	}
	s, ok := styles.Registry[style]
	if !ok {
		s, ok = styles.Registry[strings.ToLower(style)]
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	return &Renderer{
		style: s,
		formatter: html.New(
			html.WithClasses(false),
			html.WithLineNumbers(true),
			html.LineNumbersInTable(true),
			html.TabWidth(4),
		),
	}, nil
}

// Fragment highlights code with the lexer registered as lexerID and returns
// the formatter output alone.
func (r *Renderer) Fragment(code, lexerID string) (string, error) {
	lexer := lexers.Get(lexerID)
	if lexer == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownLexer, lexerID)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise: %w", err)
	}

	out := new(bytes.Buffer)
	if err := r.formatter.Format(out, r.style, it); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return out.String(), nil
}

// Render highlights code and wraps the result in the page template.
func (r *Renderer) Render(code, lexerID string) (string, error) {
	fragment, err := r.Fragment(code, lexerID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(pageHead) + len(fragment) + len(pageTail))
	b.WriteString(pageHead)
	b.WriteString(fragment)
	b.WriteString(pageTail)
	return b.String(), nil
}

// LineCount is the number of newline characters in code plus one.
func LineCount(code string) int {
	return strings.Count(code, "\n") + 1
}

// Height is the suggested pixel height of a panel showing code.
func Height(code string) int {
	h := LineCount(code)*lineHeight + padding
	return min(max(h, minHeight), maxHeight)
}
