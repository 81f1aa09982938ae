// Package language holds the table of supported languages and the file
// extension and highlighter lexer bound to each of them.
package language

const (
	// FallbackExtension is used for names outside the registry.
	FallbackExtension = ".txt"
	// FallbackLexerID names the plain text lexer.
	FallbackLexerID = "text"
)

// Entry binds a language display name to its file extension and lexer id.
type Entry struct {
	Name      string `json:"name"`
	Extension string `json:"extension"`
	LexerID   string `json:"lexer_id"`
}

// defaultEntries is the supported language set, in display order.
var defaultEntries = []Entry{
	{Name: "Python", Extension: ".py", LexerID: "python"},
	{Name: "C", Extension: ".c", LexerID: "c"},
	{Name: "C++", Extension: ".cpp", LexerID: "cpp"},
	{Name: "Java", Extension: ".java", LexerID: "java"},
	{Name: "JavaScript", Extension: ".js", LexerID: "javascript"},
	{Name: "HTML", Extension: ".html", LexerID: "html"},
	{Name: "CSS", Extension: ".css", LexerID: "css"},
	{Name: "SQL", Extension: ".sql", LexerID: "sql"},
}

// Registry is a read-only language table. It is safe for concurrent use.
type Registry struct {
	entries []Entry
	byName  map[string]Entry
}

// NewRegistry builds a registry from entries. The slice is copied, so later
// changes by the caller are not observed. A repeated name keeps its first entry.
func NewRegistry(entries []Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		if _, dup := r.byName[e.Name]; dup {
			continue
		}
		r.entries = append(r.entries, e)
		r.byName[e.Name] = e
	}
	return r
}

// Default returns a registry holding the supported language set.
func Default() *Registry {
	return NewRegistry(defaultEntries)
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// ExtensionFor returns the file extension for name, or FallbackExtension.
func (r *Registry) ExtensionFor(name string) string {
	if e, ok := r.byName[name]; ok {
		return e.Extension
	}
	return FallbackExtension
}

// LexerIDFor returns the lexer id for name, or FallbackLexerID.
func (r *Registry) LexerIDFor(name string) string {
	if e, ok := r.byName[name]; ok {
		return e.LexerID
	}
	return FallbackLexerID
}

// Entries returns a copy of the entries in display order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// DefaultName is the name preselected in the language picker.
func (r *Registry) DefaultName() string {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[0].Name
}
