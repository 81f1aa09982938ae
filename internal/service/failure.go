package service

import "fmt"

// Kind classifies a Failure.
type Kind int

const (
	// KindIO is a storage or journal failure while saving.
	KindIO Kind = iota + 1
	// KindHighlight is a lexer lookup, tokenising or formatting failure.
	KindHighlight
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindHighlight:
		return "highlight"
	default:
		return "unknown"
	}
}

// Failure is the error returned by the snippet and highlight services.
// Message is safe to show to the user.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(kind Kind, err error, format string, args ...any) *Failure {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg += ": " + err.Error()
	}
	return &Failure{Kind: kind, Message: msg, Err: err}
}
