package apperrors

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

type Kind string

const (
	KindUnsupportedFormat   Kind = "unsupported_format"
	KindExtraction          Kind = "extraction_error"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstream            Kind = "upstream_error"
	KindNoRecoverableJSON   Kind = "no_recoverable_json"
	KindValidation          Kind = "validation_error"
	KindDuplicateEmail      Kind = "duplicate_email"
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindComparisonFailed    Kind = "comparison_failed"
	KindPersistence         Kind = "persistence_error"
	KindInvalidInput        Kind = "invalid_input"
	KindNotFound            Kind = "not_found"
)

// MaxExcerptRunes bounds any raw text attached to an error.
const MaxExcerptRunes = 200

// Error is a classified failure. Message is safe to show to clients; Err is
// the underlying cause and stays server side.
type Error struct {
	Kind    Kind
	Message string
	Excerpt string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NoRecoverableJSON carries a bounded excerpt of the raw model output.
func NoRecoverableJSON(raw string, err error) *Error {
	return &Error{
		Kind:    KindNoRecoverableJSON,
		Message: "no valid JSON records could be recovered from the model response",
		Excerpt: Excerpt(raw),
		Err:     err,
	}
}

// Upstream reports a non-2xx answer from the LLM provider.
func Upstream(status int, body string) *Error {
	return &Error{
		Kind:    KindUpstream,
		Message: "LLM provider returned an error",
		Status:  status,
		Excerpt: Excerpt(body),
	}
}

// As returns the outermost classified error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of the outermost classified error, or "" when the
// chain carries none.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// Is reports whether any error in the chain has the given kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		var appErr *Error
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Kind == kind {
			return true
		}
		err = appErr.Err
	}
	return false
}

// Excerpt cuts s to MaxExcerptRunes without splitting a code point.
func Excerpt(s string) string {
	if utf8.RuneCountInString(s) <= MaxExcerptRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxExcerptRunes {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
