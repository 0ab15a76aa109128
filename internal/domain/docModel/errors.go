package docModel

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures. Callers branch on the kind,
// never on provider error text.
type ErrorKind string

const (
	KindConfiguration  ErrorKind = "configuration_error"
	KindExtraction     ErrorKind = "extraction_error"
	KindEmbedding      ErrorKind = "embedding_error"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindTranslation    ErrorKind = "translation_error"
	KindGeneration     ErrorKind = "generation_error"
	KindNotFound       ErrorKind = "not_found"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func E(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the classification of err, or "" for plain errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
