package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docqa/internal/llm"
	"github.com/dgallion1/docqa/internal/parser"
)

// ErrValidation marks a request rejected before any work was done.
var ErrValidation = errors.New("validation failed")

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &validationError{msg: msg}
}

// Kind is the user-facing error category of a failed action.
type Kind string

const (
	KindUnsupportedFormat Kind = "unsupported_format"
	KindParseFailure      Kind = "parse_failure"
	KindValidation        Kind = "validation_failure"
	KindTimeout           Kind = "timeout"
	KindTransientOverload Kind = "transient_overload"
	KindUnknown           Kind = "unknown"
)

// UnsupportedFormatMessage is shown when an upload has an unknown extension.
var UnsupportedFormatMessage = "Unsupported file type. Please upload " + AcceptedTypes() + "."

// AcceptedTypes lists the accepted extensions as prose, e.g.
// ".txt, .pdf, or .htm".
func AcceptedTypes() string {
	exts := parser.Extensions()
	switch len(exts) {
	case 0:
		return ""
	case 1:
		return exts[0]
	}
	return strings.Join(exts[:len(exts)-1], ", ") + ", or " + exts[len(exts)-1]
}

// KindOf classifies err. It returns "" for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrValidation) {
		return KindValidation
	}
	if errors.Is(err, parser.ErrUnsupportedFormat) {
		return KindUnsupportedFormat
	}
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return KindParseFailure
	}
	var failure *llm.Failure
	if errors.As(err, &failure) {
		switch failure.Kind {
		case llm.KindTimeout:
			return KindTimeout
		case llm.KindTransientOverload:
			return KindTransientOverload
		}
		return KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

// UserMessage renders err as the text shown next to the failed action.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var failure *llm.Failure
	switch KindOf(err) {
	case KindValidation:
		var v *validationError
		if errors.As(err, &v) {
			return v.msg
		}
		return err.Error()
	case KindUnsupportedFormat:
		return UnsupportedFormatMessage
	case KindParseFailure:
		var parseErr *parser.ParseError
		errors.As(err, &parseErr)
		return fmt.Sprintf("Could not read %s as %s: %v", parseErr.Filename, parseErr.Format, parseErr.Err)
	case KindTimeout, KindTransientOverload:
		if errors.As(err, &failure) {
			return failure.Advice()
		}
		return "The model did not respond in time. Try again, or use a smaller document budget."
	}

	if errors.As(err, &failure) {
		switch failure.Backend {
		case llm.BackendOllama:
			return "Error contacting local LLM: " + failure.Message
		case llm.BackendGemini:
			return "Error calling Gemini API: " + failure.Message
		}
		return failure.Message
	}
	return err.Error()
}
