package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindInvalidURL Kind = iota
	KindNoRecipe
	KindNetwork
	KindParseFailure
)

// GenericParseMessage is returned to callers when the underlying failure
// was not classified at its origin.
const GenericParseMessage = "Could not read a recipe from this page. Please try again."

// String returns the state name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "InvalidUrl"
	case KindNoRecipe:
		return "NoRecipe"
	case KindNetwork:
		return "Network"
	case KindParseFailure:
		return "ParseFailure"
	default:
		return "Unknown"
	}
}

// Code returns the caller-facing error code.
func (k Kind) Code() string {
	switch k {
	case KindInvalidURL:
		return "INVALID_URL"
	case KindNoRecipe:
		return "NO_RECIPE"
	case KindNetwork:
		return "NETWORK"
	default:
		return "PARSE_ERROR"
	}
}

// HTTPStatus returns the transport status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidURL:
		return http.StatusBadRequest
	case KindNoRecipe:
		return http.StatusNotFound
	case KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}

// Error is a classified pipeline failure: a kind plus a human message.
// Err keeps the underlying cause for logging and is never shown to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidURL reports a malformed or unreachable-by-design URL.
func InvalidURL(msg string, err error) *Error {
	return &Error{Kind: KindInvalidURL, Message: msg, Err: err}
}

// NoRecipe reports a page with no usable title or ingredients.
func NoRecipe(msg string) *Error {
	return &Error{Kind: KindNoRecipe, Message: msg}
}

// Network reports a transport-level fetch failure.
func Network(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

// ParseFailure reports a reachable page that could not be extracted.
func ParseFailure(msg string, err error) *Error {
	return &Error{Kind: KindParseFailure, Message: msg, Err: err}
}

// Classify returns the *Error in err's chain. Unclassified errors become a
// ParseFailure carrying the generic message, with err kept as the cause.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ParseFailure(GenericParseMessage, err)
}
