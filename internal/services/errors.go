package services

import (
	"errors"
	"net/http"

	"serena-mcp/internal/credentials"
	"serena-mcp/internal/integrations"
	"serena-mcp/internal/integrations/upstream"
	"serena-mcp/internal/store"
)

// Errors returned by Dispatch. Store, integration and credential errors pass through wrapped.
var (
	ErrNotFound            = store.ErrNotFound
	ErrValidation          = errors.New("validation failed")
	ErrUnsupportedFunction = errors.New("unsupported function")
	ErrInternal            = errors.New("internal error")
)

// ErrorKind is the machine readable class of a dispatch error, rendered as "code".
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindValidation          ErrorKind = "validation_error"
	KindUpstream            ErrorKind = "upstream_error"
	KindTransport           ErrorKind = "transport_error"
	KindMissingCredential   ErrorKind = "missing_credential"
	KindUnsupportedFunction ErrorKind = "unsupported_function"
	KindInvalidJSON         ErrorKind = "invalid_json"
	KindInternal            ErrorKind = "internal_error"
)

// Classify maps an error onto its kind and the HTTP status it is rendered with.
// Every expected failure is reported with 200; only internal or unknown errors get 500.
func Classify(err error) (ErrorKind, int) {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound, http.StatusOK
	case errors.Is(err, ErrValidation):
		return KindValidation, http.StatusOK
	case errors.Is(err, integrations.ErrUpstream):
		return KindUpstream, http.StatusOK
	case errors.Is(err, upstream.ErrTransport):
		return KindTransport, http.StatusOK
	case errors.Is(err, credentials.ErrMissingCredential):
		return KindMissingCredential, http.StatusOK
	case errors.Is(err, ErrUnsupportedFunction):
		return KindUnsupportedFunction, http.StatusOK
	default:
		return KindInternal, http.StatusInternalServerError
	}
}
