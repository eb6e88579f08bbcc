package core

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden operation")
)

// Catalog errors. ErrNetwork and ErrUpstream come from the catalog source,
// ErrCatalogUnavailable wraps either one once the pager has recorded the failure.
var (
	ErrNetwork            = errors.New("catalog network failure")
	ErrUpstream           = errors.New("catalog server error")
	ErrCatalogUnavailable = errors.New("failed to load products")
	ErrStaleLoad          = errors.New("stale catalog load discarded")
)

var ErrEmptyCheckout = errors.New("nothing to check out")

// User-facing messages for catalog failures.
const (
	MsgServerError  = "Server error. Please try again."
	MsgNetworkError = "Network error. Check internet connection."
	MsgUnknownError = "Something went wrong."
	MsgFailedToLoad = "Failed to load products"
)

// UserMessage maps a catalog error to the message shown to shoppers.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUpstream):
		return MsgServerError
	case errors.Is(err, ErrNetwork):
		return MsgNetworkError
	default:
		return MsgUnknownError
	}
}
