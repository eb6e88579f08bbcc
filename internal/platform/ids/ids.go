package ids

import "github.com/google/uuid"

// New returns a random UUIDv4 string.
func New() string {
	return uuid.NewString()
}

// NewOrderID returns an order reference of the form ORD-<uuid>.
func NewOrderID() string {
	return "ORD-" + uuid.NewString()
}
