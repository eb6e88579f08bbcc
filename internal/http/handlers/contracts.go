package handlers

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-storefront/internal/core"
)

type Mountable interface {
	Mount(r chi.Router)
}

// dispatch runs an intent and asserts the result type. On error the result
// is still returned when the service produced one (catalog failures carry
// the state they left behind).
func dispatch[T any](ctx context.Context, sf *core.Storefront, in core.Intent) (T, error) {
	var zero T
	out, err := sf.Dispatch(ctx, in)
	v, ok := out.(T)
	if err != nil {
		return v, err
	}
	if !ok {
		return zero, fmt.Errorf("intent %s returned %T", in.IntentName(), out)
	}
	return v, nil
}
