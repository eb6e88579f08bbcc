package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrKriegler/go-storefront/internal/core"
	"github.com/MrKriegler/go-storefront/pkg/problem"
)

func writeError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error, detail string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		log.WarnContext(ctx, "resource not found", "err", err)
		problem.Write(w, http.StatusNotFound, "Not Found", detail)

	case errors.Is(err, core.ErrEmptyCheckout):
		log.WarnContext(ctx, "empty checkout", "err", err)
		problem.Write(w, http.StatusUnprocessableEntity, "Empty Checkout", detail)

	case errors.Is(err, core.ErrValidation):
		log.WarnContext(ctx, "validation failed", "err", err)
		problem.Write(w, http.StatusBadRequest, "Validation Error", detail)

	case errors.Is(err, core.ErrStaleLoad):
		log.InfoContext(ctx, "stale catalog load", "err", err)
		problem.Write(w, http.StatusConflict, "Superseded", "A newer catalog load replaced this one.")

	case errors.Is(err, core.ErrConflict):
		log.WarnContext(ctx, "resource conflict", "err", err)
		problem.Write(w, http.StatusConflict, "Conflict", detail)

	case errors.Is(err, core.ErrUnauthorized):
		log.WarnContext(ctx, "unauthorized request", "err", err)
		problem.Write(w, http.StatusUnauthorized, "Unauthorized", detail)

	case errors.Is(err, core.ErrForbidden):
		log.WarnContext(ctx, "forbidden operation", "err", err)
		problem.Write(w, http.StatusForbidden, "Forbidden", detail)

	case errors.Is(err, core.ErrCatalogUnavailable),
		errors.Is(err, core.ErrUpstream),
		errors.Is(err, core.ErrNetwork):
		log.WarnContext(ctx, "catalog unavailable", "err", err)
		problem.Send(w, problem.Problem{
			Title:   "Bad Gateway",
			Status:  http.StatusBadGateway,
			Detail:  core.MsgFailedToLoad,
			Message: core.UserMessage(err),
		})

	case errors.Is(err, context.DeadlineExceeded):
		log.ErrorContext(ctx, "operation timeout", "err", err)
		problem.Write(w, http.StatusGatewayTimeout, "Timeout", "Operation took too long.")

	default:
		log.ErrorContext(ctx, "internal server error", "err", err)
		problem.Write(w, http.StatusInternalServerError, "Internal Server Error", detail)
	}
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, v any) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return false
	}
	return true
}
