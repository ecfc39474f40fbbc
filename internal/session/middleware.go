package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// contextKey is unexported so no other package can read or shadow the value.
type contextKey string

const userIDKey contextKey = "userID"

// Middleware loads the browser's selected user id into the request context.
//
// A request without a selection, or with an unusable one, gets defaultUserID.
// Store errors are logged and never fail the request.
func Middleware(store Store, defaultUserID int64, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok, err := store.Load(r)
			switch {
			case errors.Is(err, ErrInvalid):
				logger.Debug("ignoring invalid session", slog.String("error", err.Error()))
			case err != nil:
				logger.Error("failed to load session", slog.String("error", err.Error()))
			}
			if err != nil || !ok {
				userID = defaultUserID
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the id Middleware stored, and false when the
// request never went through Middleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
