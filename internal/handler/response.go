package handler

// ERROR PAGES:
// Domain errors from the service layer become HTTP status codes here, and
// nowhere else. The service knows nothing about HTTP:
//
//	apperror.ErrValidation → 400
//	apperror.ErrNotFound   → 404
//	apperror.ErrConflict   → 409
//	anything else          → 500, with a generic message
//
// errors.Is/As walk the whole chain, so a service error wrapped as
// fmt.Errorf("creating user: %w", apperror.Conflict(...)) still maps to 409.

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/travel-tracker/internal/apperror"
)

type errorPage struct {
	Title   string
	Status  int
	Message string
}

// statusFor returns the HTTP status and the user-facing message for err.
func statusFor(err error) (int, string) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		// Raw errors may contain SQL or hostnames; never show them.
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest, appErr.Message
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, appErr.Message
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict, appErr.Message
	default:
		return http.StatusInternalServerError, appErr.Message
	}
}

// writeError renders the error page for err. 5xx errors are logged with the
// real cause.
func (p *Pages) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		p.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	p.Render(w, status, pageError, errorPage{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}
