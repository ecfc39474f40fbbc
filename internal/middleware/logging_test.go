package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/sakif/travel-tracker/internal/session"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
		w.Write([]byte("moved"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/add", nil)
	req = req.WithContext(session.WithUserID(req.Context(), 3))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := buf.String()
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, `msg="request completed"`)
	assert.Contains(t, out, "method=POST")
	assert.Contains(t, out, "path=/add")
	assert.Contains(t, out, "status=302")
	assert.Contains(t, out, "bytes=5")
	assert.Contains(t, out, "user_id=3")
}

func TestLogger_RequestIDAndErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := chimiddleware.RequestID(Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "request_id=")
	assert.NotContains(t, out, "user_id=")
}
