package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubStore returns fixed Load results.
type stubStore struct {
	id  int64
	ok  bool
	err error
}

func (s stubStore) Load(*http.Request) (int64, bool, error) { return s.id, s.ok, s.err }
func (s stubStore) Save(http.ResponseWriter, *http.Request, int64) error { return nil }

func TestMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name  string
		store Store
		want  int64
	}{
		{"selection present", stubStore{id: 9, ok: true}, 9},
		{"no selection uses default", stubStore{}, 1},
		{"invalid cookie uses default", stubStore{err: ErrInvalid}, 1},
		{"store error uses default", stubStore{id: 9, ok: true, err: errors.New("redis down")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int64
			var found bool
			h := Middleware(tt.store, 1, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, found = UserIDFromContext(r.Context())
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			assert.True(t, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestMiddleware_SessionsAreIndependent(t *testing.T) {
	// Two browsers selecting different users must not see each other's choice.
	store := newTestCookieStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	recA := httptest.NewRecorder()
	recB := httptest.NewRecorder()
	store.Save(recA, httptest.NewRequest(http.MethodPost, "/user", nil), 2)
	store.Save(recB, httptest.NewRequest(http.MethodPost, "/user", nil), 3)

	var seen int64
	h := Middleware(store, 1, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), requestWithCookies(recA))
	assert.Equal(t, int64(2), seen)

	h.ServeHTTP(httptest.NewRecorder(), requestWithCookies(recB))
	assert.Equal(t, int64(3), seen)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, int64(1), seen)
}
