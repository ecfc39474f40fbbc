package server_test

import (
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/travel-tracker/internal/config"
	"github.com/sakif/travel-tracker/internal/handler"
	"github.com/sakif/travel-tracker/internal/server"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:          3000,
		DBPath:        ":memory:",
		DBMaxConns:    1,
		DefaultUserID: 1,
		SessionSecret: "test-secret-0123456789abcdef",
		SessionTTL:    time.Hour,
		LogLevel:      slog.LevelError,
		TemplateDir:   "../../web/templates",
		StaticDir:     "../../web/static",
	}
}

// newTestServer starts the full router on in-memory SQLite with cookie
// sessions.
func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	srv, err := server.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// browser is one visitor with its own cookie jar. Redirects are not
// followed so tests can check for the 302.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, ts *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: ts.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) post(path string, form url.Values) (int, string) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	require.NoError(b.t, err)
	return readBody(b.t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// addUser creates a family member through the form and checks the redirect.
func (b *browser) addUser(name, color string) {
	b.t.Helper()
	status, _ := b.post("/new", url.Values{"name": {name}, "color": {color}})
	require.Equal(b.t, http.StatusFound, status)
}

func (b *browser) addCountry(country string) (int, string) {
	b.t.Helper()
	return b.post("/add", url.Values{"country": {country}})
}

func TestTravelTracker_EndToEnd(t *testing.T) {
	ts := newTestServer(t, testConfig())
	b := newBrowser(t, ts)

	b.addUser("Angela", "teal")

	_, home := b.get("/")
	assert.Contains(t, home, "Total Countries: 0")
	assert.Contains(t, home, `const highlightColor = "teal"`)

	t.Run("exact match inserts and redirects", func(t *testing.T) {
		status, _ := b.addCountry("spain")
		assert.Equal(t, http.StatusFound, status)

		_, home := b.get("/")
		assert.Contains(t, home, "Total Countries: 1")
		assert.Contains(t, home, `const visitedCountries = ["ES"]`)
	})

	t.Run("duplicate in another case is rejected", func(t *testing.T) {
		status, body := b.addCountry("SPAIN")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, html.EscapeString(handler.MsgAlreadyAdded))
		assert.Contains(t, body, "Total Countries: 1")
	})

	t.Run("no match inserts nothing", func(t *testing.T) {
		status, body := b.addCountry("Nonexistentland")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, html.EscapeString(handler.MsgCountryNotFound))
		assert.Contains(t, body, "Total Countries: 1")
	})

	t.Run("substring matching several countries inserts one", func(t *testing.T) {
		status, _ := b.addCountry("united")
		assert.Equal(t, http.StatusFound, status)

		_, home := b.get("/")
		assert.Contains(t, home, "Total Countries: 2")
		assert.Contains(t, home, `const visitedCountries = ["ES","GB"]`)
	})

	t.Run("new user becomes current", func(t *testing.T) {
		b.addUser("Jack", "powderblue")

		_, home := b.get("/")
		assert.Contains(t, home, "Total Countries: 0")
		assert.Contains(t, home, `const highlightColor = "powderblue"`)

		status, _ := b.addCountry("france")
		assert.Equal(t, http.StatusFound, status)
		_, home = b.get("/")
		assert.Contains(t, home, `const visitedCountries = ["FR"]`)
	})

	t.Run("switching back shows the first user's list", func(t *testing.T) {
		status, _ := b.post("/user", url.Values{"user": {"1"}})
		assert.Equal(t, http.StatusFound, status)

		_, home := b.get("/")
		assert.Contains(t, home, "Total Countries: 2")
		assert.Contains(t, home, `const highlightColor = "teal"`)
		assert.Contains(t, home, "Angela")
		assert.Contains(t, home, "Jack")
	})

	t.Run("another browser keeps its own selection", func(t *testing.T) {
		// b's last choice was user 1; pick user 2 in b and check a fresh
		// browser still sees the default.
		b.post("/user", url.Values{"user": {"2"}})

		other := newBrowser(t, ts)
		_, home := other.get("/")
		assert.Contains(t, home, `const highlightColor = "teal"`)

		_, home = b.get("/")
		assert.Contains(t, home, `const highlightColor = "powderblue"`)
	})
}

func TestTravelTracker_Forms(t *testing.T) {
	ts := newTestServer(t, testConfig())
	b := newBrowser(t, ts)

	t.Run("home without users asks for one", func(t *testing.T) {
		status, body := b.get("/")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, html.EscapeString(handler.MsgNoCurrentUser))
	})

	t.Run("add=new shows the form", func(t *testing.T) {
		status, body := b.post("/user", url.Values{"add": {"new"}})
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, `action="/new"`)
	})

	t.Run("empty name re-renders the form", func(t *testing.T) {
		status, body := b.post("/new", url.Values{"name": {"  "}, "color": {"red"}})
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "name is required")
	})

	t.Run("duplicate name re-renders the form", func(t *testing.T) {
		b.addUser("Angela", "teal")
		status, body := b.post("/new", url.Values{"name": {"Angela"}, "color": {"red"}})
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "already exists")
	})

	t.Run("bad user id is a bad request", func(t *testing.T) {
		status, _ := b.post("/user", url.Values{"user": {"not-a-number"}})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown route is a 404", func(t *testing.T) {
		status, _ := b.get("/nope")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("wrong method is a 405", func(t *testing.T) {
		status, _ := b.get("/add")
		assert.Equal(t, http.StatusMethodNotAllowed, status)
	})
}

func TestHealthAndStatic(t *testing.T) {
	ts := newTestServer(t, testConfig())
	b := newBrowser(t, ts)

	status, body := b.get("/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)

	status, body = b.get("/static/css/main.css")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, ".tab.active")

	status, _ = b.get("/static/js/map.js")
	assert.Equal(t, http.StatusOK, status)
}

func TestCORS(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		ts := newTestServer(t, testConfig())

		req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://example.com")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin gets headers", func(t *testing.T) {
		cfg := testConfig()
		cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
		ts := newTestServer(t, cfg)

		req, err := http.NewRequest(http.MethodOptions, ts.URL+"/add", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPost))
	})
}

func TestNew_BadTemplateDir(t *testing.T) {
	cfg := testConfig()
	cfg.TemplateDir = t.TempDir()

	_, err := server.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := server.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
