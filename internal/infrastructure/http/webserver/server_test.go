package webserver

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/recipify/v2/internal/infrastructure/config"
)

var csrfFieldPattern = regexp.MustCompile(`name="csrfmiddlewaretoken" value="([^"]+)"`)

type webFixture struct {
	server  *WebServer
	session *Session
}

// newWebFixture wires a web server against a fake backend and returns
// an authenticated session stored in miniredis.
func newWebFixture(t *testing.T, backend http.Handler) *webFixture {
	t.Helper()

	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zaptest.NewLogger(t)
	cfg := &config.Config{}
	cfg.App.Environment = "test"
	cfg.Server.WebPort = 0
	cfg.Server.ReadTimeout = 5 * time.Second
	cfg.Server.WriteTimeout = 5 * time.Second
	cfg.Auth.JWTSecret = "test-jwt-secret-at-least-32-chars!!"
	cfg.Auth.SessionSecret = "test-session-secret-32-chars-long!!"
	cfg.Auth.BCryptCost = 4

	sessionStore := NewSessionStore(client, time.Hour, logger)

	server, err := NewWebServer(cfg, logger, NewAPIClient(api.URL, logger), sessionStore)
	require.NoError(t, err)

	session := sessionStore.New(context.Background())
	session.UserID = "9d2a4c36-16e5-4b0f-9a96-5a4d2f9a1b00"
	session.AccessToken = "test-access-token"
	require.NoError(t, sessionStore.Save(context.Background(), session))

	return &webFixture{server: server, session: session}
}

// fetchCSRF loads the login page to obtain a token and the cookie it
// validates against.
func (f *webFixture) fetchCSRF(t *testing.T) (string, []*http.Cookie) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	match := csrfFieldPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2, "login page should carry a token field")

	return html.UnescapeString(match[1]), rec.Result().Cookies()
}

func (f *webFixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	token, cookies := f.fetchCSRF(t)
	form.Set("csrfmiddlewaretoken", token)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("Referer", "https://example.com"+path)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: f.session.ID})

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	return rec
}

func TestChatMessageFragment(t *testing.T) {
	t.Run("RecipeReply_ShouldRenderBubblesAndPublishForm", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/ai/chef/message", r.URL.Path)
			assert.Equal(t, "Bearer test-access-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"message": {"role": "assistant", "content": "Try this **easy** pasta: <a href=\"https://example.com/tips\">tips here</a>"},
				"draft": {"id": "d1", "title": "Easy Pasta", "publish_url": "/api/v1/ai/chef/publish/d1"}
			}`))
		})
		f := newWebFixture(t, backend)

		rec := f.post(t, "/htmx/ai/chef/message", url.Values{"prompt": {"dinner with <tomatoes>"}})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()

		assert.Contains(t, body, "dinner with &lt;tomatoes&gt;")
		assert.Contains(t, body, "<strong>easy</strong>")
		assert.Contains(t, body, `<a href="https://example.com/tips"`)
		assert.Contains(t, body, `action="/api/v1/ai/chef/publish/d1"`)
		assert.Contains(t, body, `hx-post="/htmx/ai/chef/publish/d1"`)
		assert.Contains(t, body, "Save Easy Pasta to your recipes?")
	})

	t.Run("ErrorReply_ShouldRenderPrefixedErrorBubble", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error": "AI service unavailable"}`))
		})
		f := newWebFixture(t, backend)

		rec := f.post(t, "/htmx/ai/chef/message", url.Values{"prompt": {"dinner"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), errorBubblePrefix+"AI service unavailable")
		assert.NotContains(t, rec.Body.String(), "publish-form")
	})

	t.Run("BackendDown_ShouldRenderFallbackBubble", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})
		f := newWebFixture(t, backend)

		rec := f.post(t, "/htmx/ai/chef/message", url.Values{"prompt": {"dinner"}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "The kitchen is unreachable right now")
	})

	t.Run("MissingCSRFToken_ShouldBeForbidden", func(t *testing.T) {
		f := newWebFixture(t, http.NotFoundHandler())

		form := url.Values{"prompt": {"dinner"}}
		req := httptest.NewRequest(http.MethodPost, "/htmx/ai/chef/message", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: f.session.ID})

		rec := httptest.NewRecorder()
		f.server.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("NoSession_ShouldRedirectToLogin", func(t *testing.T) {
		f := newWebFixture(t, http.NotFoundHandler())

		token, cookies := f.fetchCSRF(t)
		form := url.Values{"prompt": {"dinner"}, "csrfmiddlewaretoken": {token}}
		req := httptest.NewRequest(http.MethodPost, "/htmx/ai/chef/message", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		req.Header.Set("Referer", "https://example.com/htmx/ai/chef/message")
		for _, c := range cookies {
			req.AddCookie(c)
		}

		rec := httptest.NewRecorder()
		f.server.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	})
}

func TestPublishFragment(t *testing.T) {
	t.Run("PublishedDraft_ShouldLinkToRecipe", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/ai/chef/publish/d1", r.URL.Path)
			w.Write([]byte(`{"success": true, "recipe_url": "/recipes/abc"}`))
		})
		f := newWebFixture(t, backend)

		rec := f.post(t, "/htmx/ai/chef/publish/d1", url.Values{})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<a href="/recipes/abc" class="chat-link">View your recipe</a>`)
	})

	t.Run("URLWithQuery_ShouldNotGainExtraEscaping", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": true, "recipe_url": "/recipes/abc?ref=chef&tab=steps"}`))
		})
		f := newWebFixture(t, backend)

		rec := f.post(t, "/htmx/ai/chef/publish/d1", url.Values{})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `href="/recipes/abc?ref=chef&amp;amp;tab=steps"`)
		assert.NotContains(t, rec.Body.String(), "&amp;amp;amp;")
	})

	t.Run("RejectedPublish_ShouldRenderError", func(t *testing.T) {
		backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"success": false, "error": "draft already published"}`))
		})
		f := newWebFixture(t, backend)

		rec := f.post(t, "/htmx/ai/chef/publish/d1", url.Values{})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), errorBubblePrefix+"draft already published")
	})
}

func TestChatStatusEndpoint(t *testing.T) {
	f := newWebFixture(t, http.NotFoundHandler())

	cases := []struct {
		elapsed string
		label   string
	}{
		{"0", "Thinking about your recipe..."},
		{"3", "Consulting the cookbook..."},
		{"6", "Balancing the ingredients..."},
		{"9", "Writing up the steps..."},
		{"15", "Almost there, plating up..."},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/htmx/ai/chef/status?elapsed="+tc.elapsed, nil)
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: f.session.ID})

		rec := httptest.NewRecorder()
		f.server.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), tc.label)
	}
}
