package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(Config{SkipPaths: []string{"/hook"}}))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, Token(c)) }
	e.GET("/form", ok)
	e.POST("/form", ok)
	e.POST("/hook", ok)
	return e
}

func issueToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	token := rec.Body.String()
	require.NotEmpty(t, token)
	require.Equal(t, token, rec.Header().Get("X-CSRF-Token"))
	return token
}

func TestMiddleware_AcceptsMatchingFormField(t *testing.T) {
	e := newServer()
	token := issueToken(t, e)

	form := url.Values{"csrf_token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("Origin", "http://example.com")
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, token, rec.Body.String())
}

func TestMiddleware_RejectsMissingOrWrongToken(t *testing.T) {
	e := newServer()
	token := issueToken(t, e)

	tests := []struct {
		name   string
		origin string
		header string
	}{
		{name: "no token", origin: "http://example.com"},
		{name: "wrong token", origin: "http://example.com", header: "nope"},
		{name: "foreign origin", origin: "http://evil.test", header: token},
		{name: "no origin", header: token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/form", nil)
			req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: token})
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.header != "" {
				req.Header.Set("X-CSRF-Token", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestMiddleware_SkipPaths(t *testing.T) {
	e := newServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hook", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
