package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("browser-secret")

func TestSignAndParseBrowserID(t *testing.T) {
	id := uuid.NewString()
	token, err := SignBrowserID(id, testSecret)
	require.NoError(t, err)

	got, err := ParseBrowserID(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, id, got)

	_, err = ParseBrowserID(token, []byte("other"))
	require.Error(t, err)

	bad, err := SignBrowserID("not-a-uuid", testSecret)
	require.NoError(t, err)
	_, err = ParseBrowserID(bad, testSecret)
	require.Error(t, err)
}

func browserServer() *echo.Echo {
	e := echo.New()
	e.Use(BrowserMiddleware(testSecret, false))
	e.GET("/", func(c echo.Context) error {
		id, ok := BrowserFrom(c.Request().Context())
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, id)
	})
	return e
}

func TestBrowserMiddleware_IssuesAndReusesIdentity(t *testing.T) {
	e := browserServer()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	first := rec.Body.String()
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, BrowserCookie, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, first, rec.Body.String())
	require.Empty(t, rec.Result().Cookies(), "known browsers get no new cookie")
}

func TestBrowserMiddleware_ForgedCookieGetsFreshIdentity(t *testing.T) {
	e := browserServer()

	forged, err := SignBrowserID(uuid.NewString(), []byte("attacker"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: BrowserCookie, Value: forged})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
}
