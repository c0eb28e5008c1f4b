package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	BrowserCookie = "browser"

	// BrowserContextKey holds the browser id on the echo context.
	BrowserContextKey = "browser_id"

	browserTTL = 365 * 24 * time.Hour
)

func CreateCookie(name, value, path string, expTime time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SignBrowserID returns an HS256 token whose subject is the browser id.
func SignBrowserID(id string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  id,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseBrowserID validates a token made by SignBrowserID.
func ParseBrowserID(token string, secret []byte) (string, error) {
	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !tkn.Valid {
		return "", errors.New("invalid browser token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("invalid browser id")
	}
	return claims.Subject, nil
}

// BrowserMiddleware identifies the browser behind each request by a signed
// cookie, issuing a fresh identity when the cookie is absent or forged.
func BrowserMiddleware(secret []byte, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if ck, err := c.Cookie(BrowserCookie); err == nil && ck.Value != "" {
				id, _ = ParseBrowserID(ck.Value, secret)
			}

			if id == "" {
				id = uuid.NewString()
				token, err := SignBrowserID(id, secret)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign browser id")
				}
				c.SetCookie(CreateCookie(BrowserCookie, token, "/", time.Now().Add(browserTTL), secure))
			}

			c.Set(BrowserContextKey, id)
			c.SetRequest(c.Request().WithContext(WithBrowser(c.Request().Context(), id)))
			return next(c)
		}
	}
}
