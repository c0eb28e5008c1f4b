package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_dashboard/internal/models"
	"github.com/Skotchmaster/inventory_dashboard/internal/session"
)

// UserContextKey holds the signed-in user on the echo context.
const UserContextKey = "user"

// RequireSession lets a request through only when the browser holds a
// session. Pages are redirected to signInPath; JSON clients get 401.
func RequireSession(store session.Store, signInPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := store.Load(c.Request().Context())
			if !ok {
				if wantsJSON(c) {
					return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
				}
				return c.Redirect(http.StatusSeeOther, signInPath)
			}
			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// UserFrom returns the user RequireSession stored on the context.
func UserFrom(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(UserContextKey).(*models.User)
	return u, ok && u != nil
}

func wantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
