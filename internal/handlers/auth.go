package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_dashboard/internal/backend"
	"github.com/Skotchmaster/inventory_dashboard/internal/dashboard"
	"github.com/Skotchmaster/inventory_dashboard/internal/logging"
	"github.com/Skotchmaster/inventory_dashboard/internal/middleware/csrf"
	"github.com/Skotchmaster/inventory_dashboard/internal/session"
)

const DashboardPath = "/dashboard"

type AuthHandler struct {
	Client   backend.Client
	Store    session.Store
	Registry *dashboard.Registry
}

type signInPage struct {
	CSRF     string
	Username string
	Error    string
}

// Root sends the browser to the dashboard when it holds a session, otherwise
// to the sign-in page.
func (h *AuthHandler) Root(c echo.Context) error {
	if _, ok := h.Store.Load(c.Request().Context()); ok {
		return c.Redirect(http.StatusSeeOther, DashboardPath)
	}
	return c.Redirect(http.StatusSeeOther, dashboard.SignInPath)
}

func (h *AuthHandler) ShowSignIn(c echo.Context) error {
	return c.Render(http.StatusOK, "signin.html", signInPage{CSRF: csrf.Token(c)})
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_sign_in")

	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_in_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := dashboard.SignIn(ctx, h.Client, h.Store, req.Username, req.Password); err != nil {
		if errors.Is(err, dashboard.ErrInvalidCredentials) {
			return c.Render(http.StatusUnauthorized, "signin.html", signInPage{
				CSRF:     csrf.Token(c),
				Username: req.Username,
				Error:    "Invalid username or password",
			})
		}
		l.Error("sign_in_error", "status", 500, "reason", "cannot save session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign in")
	}

	// A fresh session gets a fresh screen.
	if id, ok := session.BrowserFrom(ctx); ok {
		h.Registry.Forget(id)
	}
	return c.Redirect(http.StatusSeeOther, DashboardPath)
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_sign_out")

	id, ok := session.BrowserFrom(ctx)
	if ok {
		if err := h.Registry.Get(id).SignOut(ctx); err != nil {
			l.Error("sign_out_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign out")
		}
		h.Registry.Forget(id)
	}

	l.Info("sign_out_success")
	return c.Redirect(http.StatusSeeOther, dashboard.SignInPath)
}
