package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_dashboard/internal/dashboard"
	"github.com/Skotchmaster/inventory_dashboard/internal/handlers"
	"github.com/Skotchmaster/inventory_dashboard/internal/middleware/auth"
	"github.com/Skotchmaster/inventory_dashboard/internal/session"
)

type Deps struct {
	Store            session.Store
	AuthHandler      *handlers.AuthHandler
	DashboardHandler *handlers.DashboardHandler
	// Ready reports whether the backend can be reached; nil means always ready.
	Ready func(c echo.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	e.GET("/", d.AuthHandler.Root)
	e.GET("/signin", d.AuthHandler.ShowSignIn)
	e.POST("/signin", d.AuthHandler.SignIn)
	e.POST("/signout", d.AuthHandler.SignOut)

	requireSession := auth.RequireSession(d.Store, dashboard.SignInPath)

	board := e.Group(handlers.DashboardPath, requireSession)

	board.GET("", d.DashboardHandler.Show)
	board.POST("/products/new", d.DashboardHandler.OpenCreateForm)
	board.POST("/products/:id/edit", d.DashboardHandler.OpenEditForm)
	board.POST("/products/:id/delete", d.DashboardHandler.DeleteProduct)
	board.POST("/form", d.DashboardHandler.SubmitForm)
	board.POST("/form/cancel", d.DashboardHandler.CancelForm)

	board.RouteNotFound("/*", toSignIn)

	v1 := e.Group("/api/v1", requireSession)

	v1.GET("/dashboard", d.DashboardHandler.View)

	e.RouteNotFound("/*", toSignIn)
}

func toSignIn(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, dashboard.SignInPath)
}
