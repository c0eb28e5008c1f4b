package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/inventory_dashboard/internal/dashboard"
	"github.com/Skotchmaster/inventory_dashboard/internal/logging"
	"github.com/Skotchmaster/inventory_dashboard/internal/middleware/auth"
	"github.com/Skotchmaster/inventory_dashboard/internal/middleware/csrf"
	"github.com/Skotchmaster/inventory_dashboard/internal/session"
)

type DashboardHandler struct {
	Registry *dashboard.Registry
}

type dashboardPage struct {
	CSRF string
	View dashboard.View
}

// controller returns the browser's screen, mounting it when it has not been
// mounted yet or was left signed out. fresh reports whether this call mounted it.
func (h *DashboardHandler) controller(c echo.Context) (ctrl *dashboard.Controller, fresh bool, err error) {
	ctx := c.Request().Context()
	id, ok := session.BrowserFrom(ctx)
	if !ok {
		return nil, false, echo.NewHTTPError(http.StatusBadRequest, "unknown browser")
	}

	ctrl = h.Registry.Get(id)
	// The session may have changed hands on another instance sharing the store.
	if u, ok := auth.UserFrom(c); ok {
		if cur, mounted := ctrl.User(); mounted && cur.ID != u.ID {
			h.Registry.Forget(id)
			ctrl = h.Registry.Get(id)
		}
	}
	if ctrl.NeedsMount() {
		if err := ctrl.Mount(ctx); err != nil {
			logging.FromContext(ctx).Warn("mount_error", "reason", "product list failed", "error", err)
		}
		return ctrl, true, nil
	}
	return ctrl, false, nil
}

// page returns the screen for a page load. Every load reads the product list
// again, as a fresh mount would; an already mounted screen keeps its form
// and filter.
func (h *DashboardHandler) page(c echo.Context) (*dashboard.Controller, error) {
	ctx := c.Request().Context()
	ctrl, fresh, err := h.controller(c)
	if err != nil {
		return nil, err
	}
	if !fresh {
		if err := ctrl.Refresh(ctx); err != nil && !errors.Is(err, dashboard.ErrNotReady) {
			logging.FromContext(ctx).Warn("refresh_error", "reason", "product list failed", "error", err)
		}
	}
	if c.QueryParams().Has("q") {
		ctrl.SetFilter(c.QueryParam("q"))
	}
	return ctrl, nil
}

func (h *DashboardHandler) Show(c echo.Context) error {
	ctrl, err := h.page(c)
	if err != nil {
		return err
	}

	v := ctrl.View()
	if v.Redirect != "" {
		return c.Redirect(http.StatusSeeOther, v.Redirect)
	}
	return c.Render(http.StatusOK, "dashboard.html", dashboardPage{CSRF: csrf.Token(c), View: v})
}

// View serves the screen state as JSON.
func (h *DashboardHandler) View(c echo.Context) error {
	ctrl, err := h.page(c)
	if err != nil {
		return err
	}

	v := ctrl.View()
	if v.Phase == dashboard.Unauthenticated {
		return c.JSON(http.StatusUnauthorized, v)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *DashboardHandler) OpenCreateForm(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "dashboard_open_create")
	ctrl, _, err := h.controller(c)
	if err != nil {
		return err
	}
	return h.afterIntent(c, l, ctrl.OpenCreateForm())
}

func (h *DashboardHandler) OpenEditForm(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "dashboard_open_edit")
	id, err := parseID(c)
	if err != nil {
		l.Warn("open_edit_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	ctrl, _, err := h.controller(c)
	if err != nil {
		return err
	}
	return h.afterIntent(c, l.With("product_id", id), ctrl.OpenEditFormByID(id))
}

func (h *DashboardHandler) SubmitForm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard_submit_form")

	var draft dashboard.Draft
	if err := c.Bind(&draft); err != nil {
		l.Warn("submit_form_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	ctrl, _, err := h.controller(c)
	if err != nil {
		return err
	}
	return h.afterIntent(c, l, ctrl.SubmitForm(ctx, draft))
}

func (h *DashboardHandler) CancelForm(c echo.Context) error {
	ctrl, _, err := h.controller(c)
	if err != nil {
		return err
	}
	ctrl.CancelForm()
	return c.Redirect(http.StatusSeeOther, DashboardPath)
}

func (h *DashboardHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard_delete_product")

	id, err := parseID(c)
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	ctrl, _, err := h.controller(c)
	if err != nil {
		return err
	}
	return h.afterIntent(c, l.With("product_id", id), ctrl.DeleteProduct(ctx, id))
}

// afterIntent maps the result of an intent to a response. Errors the screen
// already shows end in the usual redirect back to the dashboard.
func (h *DashboardHandler) afterIntent(c echo.Context, l *slog.Logger, err error) error {
	switch {
	case err == nil:
	case errors.Is(err, dashboard.ErrNotReady):
		return c.Redirect(http.StatusSeeOther, dashboard.SignInPath)
	case errors.Is(err, dashboard.ErrForbidden):
		l.Warn("intent_error", "status", 403, "reason", "admin role required")
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	case errors.Is(err, dashboard.ErrFormOpen):
		l.Info("intent_ignored", "reason", "a product form is already open")
	case errors.Is(err, dashboard.ErrUnknownProduct):
		l.Warn("intent_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	default:
		l.Warn("intent_error", "reason", "shown on the dashboard", "error", err)
	}
	return c.Redirect(http.StatusSeeOther, DashboardPath)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
