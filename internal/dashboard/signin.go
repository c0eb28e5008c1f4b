package dashboard

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/inventory_dashboard/internal/backend"
	"github.com/Skotchmaster/inventory_dashboard/internal/logging"
	"github.com/Skotchmaster/inventory_dashboard/internal/models"
	"github.com/Skotchmaster/inventory_dashboard/internal/session"
)

// SignIn looks the credentials up and, on a match, saves the user as the
// browser's session. A lookup error is reported as a rejected sign-in.
func SignIn(ctx context.Context, client backend.Client, store session.Store, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "dashboard.sign_in", "username", username)

	user, err := client.FindUserByCredentials(ctx, username, password)
	if err != nil {
		l.Warn("sign_in_failed", "reason", "credential lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if user == nil {
		l.Info("sign_in_failed", "reason", "no matching user")
		return nil, ErrInvalidCredentials
	}

	if err := store.Save(ctx, *user); err != nil {
		l.Error("sign_in_failed", "reason", "cannot save session", "error", err)
		return nil, fmt.Errorf("save session: %w", err)
	}

	l.Info("sign_in_success", "role", user.Role)
	return user, nil
}
