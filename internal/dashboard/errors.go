package dashboard

import "errors"

var (
	ErrForbidden          = errors.New("admin role required")
	ErrNotReady           = errors.New("dashboard is not ready")
	ErrFormClosed         = errors.New("no product form is open")
	ErrFormOpen           = errors.New("a product form is already open")
	ErrUnknownProduct     = errors.New("product is not in the list")
	ErrInvalidDraft       = errors.New("invalid product form")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
