// Package backend describes the hosted relational backend the dashboard
// delegates persistence and credential lookup to.
//
// Every call is a single round trip: no retries, no batching, no pagination.
// A nil record with a nil error means "absent". Callers that want the silent
// behaviour of the dashboard treat any error as absent too; the error is still
// returned so that an explicit error channel can be built on top.
package backend

import (
	"context"
	"errors"

	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

var ErrNotFound = errors.New("record not found")

type Client interface {
	// FindUserByCredentials matches username and password exactly.
	FindUserByCredentials(ctx context.Context, username, password string) (*models.User, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, fields models.ProductFields) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
