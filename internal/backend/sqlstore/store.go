// Package sqlstore is the backend client for a directly reachable SQL
// database holding the users and products tables.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory_dashboard/internal/backend"
	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

type Store struct {
	DB *gorm.DB
}

var _ backend.Client = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Migrate creates the two tables when they do not exist yet. The hosted
// schema is normally provisioned out of band; this is for local databases.
func (s *Store) Migrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(&models.User{}, &models.Product{})
}

// DemoUsers are the accounts Seed provisions.
var DemoUsers = []models.User{
	{Username: "admin", Password: "admin123", Role: models.RoleAdmin},
	{Username: "user", Password: "user123", Role: models.RoleUser},
}

// Seed inserts users that do not exist yet, matched by username.
func (s *Store) Seed(ctx context.Context, users ...models.User) error {
	for _, u := range users {
		var row models.User
		err := s.DB.WithContext(ctx).
			Where(models.User{Username: u.Username}).
			Attrs(models.User{Password: u.Password, Role: u.Role}).
			FirstOrCreate(&row).Error
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	return nil
}

func (s *Store) FindUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("username = ? AND password = ?", username, password).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

func (s *Store) CreateProduct(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	prod := models.Product{
		Name:     fields.Name,
		Price:    fields.Price,
		Quantity: fields.Quantity,
	}
	if err := s.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &prod, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	var prod models.Product
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return backend.ErrNotFound
			}
			return err
		}
		if patch.Empty() {
			return nil
		}
		if err := tx.Model(&prod).Updates(patch.Columns()).Error; err != nil {
			return err
		}
		patch.Apply(&prod)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &prod, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.DB.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
