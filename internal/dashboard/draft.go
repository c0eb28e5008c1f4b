package dashboard

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

// Draft is the product form as typed: raw text, so that empty or half-typed
// values can exist while the form is open.
type Draft struct {
	Name     string `json:"nama_produk"  form:"nama_produk"`
	Price    string `json:"harga_satuan" form:"harga_satuan"`
	Quantity string `json:"quantity"     form:"quantity"`
}

// DraftFrom seeds an edit form from the product's current values.
func DraftFrom(p models.Product) Draft {
	return Draft{
		Name:     p.Name,
		Price:    strconv.FormatFloat(p.Price, 'f', -1, 64),
		Quantity: strconv.FormatInt(p.Quantity, 10),
	}
}

// Parse validates the draft: every field filled in, a finite non-negative
// price and a non-negative whole quantity.
func (d Draft) Parse() (models.ProductFields, error) {
	name := strings.TrimSpace(d.Name)
	price := strings.TrimSpace(d.Price)
	qty := strings.TrimSpace(d.Quantity)

	if name == "" || price == "" || qty == "" {
		return models.ProductFields{}, fmt.Errorf("%w: all fields are required", ErrInvalidDraft)
	}

	p, err := strconv.ParseFloat(price, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return models.ProductFields{}, fmt.Errorf("%w: price %q is not a non-negative number", ErrInvalidDraft, d.Price)
	}

	q, err := strconv.ParseInt(qty, 10, 64)
	if err != nil || q < 0 {
		return models.ProductFields{}, fmt.Errorf("%w: quantity %q is not a non-negative integer", ErrInvalidDraft, d.Quantity)
	}

	return models.ProductFields{Name: d.Name, Price: p, Quantity: q}, nil
}

func patchFrom(f models.ProductFields) models.ProductPatch {
	return models.ProductPatch{Name: &f.Name, Price: &f.Price, Quantity: &f.Quantity}
}
