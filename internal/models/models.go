package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username string `gorm:"unique;not null"           json:"username"`
	Password string `gorm:"not null"                  json:"password"`
	Role     Role   `gorm:"not null"                  json:"role"`
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Product struct {
	ID       int64   `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name     string  `gorm:"column:nama_produk;not null"   json:"nama_produk"`
	Price    float64 `gorm:"column:harga_satuan;not null"  json:"harga_satuan"`
	Quantity int64   `gorm:"column:quantity;not null"      json:"quantity"`
}

func (Product) TableName() string { return "products" }

// TotalValue is the stock value of the row: unit price times quantity.
func (p Product) TotalValue() float64 {
	return p.Price * float64(p.Quantity)
}

// ProductFields is the payload of a create round trip.
type ProductFields struct {
	Name     string  `json:"nama_produk"`
	Price    float64 `json:"harga_satuan"`
	Quantity int64   `json:"quantity"`
}

// ProductPatch carries only the fields an update should touch.
type ProductPatch struct {
	Name     *string  `json:"nama_produk,omitempty"`
	Price    *float64 `json:"harga_satuan,omitempty"`
	Quantity *int64   `json:"quantity,omitempty"`
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Quantity == nil
}

// Apply copies the set fields of the patch onto prod.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Quantity != nil {
		prod.Quantity = *p.Quantity
	}
}

// Columns maps the set fields to their column names, for partial updates.
func (p ProductPatch) Columns() map[string]any {
	cols := make(map[string]any, 3)
	if p.Name != nil {
		cols["nama_produk"] = *p.Name
	}
	if p.Price != nil {
		cols["harga_satuan"] = *p.Price
	}
	if p.Quantity != nil {
		cols["quantity"] = *p.Quantity
	}
	return cols
}
