package dashboard

import (
	"strconv"
	"strings"

	"github.com/Skotchmaster/inventory_dashboard/internal/currency"
	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

// Row is one rendered line of the product table.
type Row struct {
	Number   int            `json:"number"`
	Product  models.Product `json:"product"`
	Price    string         `json:"price"`
	Quantity string         `json:"quantity"`
	Total    string         `json:"total"`
}

// View is a snapshot of the screen state for rendering.
type View struct {
	Phase    Phase           `json:"phase"`
	Mode     Mode            `json:"mode"`
	Loading  bool            `json:"loading"`
	User     *models.User    `json:"user,omitempty"`
	IsAdmin  bool            `json:"is_admin"`
	CanEdit  bool            `json:"can_edit"`
	Filter   string          `json:"filter"`
	Rows     []Row           `json:"rows"`
	Total    int             `json:"total"`
	Draft    Draft           `json:"draft"`
	Editing  *models.Product `json:"editing,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func (v View) FormOpen() bool {
	return v.Mode != Browsing
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Phase:    c.phase,
		Mode:     c.mode,
		Loading:  c.phase == Loading,
		Filter:   c.filter,
		Total:    len(c.cache),
		Draft:    c.draft,
		Redirect: c.redirect,
		Rows:     []Row{},
	}
	if c.user != nil {
		u := *c.user
		u.Password = ""
		v.User = &u
		v.IsAdmin = u.IsAdmin()
		v.CanEdit = v.IsAdmin && c.phase == Ready
	}
	if c.editing != nil {
		e := *c.editing
		v.Editing = &e
	}
	if c.lastErr != nil {
		v.Error = c.lastErr.Error()
	}

	for i, p := range Filter(c.cache, c.filter) {
		v.Rows = append(v.Rows, Row{
			Number:   i + 1,
			Product:  p,
			Price:    currency.FormatIDR(p.Price),
			Quantity: formatUnits(p.Quantity),
			Total:    currency.FormatIDR(p.TotalValue()),
		})
	}
	return v
}

// Filter keeps the products whose name contains text, ignoring case. The
// input slice is never modified.
func Filter(products []models.Product, text string) []models.Product {
	needle := strings.ToLower(text)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

func formatUnits(q int64) string {
	return strconv.FormatInt(q, 10) + " units"
}
