// Package dashboard holds the product dashboard view-model: the auth gate,
// the cached product list, the product form draft and the search filter.
//
// The cache is only ever replaced by a full ListProducts round trip, and every
// mutation attempt is followed by one, whatever the mutation returned.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Skotchmaster/inventory_dashboard/internal/backend"
	"github.com/Skotchmaster/inventory_dashboard/internal/events"
	"github.com/Skotchmaster/inventory_dashboard/internal/logging"
	"github.com/Skotchmaster/inventory_dashboard/internal/models"
	"github.com/Skotchmaster/inventory_dashboard/internal/session"
)

const SignInPath = "/signin"

type Phase int

const (
	Unauthenticated Phase = iota
	Loading
	Ready
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unauthenticated"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

type Mode int

const (
	Browsing Mode = iota
	FormCreate
	FormEdit
)

func (m Mode) String() string {
	switch m {
	case FormCreate:
		return "form_create"
	case FormEdit:
		return "form_edit"
	default:
		return "browsing"
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ErrorMode selects how backend failures reach the caller.
type ErrorMode int

const (
	// Silent swallows backend failures: the next list shows what happened.
	Silent ErrorMode = iota
	// Surface additionally returns them from intents and exposes them on the View.
	Surface
)

func ParseErrorMode(s string) ErrorMode {
	if s == "surface" {
		return Surface
	}
	return Silent
}

type Options struct {
	Errors    ErrorMode
	Publisher events.Publisher
}

type Controller struct {
	store     session.Store
	client    backend.Client
	publisher events.Publisher
	errMode   ErrorMode

	mu sync.Mutex
	// gen changes whenever the screen is (re)mounted or signed out; a round
	// trip started under an older gen must not write state.
	gen      uint64
	mounted  bool
	phase    Phase
	mode     Mode
	user     *models.User
	cache    []models.Product
	draft    Draft
	editing  *models.Product
	filter   string
	redirect string
	lastErr  error
}

func New(store session.Store, client backend.Client, opts Options) *Controller {
	return &Controller{
		store:     store,
		client:    client,
		publisher: opts.Publisher,
		errMode:   opts.Errors,
	}
}

// Mount reads the session. Without one the screen is left with a redirect to
// the sign-in page; with one the product list is fetched.
func (c *Controller) Mount(ctx context.Context) error {
	user, ok := c.store.Load(ctx)

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mounted = true
	c.resetLocked()
	if !ok {
		c.phase = Unauthenticated
		c.redirect = SignInPath
		c.mu.Unlock()
		return nil
	}
	c.user = user
	c.phase = Loading
	c.mu.Unlock()

	return c.fail(c.refresh(ctx, gen))
}

// NeedsMount reports whether the screen has not been mounted yet or was left
// unauthenticated.
func (c *Controller) NeedsMount() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.mounted || c.phase == Unauthenticated
}

func (c *Controller) OpenCreateForm() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireBrowsingLocked(); err != nil {
		return err
	}
	c.lastErr = nil
	c.mode = FormCreate
	c.draft = Draft{}
	c.editing = nil
	return nil
}

func (c *Controller) OpenEditForm(p models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireBrowsingLocked(); err != nil {
		return err
	}
	c.openEditLocked(p)
	return nil
}

// OpenEditFormByID opens the edit form for a product of the current cache.
func (c *Controller) OpenEditFormByID(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireBrowsingLocked(); err != nil {
		return err
	}
	for _, p := range c.cache {
		if p.ID == id {
			c.openEditLocked(p)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", ErrUnknownProduct, id)
}

func (c *Controller) openEditLocked(p models.Product) {
	c.lastErr = nil
	c.mode = FormEdit
	c.draft = DraftFrom(p)
	c.editing = &p
}

// UpdateDraft stores form input while the form stays open.
func (c *Controller) UpdateDraft(d Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireAdminLocked(); err != nil {
		return err
	}
	if c.mode == Browsing {
		return ErrFormClosed
	}
	c.draft = d
	return nil
}

func (c *Controller) CancelForm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeFormLocked()
}

// SubmitForm sends the draft to the backend, closes the form and refreshes
// the list. An invalid draft is ignored and the form stays open.
func (c *Controller) SubmitForm(ctx context.Context, d Draft) error {
	l := logging.FromContext(ctx).With("svc", "dashboard.submit_form")

	c.mu.Lock()
	if err := c.requireAdminLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.mode == Browsing {
		c.mu.Unlock()
		return ErrFormClosed
	}
	c.lastErr = nil
	c.draft = d

	fields, err := d.Parse()
	if err != nil {
		c.mu.Unlock()
		l.Debug("submit_ignored", "reason", "invalid draft", "error", err)
		return c.fail(err)
	}

	gen := c.gen
	userID := c.user.ID
	var editing *models.Product
	if c.mode == FormEdit && c.editing != nil {
		e := *c.editing
		editing = &e
	}
	c.mu.Unlock()

	var (
		saved   *models.Product
		callErr error
		evType  string
	)
	if editing != nil {
		evType = events.ProductUpdated
		saved, callErr = c.client.UpdateProduct(ctx, editing.ID, patchFrom(fields))
	} else {
		evType = events.ProductCreated
		saved, callErr = c.client.CreateProduct(ctx, fields)
	}
	if callErr != nil {
		l.Warn("product_save_failed", "reason", "backend rejected the product", "error", callErr)
	}

	c.mu.Lock()
	if c.current(gen) {
		c.closeFormLocked()
	}
	c.mu.Unlock()

	if callErr == nil && saved != nil {
		c.publish(ctx, evType, saved.ID, saved.Name, userID)
	}

	return c.fail(errors.Join(callErr, c.refresh(ctx, gen)))
}

// DeleteProduct removes the product and refreshes the list whether or not
// the backend accepted the delete. An open form stays open with its draft.
func (c *Controller) DeleteProduct(ctx context.Context, id int64) error {
	l := logging.FromContext(ctx).With("svc", "dashboard.delete_product", "product_id", id)

	c.mu.Lock()
	if err := c.requireAdminLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.lastErr = nil
	gen := c.gen
	userID := c.user.ID
	c.mu.Unlock()

	callErr := c.client.DeleteProduct(ctx, id)
	if callErr != nil {
		l.Warn("product_delete_failed", "reason", "backend rejected the delete", "error", callErr)
	} else {
		c.publish(ctx, events.ProductDeleted, id, "", userID)
	}

	return c.fail(errors.Join(callErr, c.refresh(ctx, gen)))
}

// Refresh re-fetches the product list for a fresh page load of a mounted
// screen. An open form and the filter are kept.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != Ready || c.user == nil {
		c.mu.Unlock()
		return ErrNotReady
	}
	gen := c.gen
	c.mu.Unlock()

	return c.fail(c.refresh(ctx, gen))
}

// SetFilter changes which cached products are visible; it never touches the
// cache or the backend.
func (c *Controller) SetFilter(text string) {
	c.mu.Lock()
	c.filter = text
	c.mu.Unlock()
}

// SignOut clears the session and leaves the screen unauthenticated. Round
// trips still in flight are discarded when they complete.
func (c *Controller) SignOut(ctx context.Context) error {
	err := c.store.Clear(ctx)

	c.mu.Lock()
	c.gen++
	c.resetLocked()
	c.phase = Unauthenticated
	c.redirect = SignInPath
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// User returns the user the screen was mounted for.
func (c *Controller) User() (models.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return models.User{}, false
	}
	return *c.user, true
}

// Products returns a copy of the cache.
func (c *Controller) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Product(nil), c.cache...)
}

// Visible returns the cached products matching the filter.
func (c *Controller) Visible() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.cache, c.filter)
}

func (c *Controller) refresh(ctx context.Context, gen uint64) error {
	products, err := c.client.ListProducts(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("list_products_failed", "reason", "showing an empty list", "error", err)
		products = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(gen) {
		logging.FromContext(ctx).Debug("list_products_discarded", "reason", "stale response")
		return nil
	}
	if products == nil {
		products = []models.Product{}
	}
	c.cache = products
	c.phase = Ready
	return err
}

// current reports whether a round trip started under gen may still write.
func (c *Controller) current(gen uint64) bool {
	return c.gen == gen && c.phase != Unauthenticated
}

func (c *Controller) requireAdminLocked() error {
	if c.phase != Ready || c.user == nil {
		return ErrNotReady
	}
	if !c.user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// requireBrowsingLocked admits the form-opening intents, which start only
// from Browsing.
func (c *Controller) requireBrowsingLocked() error {
	if err := c.requireAdminLocked(); err != nil {
		return err
	}
	if c.mode != Browsing {
		return ErrFormOpen
	}
	return nil
}

func (c *Controller) closeFormLocked() {
	c.mode = Browsing
	c.draft = Draft{}
	c.editing = nil
}

func (c *Controller) resetLocked() {
	c.closeFormLocked()
	c.user = nil
	c.cache = nil
	c.filter = ""
	c.redirect = ""
	c.lastErr = nil
}

// fail applies the error mode: Silent drops err, Surface records and returns it.
func (c *Controller) fail(err error) error {
	if err == nil || c.errMode == Silent {
		return nil
	}
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	return err
}

func (c *Controller) publish(ctx context.Context, typ string, productID int64, name string, userID int64) {
	if c.publisher == nil {
		return
	}
	ev := events.ProductEvent{
		Type:      typ,
		ProductID: productID,
		Name:      name,
		UserID:    userID,
		At:        time.Now().UTC(),
	}
	if err := c.publisher.PublishEvent(ctx, events.TopicProducts, strconv.FormatInt(productID, 10), ev); err != nil {
		logging.FromContext(ctx).Error("publish_failed", "event", typ, "product_id", productID, "error", err)
	}
}
