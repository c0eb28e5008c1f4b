package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/inventory_dashboard/internal/backend"
	"github.com/Skotchmaster/inventory_dashboard/internal/backend/sqlstore"
	"github.com/Skotchmaster/inventory_dashboard/internal/events"
	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

var (
	adminUser = models.User{ID: 1, Username: "admin", Password: "admin123", Role: models.RoleAdmin}
	plainUser = models.User{ID: 2, Username: "user", Password: "user123", Role: models.RoleUser}

	errBackend = errors.New("backend unavailable")
)

func InitTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := sqlstore.New(db)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Seed(context.Background(), sqlstore.DemoUsers...))
	return s
}

// fakeClient is an in-memory backend with switchable failures.
type fakeClient struct {
	mu       sync.Mutex
	users    []models.User
	products []models.Product
	nextID   int64
	calls    []string

	findErr   error
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listGate    chan struct{}
	listStarted chan struct{}
}

var _ backend.Client = (*fakeClient)(nil)

func newFakeClient(products ...models.Product) *fakeClient {
	f := &fakeClient{users: []models.User{adminUser, plainUser}}
	for _, p := range products {
		f.products = append(f.products, p)
		if p.ID > f.nextID {
			f.nextID = p.ID
		}
	}
	return f
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// blockList makes the next ListProducts calls wait until the returned
// channel is closed.
func (f *fakeClient) blockList() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listGate = make(chan struct{})
	f.listStarted = make(chan struct{}, 1)
	return f.listGate
}

func (f *fakeClient) FindUserByCredentials(_ context.Context, username, password string) (*models.User, error) {
	f.record("find_user")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Username == username && u.Password == password {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeClient) ListProducts(_ context.Context) ([]models.Product, error) {
	f.record("list")

	f.mu.Lock()
	gate, started := f.listGate, f.listStarted
	f.mu.Unlock()
	if gate != nil {
		started <- struct{}{}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeClient) CreateProduct(_ context.Context, fields models.ProductFields) (*models.Product, error) {
	f.record("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	p := models.Product{ID: f.nextID, Name: fields.Name, Price: fields.Price, Quantity: fields.Quantity}
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeClient) UpdateProduct(_ context.Context, id int64, patch models.ProductPatch) (*models.Product, error) {
	f.record("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for i := range f.products {
		if f.products[i].ID == id {
			patch.Apply(&f.products[i])
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, backend.ErrNotFound
}

func (f *fakeClient) DeleteProduct(_ context.Context, id int64) error {
	f.record("delete")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ProductEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if topic == events.TopicProducts {
		p.events = append(p.events, event.(events.ProductEvent))
	}
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
