// Package session keeps the signed-in user in a durable per-browser slot.
//
// The browser is identified by the id BrowserMiddleware puts in the request
// context. A context without a browser id behaves like code running outside a
// browser: Load reports absent, Save and Clear do nothing.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

// Key is the well-known name of the slot holding the serialized user.
const Key = "session_user"

type Store interface {
	Save(ctx context.Context, user models.User) error
	Load(ctx context.Context) (*models.User, bool)
	Clear(ctx context.Context) error
}

type browserKey struct{}

func WithBrowser(ctx context.Context, browserID string) context.Context {
	return context.WithValue(ctx, browserKey{}, browserID)
}

func BrowserFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(browserKey{}).(string)
	return id, ok && id != ""
}

func slotKey(browserID string) string {
	return Key + ":" + browserID
}

// MemoryStore keeps slots in process memory. Slots survive page reloads but
// not a server restart.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, user models.User) error {
	id, ok := BrowserFrom(ctx)
	if !ok {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.slots[slotKey(id)] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) (*models.User, bool) {
	id, ok := BrowserFrom(ctx)
	if !ok {
		return nil, false
	}

	s.mu.RLock()
	data, ok := s.slots[slotKey(id)]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return decode(data)
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	id, ok := BrowserFrom(ctx)
	if !ok {
		return nil
	}

	s.mu.Lock()
	delete(s.slots, slotKey(id))
	s.mu.Unlock()
	return nil
}

// decode treats an unreadable slot as an empty one.
func decode(data []byte) (*models.User, bool) {
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, false
	}
	return &user, true
}
