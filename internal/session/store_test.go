package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/inventory_dashboard/internal/models"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func stores(t *testing.T) map[string]Store {
	rs, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  rs,
	}
}

func TestStore_SaveLoadClear(t *testing.T) {
	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			ctx := WithBrowser(context.Background(), "browser-1")

			_, ok := s.Load(ctx)
			require.False(t, ok, "never set")

			admin := models.User{ID: 1, Username: "admin", Password: "admin123", Role: models.RoleAdmin}
			require.NoError(t, s.Save(ctx, admin))

			got, ok := s.Load(ctx)
			require.True(t, ok)
			require.Equal(t, admin, *got)

			user := models.User{ID: 2, Username: "user", Password: "user123", Role: models.RoleUser}
			require.NoError(t, s.Save(ctx, user))
			got, ok = s.Load(ctx)
			require.True(t, ok)
			require.Equal(t, user, *got, "save replaces the prior value")

			require.NoError(t, s.Clear(ctx))
			_, ok = s.Load(ctx)
			require.False(t, ok)

			require.NoError(t, s.Clear(ctx), "clearing an empty slot is fine")
		})
	}
}

func TestStore_SlotsAreScopedPerBrowser(t *testing.T) {
	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			a := WithBrowser(context.Background(), "a")
			b := WithBrowser(context.Background(), "b")

			require.NoError(t, s.Save(a, models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}))

			_, ok := s.Load(b)
			require.False(t, ok)

			require.NoError(t, s.Clear(b))
			_, ok = s.Load(a)
			require.True(t, ok)
		})
	}
}

func TestStore_NoBrowserMeansAbsent(t *testing.T) {
	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Save(ctx, models.User{ID: 1, Username: "admin"}))
			got, ok := s.Load(ctx)
			require.False(t, ok)
			require.Nil(t, got)
			require.NoError(t, s.Clear(ctx))
		})
	}
}

func TestRedisStore_UsesWellKnownKeyAndIgnoresGarbage(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := WithBrowser(context.Background(), "b1")

	require.NoError(t, s.Save(ctx, models.User{ID: 3, Username: "x", Role: models.RoleUser}))
	require.True(t, mr.Exists("session_user:b1"))
	require.Zero(t, mr.TTL("session_user:b1"), "slots never expire")

	require.NoError(t, mr.Set("session_user:b1", "{not json"))
	_, ok := s.Load(ctx)
	require.False(t, ok)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}
