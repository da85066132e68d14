package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/skinform/internal/client/models"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.data = map[string][]byte{}
	return nil
}

func TestLoad_NoSessionReturnsNil(t *testing.T) {
	r := NewRepository(newMemStore(), nil)

	s, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	r := NewRepository(newMemStore(), nil)
	ctx := context.Background()

	in := &models.Session{
		ID:          "u-1",
		PhoneNumber: "5551234567",
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, r.Save(ctx, in))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestLoad_CorruptSessionTreatedAsLoggedOut(t *testing.T) {
	store := newMemStore()
	store.data["user"] = []byte(`}{`)
	r := NewRepository(store, nil)

	s, err := r.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestDelete_RemovesSession(t *testing.T) {
	store := newMemStore()
	r := NewRepository(store, nil)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Session{ID: "u-1", PhoneNumber: "5551234567", CreatedAt: time.Now()}))
	require.NoError(t, r.Delete(ctx))

	s, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}
