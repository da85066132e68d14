package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessionrepo "github.com/avelichka/skinform/internal/client/repositories/session"
)

type memStore struct {
	data   map[string][]byte
	setErr error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
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

func newEngineOver(store *memStore) *Engine {
	return NewEngine(sessionrepo.NewRepository(store, nil), 0, nil)
}

func TestSetPhoneNumber_Transitions(t *testing.T) {
	e := newEngineOver(newMemStore())

	require.Equal(t, StateAnonymous, e.State())
	require.NoError(t, e.SetPhoneNumber("555-123-4567"))
	assert.Equal(t, StatePhoneEntered, e.State())
	assert.Equal(t, "5551234567", e.PhoneNumber())

	// Re-entering a phone stays in PhoneEntered.
	require.NoError(t, e.SetPhoneNumber("5559876543"))
	assert.Equal(t, StatePhoneEntered, e.State())
}

func TestSetPhoneNumber_RejectsInvalid(t *testing.T) {
	e := newEngineOver(newMemStore())

	assert.Error(t, e.SetPhoneNumber("123"))
	assert.Equal(t, StateAnonymous, e.State())
}

func TestBeginVerification_RequiresPhone(t *testing.T) {
	e := newEngineOver(newMemStore())

	assert.Error(t, e.BeginVerification())

	require.NoError(t, e.SetPhoneNumber("5551234567"))
	require.NoError(t, e.BeginVerification())
	assert.Equal(t, StateAwaitingVerification, e.State())
}

func TestLogin_ThenCheckAuthAfterRestart(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	e := newEngineOver(store)
	require.NoError(t, e.Login(ctx, "5551234567"))
	require.Equal(t, StateAuthenticated, e.State())

	// Fresh engine over the same store simulates a process restart.
	e2 := newEngineOver(store)
	require.NoError(t, e2.CheckAuth(ctx))

	assert.Equal(t, StateAuthenticated, e2.State())
	require.NotNil(t, e2.Session())
	assert.Equal(t, "5551234567", e2.Session().PhoneNumber)
	assert.Equal(t, e.Session().ID, e2.Session().ID)
}

func TestLogin_PersistenceFailurePropagates(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("disk full")
	e := newEngineOver(store)

	err := e.Login(context.Background(), "5551234567")
	assert.Error(t, err)
	assert.Equal(t, StateAnonymous, e.State())
	assert.Nil(t, e.Session())
}

func TestLogout_ClearsStateEvenIfStoreIsAlreadyEmpty(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	e := newEngineOver(store)
	require.NoError(t, e.Login(ctx, "5551234567"))

	e.Logout(ctx)
	assert.Equal(t, StateAnonymous, e.State())
	assert.Nil(t, e.Session())
	assert.Empty(t, e.PhoneNumber())
	assert.NotContains(t, store.data, "user")

	// Logging out twice is harmless.
	e.Logout(ctx)
	assert.Equal(t, StateAnonymous, e.State())
}

func TestCheckAuth_NoSessionStaysAnonymous(t *testing.T) {
	e := newEngineOver(newMemStore())

	require.NoError(t, e.CheckAuth(context.Background()))
	assert.Equal(t, StateAnonymous, e.State())
}

func TestCheckAuth_ExpiredSessionIsRejectedAndDeleted(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	e := newEngineOver(store)
	require.NoError(t, e.Login(ctx, "5551234567"))

	e2 := newEngineOver(store)
	e2.now = func() time.Time { return time.Now().Add(DefaultMaxSessionAge + time.Hour) }

	require.NoError(t, e2.CheckAuth(ctx))
	assert.Equal(t, StateAnonymous, e2.State())
	assert.NotContains(t, store.data, "user", "expired session must be deleted from the store")
}

func TestLoginVerified_KeepsServerIdentityAndToken(t *testing.T) {
	e := newEngineOver(newMemStore())
	ctx := context.Background()

	require.NoError(t, e.LoginVerified(ctx, "u-42", "5551234567", "tok"))
	require.NotNil(t, e.Session())
	assert.Equal(t, "u-42", e.Session().ID)
	assert.Equal(t, "tok", e.Session().Token)
}
