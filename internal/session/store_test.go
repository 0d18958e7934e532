package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, ok := store.Current()
	assert.False(t, ok, "fresh store must hold no session")

	require.NoError(t, store.Login(Identity{CustomerID: "C001"}))
	id, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "C001", id.CustomerID)
	assert.False(t, id.Admin)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	// The record must outlive the process, like durable browser storage
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Login(Identity{Admin: true}))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	id, ok := reopened.Current()
	require.True(t, ok)
	assert.True(t, id.Admin)
}

func TestFileStoreLogoutClearsRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Login(Identity{CustomerID: "C001"}))

	require.NoError(t, store.Logout())
	_, ok := store.Current()
	assert.False(t, ok)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "logout must remove the record file")

	// Logging out twice is fine
	assert.NoError(t, store.Logout())
}

func TestFileStoreIgnoresCorruptRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, ok := store.Current()
	assert.False(t, ok, "an unreadable record counts as no session")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping redis session store test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	store := NewRedisStore(rdb, "wallet_console:session:test")
	t.Cleanup(func() { _ = store.Logout() })

	require.NoError(t, store.Login(Identity{CustomerID: "C001"}))
	id, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, "C001", id.CustomerID)

	require.NoError(t, store.Logout())
	_, ok = store.Current()
	assert.False(t, ok)
}
