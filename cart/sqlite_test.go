package cart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSQLiteStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	db, err := NewSQLiteStorage(path)
	require.NoError(t, err)

	_, found, err := db.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, db.Set("k", "v1"))
	require.NoError(t, db.Set("k", "v2"))
	v, found, err := db.Get("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", v)
	require.NoError(t, db.Close())
}

func TestSQLiteStorage_CartSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	db, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	s := NewStore(db, CartKey, zap.NewNop())
	require.NoError(t, s.AddToCart(product("Tea", 120), 2))
	require.NoError(t, db.Close())

	db, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer db.Close()
	restored := NewStore(db, CartKey, zap.NewNop())
	assert.Equal(t, 2, restored.TotalItems())
	assert.InDelta(t, 240, restored.TotalPrice(), 1e-9)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}
