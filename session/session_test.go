package session

import (
	"context"
	"testing"

	"centremart/cart"
	"centremart/feed"
	"centremart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type emptyPager struct{}

func (emptyPager) Page(context.Context, *feed.Cursor, int) ([]models.Product, error) {
	return nil, nil
}

func TestRegistry_ReusesSession(t *testing.T) {
	reg := NewRegistry(cart.NewMemoryStorage(), emptyPager{}, zap.NewNop())

	a := reg.Get("visitor-0001")
	b := reg.Get("visitor-0001")
	assert.Same(t, a, b)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_AssignsIDWhenMissing(t *testing.T) {
	reg := NewRegistry(cart.NewMemoryStorage(), emptyPager{}, zap.NewNop())

	s := reg.Get("")
	assert.NotEmpty(t, s.ID)
	bad := reg.Get("../../etc")
	assert.NotEqual(t, "../../etc", bad.ID)
	assert.NotEqual(t, s.ID, bad.ID)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	storage := cart.NewMemoryStorage()
	reg := NewRegistry(storage, emptyPager{}, zap.NewNop())
	p := models.Product{ID: primitive.NewObjectID(), Name: "Tea", Price: 20}

	require.NoError(t, reg.Get("visitor-aaaa").Cart.AddToCart(p, 1))
	assert.Empty(t, reg.Get("visitor-bbbb").Cart.Items())

	// a fresh registry over the same storage restores the cart
	again := NewRegistry(storage, emptyPager{}, zap.NewNop())
	assert.Equal(t, 1, again.Get("visitor-aaaa").Cart.TotalItems())
}

func TestNewBoundedRegistry_RejectsZeroCapacity(t *testing.T) {
	_, err := NewBoundedRegistry(cart.NewMemoryStorage(), emptyPager{}, 0, zap.NewNop())
	assert.Error(t, err)
}

func TestRegistry_StaysWithinCapacity(t *testing.T) {
	storage := cart.NewMemoryStorage()
	reg, err := NewBoundedRegistry(storage, emptyPager{}, 16, zap.NewNop())
	require.NoError(t, err)
	p := models.Product{ID: primitive.NewObjectID(), Name: "Tea", Price: 20}

	first := reg.Get("visitor-first")
	require.NoError(t, first.Cart.AddToCart(p, 2))

	// requests without a session header each start a new session
	for i := 0; i < 1000; i++ {
		reg.Get("")
		assert.LessOrEqual(t, reg.Len(), 16)
	}
	assert.Equal(t, 16, reg.Len())

	// the unloaded session comes back with its cart
	again := reg.Get("visitor-first")
	assert.NotSame(t, first, again)
	assert.Equal(t, 2, again.Cart.TotalItems())
}
