package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojasshelke/product-detail-mini-cart/internal/storage"
)

func TestRegistryHydratesOncePerSession(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "cart:s1", []byte(`[{"productId":"p1","variantId":"v1","title":"X","price":5,"qty":2,"image":""}]`)))

	r := NewRegistry(store, nil)
	defer r.Close()

	l1 := r.Ledger(ctx, "s1")
	assert.Len(t, l1.Items(), 1)

	l2 := r.Ledger(ctx, "s1")
	assert.Same(t, l1, l2)
}

func TestRegistryBadgeCountPrimedByLoad(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "cart:s1", []byte(`[{"productId":"p1","variantId":"v1","price":5,"qty":3}]`)))

	r := NewRegistry(store, nil)
	defer r.Close()

	assert.Equal(t, 0, r.Count("s1"), "unseen session reads zero")

	r.Ledger(ctx, "s1")
	assert.Equal(t, 3, r.Count("s1"), "load notification primes the cache")
}

func TestRegistryBadgeCountTracksMutations(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), nil)
	defer r.Close()
	ctx := context.Background()

	l := r.Ledger(ctx, "s1")
	l.SetDebounce(time.Millisecond)

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", Quantity: 4}))

	assert.Eventually(t, func() bool { return r.Count("s1") == 4 },
		500*time.Millisecond, 2*time.Millisecond)
}

func TestAllowAddSuppressesRapidDuplicates(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), nil)
	defer r.Close()

	base := time.Now()
	r.now = func() time.Time { return base }

	assert.True(t, r.AllowAdd("s1", "p1", "v1"))
	assert.False(t, r.AllowAdd("s1", "p1", "v1"), "duplicate inside the window is dropped")

	// different pair and different session are unaffected
	assert.True(t, r.AllowAdd("s1", "p2", "v1"))
	assert.True(t, r.AllowAdd("s2", "p1", "v1"))

	// the window has passed, the next add goes through
	r.now = func() time.Time { return base.Add(addSuppressWindow + time.Millisecond) }
	assert.True(t, r.AllowAdd("s1", "p1", "v1"))
}
