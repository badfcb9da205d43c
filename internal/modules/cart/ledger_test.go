package cart

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ojasshelke/product-detail-mini-cart/internal/storage"
)

func newTestLedger(t *testing.T) (*Ledger, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	l := NewLedger(store, "cart:test", nil)
	t.Cleanup(l.Close)
	return l, store
}

func TestAddItemDistinctPairsPreserveOrder(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", UnitPrice: 10}))
	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p2", VariantID: "v1", UnitPrice: 20}))
	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v2", UnitPrice: 30}))

	items := l.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "v1", items[0].VariantID)
	assert.Equal(t, "p2", items[1].ProductID)
	assert.Equal(t, "v2", items[2].VariantID)
}

func TestAddItemMergesQuantityKeepsFirstFields(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, Entry{
		ProductID: "p1", VariantID: "v1",
		Title: "First", UnitPrice: 100, Quantity: 2, Image: "first.jpg",
	}))
	require.NoError(t, l.AddItem(ctx, Entry{
		ProductID: "p1", VariantID: "v1",
		Title: "Second", UnitPrice: 999, Quantity: 3, Image: "second.jpg",
	}))

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, float64(100), items[0].UnitPrice)
	assert.Equal(t, "first.jpg", items[0].Image)
}

func TestAddItemDefaults(t *testing.T) {
	l, _ := newTestLedger(t)

	require.NoError(t, l.AddItem(context.Background(), Entry{ProductID: "p1", VariantID: "v1"}))

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Product", items[0].Title)
	assert.Equal(t, float64(0), items[0].UnitPrice)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "", items[0].Image)
}

func TestAddItemMissingKeyRejected(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	assert.Error(t, l.AddItem(ctx, Entry{VariantID: "v1"}))
	assert.Error(t, l.AddItem(ctx, Entry{ProductID: "p1"}))
	assert.Empty(t, l.Items())
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", Quantity: 3}))

	l.UpdateQuantity(ctx, "p1", "v1", 7)
	assert.Equal(t, 7, l.Items()[0].Quantity)

	l.UpdateQuantity(ctx, "p1", "v1", 0)
	assert.Equal(t, 1, l.Items()[0].Quantity)

	l.UpdateQuantity(ctx, "p1", "v1", -5)
	assert.Equal(t, 1, l.Items()[0].Quantity)
}

func TestUpdateQuantityUnknownPairIsNoop(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1"}))
	l.UpdateQuantity(ctx, "p9", "v9", 4)

	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
}

func TestRemoveItemPreservesOrder(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1"}))
	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p2", VariantID: "v1"}))
	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p3", VariantID: "v1"}))

	l.RemoveItem(ctx, "p2", "v1")

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "p3", items[1].ProductID)

	// absent pair: length unchanged
	l.RemoveItem(ctx, "p2", "v1")
	assert.Len(t, l.Items(), 2)
}

func TestTotalMatchesRecomputation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	recompute := func() decimal.Decimal {
		sum := decimal.Zero
		for _, it := range l.Items() {
			sum = sum.Add(decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		return sum
	}

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", UnitPrice: 19.99, Quantity: 3}))
	assert.True(t, l.Total().Equal(recompute()))

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p2", VariantID: "v2", UnitPrice: 0.1, Quantity: 7}))
	assert.True(t, l.Total().Equal(recompute()))

	l.UpdateQuantity(ctx, "p1", "v1", 1)
	assert.True(t, l.Total().Equal(recompute()))

	l.RemoveItem(ctx, "p2", "v2")
	assert.True(t, l.Total().Equal(recompute()))
}

// The concrete walkthrough: add p1-v1 @100, p2-v1 @150, p1-v1 again.
func TestScenarioMergeUpdateRemove(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", UnitPrice: 100, Quantity: 1}))
	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p2", VariantID: "v1", UnitPrice: 150, Quantity: 1}))
	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", Quantity: 1}))

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "350", l.Total().String())

	l.UpdateQuantity(ctx, "p1", "v1", 5)
	assert.Equal(t, "650", l.Total().String())

	l.RemoveItem(ctx, "p2", "v1")
	require.Len(t, l.Items(), 1)
	assert.Equal(t, 5, l.Items()[0].Quantity)
	assert.Equal(t, "500", l.Total().String())
}

func TestEmptyLedger(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Load(context.Background())

	assert.Empty(t, l.Items())
	assert.True(t, l.Total().IsZero())
	assert.Equal(t, 0, l.ItemCount())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	first := NewLedger(store, "cart:rt", nil)
	defer first.Close()
	require.NoError(t, first.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", Title: "One", UnitPrice: 12.5, Quantity: 2}))
	require.NoError(t, first.AddItem(ctx, Entry{ProductID: "p2", VariantID: "v3", Title: "Two", UnitPrice: 3, Quantity: 1, Image: "x.jpg"}))

	second := NewLedger(store, "cart:rt", nil)
	defer second.Close()
	second.Load(ctx)

	assert.Equal(t, first.Items(), second.Items())
	assert.True(t, first.Total().Equal(second.Total()))
}

func TestSaveWritesWireFormat(t *testing.T) {
	l, store := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", Title: "Aurora", UnitPrice: 149.99, Quantity: 2, Image: "a.jpg"}))
	l.Save(ctx)

	data, ok, err := store.Get(ctx, "cart:test")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t,
		`[{"productId":"p1","variantId":"v1","title":"Aurora","price":149.99,"qty":2,"image":"a.jpg"}]`,
		string(data))
}

func TestLoadCorruptRecordResetsAndOverwrites(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "cart:bad", []byte("{definitely not json")))

	l := NewLedger(store, "cart:bad", nil)
	defer l.Close()
	l.Load(ctx)

	assert.Empty(t, l.Items())

	// the corrupt value is gone, so the next hydration succeeds cleanly
	data, ok, err := store.Get(ctx, "cart:bad")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "[]", string(data))
}

func TestLoadMissingKeyMeansEmpty(t *testing.T) {
	l, _ := newTestLedger(t)
	l.Load(context.Background())
	assert.Empty(t, l.Items())
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}
func (failingStore) Set(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (failingStore) Delete(context.Context, string) error      { return errors.New("disk on fire") }

func TestStoreFailuresNeverPropagate(t *testing.T) {
	l := NewLedger(failingStore{}, "cart:doomed", nil)
	defer l.Close()
	ctx := context.Background()

	l.Load(ctx)
	assert.Empty(t, l.Items())

	// writes fail underneath, memory stays authoritative
	require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1", UnitPrice: 5}))
	assert.Len(t, l.Items(), 1)

	l.UpdateQuantity(ctx, "p1", "v1", 3)
	assert.Equal(t, 3, l.Items()[0].Quantity)
}

func TestMutationsDebounceIntoOneNotification(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	var fired atomic.Int32
	l.SetDebounce(20 * time.Millisecond)
	l.Notify(func([]LineItem) { fired.Add(1) })

	for i := 0; i < 5; i++ {
		require.NoError(t, l.AddItem(ctx, Entry{ProductID: "p1", VariantID: "v1"}))
	}

	assert.Equal(t, int32(0), fired.Load(), "sink must not fire inside the burst")

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		500*time.Millisecond, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load(), "burst must coalesce into one notification")
}

func TestLoadNotifiesImmediately(t *testing.T) {
	l, _ := newTestLedger(t)

	var fired atomic.Int32
	l.Notify(func([]LineItem) { fired.Add(1) })

	l.Load(context.Background())
	assert.Equal(t, int32(1), fired.Load(), "hydration must not wait for the debounce window")
}

func TestItemsReturnsCopy(t *testing.T) {
	l, _ := newTestLedger(t)
	require.NoError(t, l.AddItem(context.Background(), Entry{ProductID: "p1", VariantID: "v1", Quantity: 2}))

	items := l.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, l.Items()[0].Quantity)
}
