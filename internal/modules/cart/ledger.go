package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ojasshelke/product-detail-mini-cart/internal/shared/apperr"
	"github.com/ojasshelke/product-detail-mini-cart/internal/storage"
)

// DefaultDebounce matches the widget's 50ms render coalescing window.
const DefaultDebounce = 50 * time.Millisecond

// Sink receives a snapshot of the ledger after a change. Mutations fire it
// debounced; Load fires it immediately so the first paint is not delayed.
type Sink func(items []LineItem)

// Ledger owns an ordered sequence of line items, unique by
// (productId, variantId). It hydrates from and persists to a single key in a
// durable store; the in-memory sequence stays authoritative when the store
// misbehaves. All methods are safe for concurrent use.
type Ledger struct {
	store  storage.Store
	key    string
	logger *slog.Logger

	mu       sync.Mutex
	items    []LineItem
	sink     Sink
	debounce time.Duration
	timer    *time.Timer
}

func NewLedger(store storage.Store, key string, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		store:    store,
		key:      key,
		logger:   logger,
		items:    []LineItem{},
		debounce: DefaultDebounce,
	}
}

// Notify registers the change sink. Pass nil to detach.
func (l *Ledger) Notify(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

// SetDebounce overrides the notification window. Mostly for tests.
func (l *Ledger) SetDebounce(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debounce = d
}

// AddItem merges the entry into the ledger. An existing (productId, variantId)
// line only gains quantity; its title, price and image stay as first added.
// A new pair is appended at the end of the sequence.
func (l *Ledger) AddItem(ctx context.Context, e Entry) error {
	if e.ProductID == "" || e.VariantID == "" {
		return apperr.InvalidErr("Item must have productId and variantId.", nil)
	}

	item := e.toItem()

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing := l.find(item.key()); existing != nil {
		existing.Quantity += item.Quantity
	} else {
		l.items = append(l.items, item)
	}

	l.saveLocked(ctx)
	return nil
}

// UpdateQuantity sets the quantity of an existing line to max(1, qty).
// Unknown pairs are a no-op; removal is the only way to drop a line.
func (l *Ledger) UpdateQuantity(ctx context.Context, productID, variantID string, qty int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item := l.find(itemKey{productID: productID, variantID: variantID})
	if item == nil {
		return
	}
	if qty < 1 {
		qty = 1
	}
	item.Quantity = qty
	l.saveLocked(ctx)
}

// RemoveItem drops the matching line, preserving the order of the rest.
// No-op when absent.
func (l *Ledger) RemoveItem(ctx context.Context, productID, variantID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := itemKey{productID: productID, variantID: variantID}
	kept := l.items[:0]
	for _, it := range l.items {
		if it.key() != key {
			kept = append(kept, it)
		}
	}
	l.items = kept
	l.saveLocked(ctx)
}

// Clear empties the ledger.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = []LineItem{}
	l.saveLocked(ctx)
}

// Items returns a copy of the ordered sequence.
func (l *Ledger) Items() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Total is the sum of unitPrice*quantity over all lines.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for _, it := range l.items {
		line := decimal.NewFromFloat(it.UnitPrice).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total
}

// ItemCount is the sum of quantities, the number shown on the cart badge.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, it := range l.items {
		n += it.Quantity
	}
	return n
}

// Load hydrates the ledger from the store. A missing key means an empty cart.
// A corrupt record is logged, discarded and overwritten so the next Load does
// not fail again. The sink fires immediately, not debounced.
func (l *Ledger) Load(ctx context.Context) {
	l.mu.Lock()

	data, ok, err := l.store.Get(ctx, l.key)
	switch {
	case err != nil:
		l.logger.Error("cart load failed", "key", l.key, "err", err)
		l.items = []LineItem{}
	case !ok:
		l.items = []LineItem{}
	default:
		var items []LineItem
		if uerr := json.Unmarshal(data, &items); uerr != nil {
			l.logger.Warn("cart record corrupt, resetting", "key", l.key, "err", uerr)
			l.items = []LineItem{}
			l.persistLocked(ctx)
		} else {
			if items == nil {
				items = []LineItem{}
			}
			l.items = items
		}
	}

	sink := l.sink
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	if sink != nil {
		sink(snapshot)
	}
}

// Save persists the current sequence and schedules the debounced notification.
// Store failures are logged, never returned; memory stays the source of truth.
func (l *Ledger) Save(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saveLocked(ctx)
}

// Close cancels any pending notification timer.
func (l *Ledger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *Ledger) find(key itemKey) *LineItem {
	for i := range l.items {
		if l.items[i].key() == key {
			return &l.items[i]
		}
	}
	return nil
}

func (l *Ledger) snapshotLocked() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) saveLocked(ctx context.Context) {
	l.persistLocked(ctx)
	l.scheduleNotifyLocked()
}

func (l *Ledger) persistLocked(ctx context.Context) {
	data, err := json.Marshal(l.items)
	if err != nil {
		l.logger.Error("cart marshal failed", "key", l.key, "err", err)
		return
	}
	if err := l.store.Set(ctx, l.key, data); err != nil {
		l.logger.Error("cart save failed", "key", l.key, "err", err)
	}
}

// scheduleNotifyLocked resets the debounce timer; only the last mutation in a
// burst fires the sink, with the snapshot taken at fire time.
func (l *Ledger) scheduleNotifyLocked() {
	if l.sink == nil {
		return
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.debounce, func() {
		l.mu.Lock()
		sink := l.sink
		snapshot := l.snapshotLocked()
		l.mu.Unlock()
		if sink != nil {
			sink(snapshot)
		}
	})
}
