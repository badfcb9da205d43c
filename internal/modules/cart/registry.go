package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ojasshelke/product-detail-mini-cart/internal/storage"
)

const (
	keyPrefix = "cart:"

	// addSuppressWindow is the double-submit guard on add-to-cart. It is a
	// debounce, not a correctness lock: a duplicate click inside the window
	// is dropped, a deliberate second add after it goes through.
	addSuppressWindow = 250 * time.Millisecond
)

// Registry keeps one hydrated ledger per session and a badge-count cache fed
// by each ledger's change sink.
type Registry struct {
	store  storage.Store
	logger *slog.Logger

	mu      sync.Mutex
	ledgers map[string]*Ledger
	counts  map[string]int
	lastAdd map[string]time.Time
	now     func() time.Time
}

func NewRegistry(store storage.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:   store,
		logger:  logger,
		ledgers: make(map[string]*Ledger),
		counts:  make(map[string]int),
		lastAdd: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Ledger returns the session's ledger, hydrating it from the store on first
// access. The immediate Load notification primes the badge cache.
func (r *Registry) Ledger(ctx context.Context, sessionID string) *Ledger {
	r.mu.Lock()
	if l, ok := r.ledgers[sessionID]; ok {
		r.mu.Unlock()
		return l
	}

	l := NewLedger(r.store, keyPrefix+sessionID, r.logger)
	l.Notify(func(items []LineItem) {
		n := 0
		for _, it := range items {
			n += it.Quantity
		}
		r.mu.Lock()
		r.counts[sessionID] = n
		r.mu.Unlock()
	})
	r.ledgers[sessionID] = l
	r.mu.Unlock()

	l.Load(ctx)
	return l
}

// Count returns the cached item count for the badge without forcing a
// hydration; unseen sessions read as zero.
func (r *Registry) Count(sessionID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[sessionID]
}

// AllowAdd reports whether an add for this (session, product, variant) should
// proceed, suppressing a duplicate inside the double-submit window.
func (r *Registry) AllowAdd(sessionID, productID, variantID string) bool {
	k := sessionID + "|" + productID + "|" + variantID

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if t, ok := r.lastAdd[k]; ok && now.Sub(t) < addSuppressWindow {
		return false
	}
	r.lastAdd[k] = now
	return true
}

// Close stops every ledger's pending notification timer.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.ledgers {
		l.Close()
	}
}
