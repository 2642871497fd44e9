package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/irsalhamdi/shop-state/core/claims"
	"github.com/sirupsen/logrus"
)

// Registry hands out one Store per session owner. A Store nobody asked for
// during Idle is forgotten; nothing is persisted.
type Registry struct {
	Idle     time.Duration
	mu       sync.Mutex
	log      logrus.FieldLogger
	stores   map[string]*ownedStore
	done     chan struct{}
	stopOnce sync.Once
}

type ownedStore struct {
	store      *Store
	lastAccess time.Time
}

// NewRegistry returns a Registry evicting stores idle for longer than idle.
// Callers must Stop it.
func NewRegistry(log logrus.FieldLogger, idle time.Duration) *Registry {
	r := &Registry{
		Idle:   idle,
		log:    log,
		stores: make(map[string]*ownedStore),
		done:   make(chan struct{}),
	}

	every := time.Minute
	if idle < every {
		every = idle
	}
	go r.refresh(every)
	return r
}

// Get returns the Store of owner, creating an empty one on first use.
func (r *Registry) Get(owner string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.stores[owner]
	if !ok {
		e = &ownedStore{store: New(r.log.WithField("owner", owner))}
		r.stores[owner] = e
	}
	e.lastAccess = time.Now()
	return e.store
}

// FromContext returns the Store of the shopper whose claims ctx carries.
func (r *Registry) FromContext(ctx context.Context) (*Store, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("locating shopper state: %w", err)
	}
	return r.Get(clm.Owner), nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Stop ends the eviction loop.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *Registry) refresh(every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-t.C:
		}

		if n := r.evict(r.Idle); n > 0 {
			r.log.WithField("stores", n).Debug("evicted idle stores")
		}
	}
}

func (r *Registry) evict(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for owner, e := range r.stores {
		if time.Since(e.lastAccess) > idle {
			delete(r.stores, owner)
			n++
		}
	}
	return n
}
