package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stevenscomputer/site/internal/model"
	"golang.org/x/sync/semaphore"
)

// GatewayOptions bound how the Gateway admits statements.
type GatewayOptions struct {
	// PoolSize is the store's connection limit.
	PoolSize int
	// QueueLimit is how many callers may wait beyond PoolSize. 0 means unbounded.
	QueueLimit int
	// StatementTimeout caps each statement. 0 means no timeout.
	StatementTimeout time.Duration
}

// Gateway is the process-wide entry point to the contact store. It is
// constructed at startup, reports ErrNotReady until a store is attached,
// rejects callers with ErrBusy once PoolSize+QueueLimit are in flight, and
// wraps every statement failure as a *StorageError. It never retries.
type Gateway struct {
	mu    sync.RWMutex
	store ContactStore

	admit    *semaphore.Weighted
	timeout  time.Duration
	inFlight atomic.Int64
}

// NewGateway creates a Gateway with no store attached.
func NewGateway(opts GatewayOptions) *Gateway {
	g := &Gateway{timeout: opts.StatementTimeout}
	if opts.QueueLimit > 0 {
		g.admit = semaphore.NewWeighted(int64(opts.PoolSize + opts.QueueLimit))
	}
	return g
}

// Attach makes store available to callers. Any previously attached store is closed.
func (g *Gateway) Attach(store ContactStore) {
	g.mu.Lock()
	prev := g.store
	g.store = store
	g.mu.Unlock()
	if prev != nil && prev != store {
		prev.Close()
	}
}

// Ready reports whether a store is attached.
func (g *Gateway) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.store != nil
}

// InFlight returns the number of admitted statements, queued or running.
func (g *Gateway) InFlight() int64 {
	return g.inFlight.Load()
}

// Insert stores msg and returns its generated id.
func (g *Gateway) Insert(ctx context.Context, msg *model.ContactMessage) (int64, error) {
	var id int64
	err := g.do(ctx, "insert contact", func(ctx context.Context, s ContactStore) error {
		var err error
		id, err = s.Insert(ctx, msg)
		return err
	})
	return id, err
}

// ListRecent returns at most limit contacts, newest first.
func (g *Gateway) ListRecent(ctx context.Context, limit int) ([]*model.ContactMessage, error) {
	var out []*model.ContactMessage
	err := g.do(ctx, "list contacts", func(ctx context.Context, s ContactStore) error {
		var err error
		out, err = s.ListRecent(ctx, limit)
		return err
	})
	return out, err
}

// Ping runs the store's liveness query.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.do(ctx, "ping", func(ctx context.Context, s ContactStore) error {
		return s.Ping(ctx)
	})
}

// Close detaches and closes the store. The Gateway reports ErrNotReady afterwards.
func (g *Gateway) Close() {
	g.mu.Lock()
	s := g.store
	g.store = nil
	g.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

func (g *Gateway) do(ctx context.Context, op string, fn func(context.Context, ContactStore) error) error {
	g.mu.RLock()
	s := g.store
	g.mu.RUnlock()
	if s == nil {
		return ErrNotReady
	}

	if g.admit != nil {
		if !g.admit.TryAcquire(1) {
			return ErrBusy
		}
		defer g.admit.Release(1)
	}
	g.inFlight.Add(1)
	defer g.inFlight.Add(-1)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return wrapStorage(op, fn(ctx, s))
}
