package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/aitoolmap-server/internal/authstate"
	"github.com/dtroode/aitoolmap-server/internal/logger"
)

// Provider is the identity source of the pages.
type Provider interface {
	authstate.Provider
	// Revalidate pushes a sign-out to pageID when its binding has expired.
	Revalidate(ctx context.Context, pageID string)
}

// Registry owns the workspaces of all open pages.
type Registry struct {
	ctx      context.Context
	provider Provider
	library  Library
	ttl      time.Duration
	limit    int
	logger   *logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	pages  map[string]*Workspace
	closed bool
}

// NewRegistry creates a Registry. Workspaces idle for longer than ttl are
// closed by Reap. At most limit workspaces stay open; opening one more closes
// the least recently seen. A limit of zero means no bound.
func NewRegistry(ctx context.Context, provider Provider, library Library, ttl time.Duration, limit int, logger *logger.Logger) *Registry {
	return &Registry{
		ctx:      ctx,
		provider: provider,
		library:  library,
		ttl:      ttl,
		limit:    limit,
		logger:   logger,
		now:      time.Now,
		pages:    make(map[string]*Workspace),
	}
}

// Get returns the workspace of pageID, opening it on first use.
func (r *Registry) Get(pageID string) (*Workspace, bool) {
	now := r.now()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, false
	}
	if w, ok := r.pages[pageID]; ok {
		r.mu.Unlock()
		w.touch(now)
		r.provider.Revalidate(r.ctx, pageID)
		return w, true
	}
	r.mu.Unlock()

	w := open(r.ctx, pageID, r.provider, r.library, r.logger.With("page_id", pageID), now)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		w.Close()
		return nil, false
	}
	if existing, ok := r.pages[pageID]; ok {
		r.mu.Unlock()
		w.Close()
		existing.touch(now)
		return existing, true
	}
	evicted := r.evictLocked()
	r.pages[pageID] = w
	r.mu.Unlock()

	if evicted != nil {
		evicted.Close()
		r.logger.Info("Workspace registry: page limit reached, evicted page", "page_id", evicted.ID())
	}
	r.logger.Debug("Workspace registry: page opened", "page_id", pageID)
	return w, true
}

// evictLocked removes the least recently seen workspace when the registry is
// full and returns it for closing.
func (r *Registry) evictLocked() *Workspace {
	if r.limit <= 0 || len(r.pages) < r.limit {
		return nil
	}

	var (
		oldestID string
		oldest   *Workspace
		seen     time.Time
	)
	for id, w := range r.pages {
		last := w.seenAt()
		if oldest == nil || last.Before(seen) {
			oldestID, oldest, seen = id, w, last
		}
	}
	delete(r.pages, oldestID)
	return oldest
}

// Len returns the number of open workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Reap closes workspaces idle for longer than the ttl and returns how many
// were closed.
func (r *Registry) Reap() int {
	now := r.now()

	r.mu.Lock()
	var idle []*Workspace
	for id, w := range r.pages {
		if w.idleSince(now) > r.ttl {
			idle = append(idle, w)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, w := range idle {
		w.Close()
	}
	if len(idle) > 0 {
		r.logger.Info("Workspace registry: idle pages closed", "count", len(idle))
	}
	return len(idle)
}

// Run reaps idle workspaces every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reap()
		}
	}
}

// Close closes every workspace. Get fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	pages := r.pages
	r.pages = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, w := range pages {
		w.Close()
	}
	r.logger.Info("Workspace registry: closed", "pages", len(pages))
}
