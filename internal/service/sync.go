package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

// CollectionLoader loads the grouped collection of a user.
type CollectionLoader interface {
	Load(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
}

// CategoryReplacer receives the result of a sync pass.
type CategoryReplacer interface {
	Replace(categories []model.Category)
}

// Synchronizer refreshes the category list of one page whenever its session
// becomes ready or changes identity.
//
// Every trigger starts a new generation. A pass that finishes after a newer
// generation started leaves both the list and the loading flag alone.
type Synchronizer struct {
	base     context.Context
	loader   CollectionLoader
	defaults func() []model.Category
	target   CategoryReplacer
	logger   *logger.Logger

	mu         sync.Mutex
	generation uint64
	loading    bool
	user       uuid.UUID
	done       chan struct{}
	cancel     context.CancelFunc
	closed     bool
}

// NewSynchronizer creates a Synchronizer. Passes run under ctx; defaults
// supplies the list shown to anonymous visitors.
func NewSynchronizer(
	ctx context.Context,
	loader CollectionLoader,
	defaults func() []model.Category,
	target CategoryReplacer,
	logger *logger.Logger,
) *Synchronizer {
	return &Synchronizer{
		base:     ctx,
		loader:   loader,
		defaults: defaults,
		target:   target,
		logger:   logger,
	}
}

// Trigger starts a pass for session. Sessions that are not ready are ignored.
func (s *Synchronizer) Trigger(session model.Session) {
	if !session.Ready {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if session.Identity == nil {
		s.target.Replace(s.defaults())
		s.finishLocked()
		return
	}

	if !s.loading {
		s.loading = true
		s.done = make(chan struct{})
	}

	ctx, cancel := context.WithCancel(s.base)
	s.cancel = cancel
	s.user = session.Identity.UserID
	go s.pass(ctx, s.generation, session.Identity.UserID)
}

// Refresh starts a pass for session unless one for the same user is already
// in flight.
func (s *Synchronizer) Refresh(session model.Session) {
	if !session.Ready {
		return
	}

	s.mu.Lock()
	inFlight := s.loading && session.Identity != nil && s.user == session.Identity.UserID
	s.mu.Unlock()
	if inFlight {
		return
	}
	s.Trigger(session)
}

func (s *Synchronizer) pass(ctx context.Context, generation uint64, userID uuid.UUID) {
	categories, err := s.loader.Load(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || s.closed {
		s.logger.Debug("Sync service: dropping stale pass",
			"user_id", userID,
			"generation", generation)
		return
	}

	if err != nil {
		s.logger.Error("Sync service: failed to load collection",
			"user_id", userID,
			"error", err.Error())
	} else {
		s.target.Replace(categories)
		s.logger.Debug("Sync service: collection loaded",
			"user_id", userID,
			"categories", len(categories))
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.finishLocked()
}

func (s *Synchronizer) finishLocked() {
	if s.loading {
		s.loading = false
		close(s.done)
	}
}

// Loading reports whether a pass for a signed-in user is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Wait blocks until no pass is in flight or ctx is done.
func (s *Synchronizer) Wait(ctx context.Context) error {
	s.mu.Lock()
	if !s.loading {
		s.mu.Unlock()
		return nil
	}
	done := s.done
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the pass in flight and ignores further triggers.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.finishLocked()
}
