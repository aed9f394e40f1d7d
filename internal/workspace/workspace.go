// Package workspace keeps the server-side state of every open page: its
// session, its category list, the sync routine and a pending alert.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/aitoolmap-server/internal/authstate"
	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/mindmap"
	"github.com/dtroode/aitoolmap-server/internal/model"
	"github.com/dtroode/aitoolmap-server/internal/service"
)

// Library is the collection backend of a workspace.
type Library interface {
	service.CollectionLoader
	Defaults() []model.Category
	AddTool(ctx context.Context, userID uuid.UUID, category string, in model.ToolInput) (model.Tool, error)
	DeleteTool(ctx context.Context, userID uuid.UUID, remoteID string) error
	DeleteCategory(ctx context.Context, userID uuid.UUID, category model.Category) error
}

// Workspace is the state of one page.
type Workspace struct {
	id       string
	state    *authstate.State
	store    *mindmap.Store
	sync     *service.Synchronizer
	listener *authstate.Listener
	library  Library
	logger   *logger.Logger

	mu       sync.Mutex
	alert    string
	held     bool
	lastSeen time.Time
}

func open(ctx context.Context, id string, provider authstate.Provider, library Library, log *logger.Logger, now time.Time) *Workspace {
	w := &Workspace{
		id:       id,
		state:    authstate.NewState(),
		store:    mindmap.NewStore(nil),
		library:  library,
		logger:   log,
		lastSeen: now,
	}
	w.sync = service.NewSynchronizer(ctx, library, library.Defaults, w.store, log)
	w.listener = authstate.Listen(ctx, provider, id, w.state, w.sync.Trigger)
	return w
}

// ID returns the page identifier.
func (w *Workspace) ID() string {
	return w.id
}

// Session returns the page session.
func (w *Workspace) Session() model.Session {
	return w.state.Session()
}

// Categories returns a snapshot of the category list.
func (w *Workspace) Categories() []model.Category {
	return w.store.Snapshot()
}

// Category returns the named category as currently stored.
func (w *Workspace) Category(name string) (model.Category, bool) {
	return w.store.Find(name)
}

// Loading reports whether a sync pass is in flight.
func (w *Workspace) Loading() bool {
	return w.sync.Loading()
}

// Wait blocks until the sync pass in flight completes or ctx is done.
func (w *Workspace) Wait(ctx context.Context) error {
	return w.sync.Wait(ctx)
}

// SetAlert stores a message shown on the next render of the page.
func (w *Workspace) SetAlert(msg string) {
	w.mu.Lock()
	w.alert = msg
	w.mu.Unlock()
}

// TakeAlert returns and clears the pending alert.
func (w *Workspace) TakeAlert() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := w.alert
	w.alert = ""
	return msg
}

// Hold keeps the current list on the next Resync. Pages landing on the map
// from one of its own actions or modals call it so local state survives.
func (w *Workspace) Hold() {
	w.mu.Lock()
	w.held = true
	w.mu.Unlock()
}

// Resync reloads the list as a fresh page load does, unless a Hold is
// pending, in which case the hold is cleared and false is returned.
func (w *Workspace) Resync() bool {
	w.mu.Lock()
	held := w.held
	w.held = false
	w.mu.Unlock()
	if held {
		return false
	}
	w.sync.Refresh(w.state.Session())
	return true
}

// CanAddCategory checks whether the add-category modal may open.
func (w *Workspace) CanAddCategory() error {
	return mindmap.CanAddCategory(w.store.Snapshot(), w.state.Session().SignedIn())
}

// AddCategory appends an empty category. Nothing is written remotely until
// the category receives its first tool.
func (w *Workspace) AddCategory(name string) error {
	if !w.state.Session().SignedIn() {
		return model.ErrSignInRequired
	}
	return w.store.AddCategory(name)
}

// AddTool stores a tool remotely and appends it to the category.
func (w *Workspace) AddTool(ctx context.Context, category string, in model.ToolInput) (model.Tool, error) {
	identity, err := w.identity()
	if err != nil {
		return model.Tool{}, err
	}
	if _, ok := w.store.Find(category); !ok {
		return model.Tool{}, model.ErrCategoryNotFound
	}

	tool, err := w.library.AddTool(ctx, identity.UserID, category, in)
	if err != nil {
		return model.Tool{}, err
	}
	if err := w.store.AppendTool(category, tool); err != nil {
		return model.Tool{}, fmt.Errorf("failed to append tool: %w", err)
	}
	return tool, nil
}

// DeleteTool removes a tool remotely and then from the category.
func (w *Workspace) DeleteTool(ctx context.Context, category, remoteID string) error {
	identity, err := w.identity()
	if err != nil {
		return err
	}
	if _, ok := w.store.Find(category); !ok {
		return model.ErrCategoryNotFound
	}

	if err := w.library.DeleteTool(ctx, identity.UserID, remoteID); err != nil {
		return err
	}
	if err := w.store.RemoveTool(category, remoteID); err != nil {
		return fmt.Errorf("failed to remove tool: %w", err)
	}
	return nil
}

// DeleteCategory removes every stored tool of the category in one batch and
// then drops the category.
func (w *Workspace) DeleteCategory(ctx context.Context, name string) error {
	identity, err := w.identity()
	if err != nil {
		return err
	}
	category, ok := w.store.Find(name)
	if !ok {
		return model.ErrCategoryNotFound
	}

	if err := w.library.DeleteCategory(ctx, identity.UserID, category); err != nil {
		return err
	}
	if err := w.store.RemoveCategory(name); err != nil {
		return fmt.Errorf("failed to remove category: %w", err)
	}
	return nil
}

func (w *Workspace) identity() (model.Identity, error) {
	session := w.state.Session()
	if !session.SignedIn() {
		return model.Identity{}, model.ErrSignInRequired
	}
	return *session.Identity, nil
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) seenAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) idleSince(now time.Time) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return now.Sub(w.lastSeen)
}

// Close releases the identity subscription and stops syncing.
func (w *Workspace) Close() {
	w.listener.Close()
	w.sync.Close()
}
