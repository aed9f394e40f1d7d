package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/aitoolmap-server/internal/model"
	"github.com/dtroode/aitoolmap-server/internal/testutil"
)

// gatedLoader blocks every Load until the test releases it for that user.
type gatedLoader struct {
	mu    sync.Mutex
	gates map[uuid.UUID]chan loadResult
	calls int
}

type loadResult struct {
	categories []model.Category
	err        error
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{gates: make(map[uuid.UUID]chan loadResult)}
}

func (l *gatedLoader) gate(userID uuid.UUID) chan loadResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.gates[userID]
	if !ok {
		ch = make(chan loadResult, 1)
		l.gates[userID] = ch
	}
	return ch
}

func (l *gatedLoader) Load(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()

	select {
	case res := <-l.gate(userID):
		return res.categories, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *gatedLoader) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func (l *gatedLoader) release(userID uuid.UUID, categories []model.Category, err error) {
	l.gate(userID) <- loadResult{categories: categories, err: err}
}

// listTarget records Replace calls.
type listTarget struct {
	mu       sync.Mutex
	current  []model.Category
	replaced int
}

func (t *listTarget) Replace(categories []model.Category) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = categories
	t.replaced++
}

func (t *listTarget) snapshot() ([]model.Category, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.replaced
}

var defaultList = []model.Category{{Name: "Default", Tools: []model.Tool{{ID: "d"}}}}

func newTestSync(loader CollectionLoader) (*Synchronizer, *listTarget) {
	target := &listTarget{}
	s := NewSynchronizer(context.Background(), loader,
		func() []model.Category { return defaultList },
		target, testutil.MakeNoopLogger())
	return s, target
}

func signedIn(id uuid.UUID) model.Session {
	return model.Session{Ready: true, Identity: &model.Identity{UserID: id, Email: "u@example.com"}}
}

func waitShort(t *testing.T, s *Synchronizer) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestSynchronizer_NotReadyIgnored(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)

	s.Trigger(model.Session{})
	_, replaced := target.snapshot()
	assert.Zero(t, replaced)
	assert.False(t, s.Loading())
}

func TestSynchronizer_Anonymous(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)

	s.Trigger(model.Session{Ready: true})

	current, replaced := target.snapshot()
	assert.Equal(t, 1, replaced)
	assert.Equal(t, defaultList, current)
	assert.False(t, s.Loading())
	assert.Zero(t, loader.calls)
}

func TestSynchronizer_SignedIn(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)
	user := uuid.New()
	mine := []model.Category{{Name: "Mine"}}

	s.Trigger(signedIn(user))
	assert.True(t, s.Loading())

	loader.release(user, mine, nil)
	waitShort(t, s)

	current, _ := target.snapshot()
	assert.Equal(t, mine, current)
	assert.False(t, s.Loading())
}

func TestSynchronizer_FailureKeepsList(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)
	user := uuid.New()

	s.Trigger(signedIn(user))
	loader.release(user, nil, errors.New("boom"))
	waitShort(t, s)

	_, replaced := target.snapshot()
	assert.Zero(t, replaced)
	assert.False(t, s.Loading())
}

func TestSynchronizer_StalePassIsDropped(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)
	first, second := uuid.New(), uuid.New()

	s.Trigger(signedIn(first))
	s.Trigger(signedIn(second))
	assert.True(t, s.Loading())

	loader.release(second, []model.Category{{Name: "Second"}}, nil)
	waitShort(t, s)

	current, replaced := target.snapshot()
	assert.Equal(t, 1, replaced)
	assert.Equal(t, "Second", current[0].Name)

	// The first pass was cancelled; releasing it afterwards changes nothing.
	loader.release(first, []model.Category{{Name: "First"}}, nil)
	current, replaced = target.snapshot()
	assert.Equal(t, 1, replaced)
	assert.Equal(t, "Second", current[0].Name)
}

func TestSynchronizer_SignOutDuringPass(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)
	user := uuid.New()

	s.Trigger(signedIn(user))
	s.Trigger(model.Session{Ready: true})
	assert.False(t, s.Loading())

	loader.release(user, []model.Category{{Name: "Mine"}}, nil)
	time.Sleep(20 * time.Millisecond)

	current, replaced := target.snapshot()
	assert.Equal(t, 1, replaced)
	assert.Equal(t, defaultList, current)
	assert.False(t, s.Loading())
}

func TestSynchronizer_Refresh(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)
	user := uuid.New()

	s.Trigger(signedIn(user))
	s.Refresh(signedIn(user))
	require.Eventually(t, func() bool { return loader.callCount() == 1 }, time.Second, 5*time.Millisecond)

	loader.release(user, []model.Category{{Name: "Before"}}, nil)
	waitShort(t, s)
	assert.Equal(t, 1, loader.callCount(), "a pass in flight for the same user is reused")

	s.Refresh(signedIn(user))
	assert.True(t, s.Loading())
	loader.release(user, []model.Category{{Name: "After"}}, nil)
	waitShort(t, s)

	current, replaced := target.snapshot()
	assert.Equal(t, 2, replaced)
	assert.Equal(t, "After", current[0].Name)
	assert.Equal(t, 2, loader.callCount())
}

func TestSynchronizer_RefreshOtherUserRestarts(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)
	first, second := uuid.New(), uuid.New()

	s.Trigger(signedIn(first))
	s.Refresh(signedIn(second))
	loader.release(second, []model.Category{{Name: "Second"}}, nil)
	waitShort(t, s)

	current, _ := target.snapshot()
	assert.Equal(t, "Second", current[0].Name)
}

func TestSynchronizer_WaitHonoursContext(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, _ := newTestSync(loader)

	s.Trigger(signedIn(uuid.New()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, s.Wait(ctx), context.DeadlineExceeded)
	assert.True(t, s.Loading())
	s.Close()
}

func TestSynchronizer_Close(t *testing.T) {
	t.Parallel()
	loader := newGatedLoader()
	s, target := newTestSync(loader)

	s.Trigger(signedIn(uuid.New()))
	s.Close()
	s.Close()
	assert.False(t, s.Loading())
	waitShort(t, s)

	s.Trigger(model.Session{Ready: true})
	_, replaced := target.snapshot()
	assert.Zero(t, replaced)
}
