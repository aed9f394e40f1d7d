package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/aitoolmap-server/internal/model"
	"github.com/dtroode/aitoolmap-server/internal/testutil"
)

// fakeProvider holds one identity per page and tracks live subscriptions.
type fakeProvider struct {
	mu          sync.Mutex
	pages       map[string]*model.Identity
	subs        map[string][]func(*model.Identity)
	active      int
	revalidated map[string]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		pages:       make(map[string]*model.Identity),
		subs:        make(map[string][]func(*model.Identity)),
		revalidated: make(map[string]int),
	}
}

func (p *fakeProvider) Revalidate(_ context.Context, pageID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revalidated[pageID]++
}

func (p *fakeProvider) revalidations(pageID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revalidated[pageID]
}

func (p *fakeProvider) Subscribe(_ context.Context, pageID string, fn func(*model.Identity)) func() {
	p.mu.Lock()
	p.subs[pageID] = append(p.subs[pageID], fn)
	p.active++
	current := p.pages[pageID]
	p.mu.Unlock()
	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.active--
			p.subs[pageID] = nil
			p.mu.Unlock()
		})
	}
}

func (p *fakeProvider) set(pageID string, identity *model.Identity) {
	p.mu.Lock()
	p.pages[pageID] = identity
	subs := append([]func(*model.Identity){}, p.subs[pageID]...)
	p.mu.Unlock()
	for _, fn := range subs {
		fn(identity)
	}
}

func (p *fakeProvider) activeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// mockLibrary is a testify mock of Library.
type mockLibrary struct {
	mock.Mock
}

func (m *mockLibrary) Load(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	var out []model.Category
	if v := args.Get(0); v != nil {
		out = v.([]model.Category)
	}
	return out, args.Error(1)
}

func (m *mockLibrary) Defaults() []model.Category {
	return []model.Category{
		{Name: "文章作成", Tools: []model.Tool{{ID: "gpt", Name: "ChatGPT", URL: "https://chat.openai.com/"}}},
	}
}

func (m *mockLibrary) AddTool(ctx context.Context, userID uuid.UUID, category string, in model.ToolInput) (model.Tool, error) {
	args := m.Called(ctx, userID, category, in)
	return args.Get(0).(model.Tool), args.Error(1)
}

func (m *mockLibrary) DeleteTool(ctx context.Context, userID uuid.UUID, remoteID string) error {
	return m.Called(ctx, userID, remoteID).Error(0)
}

func (m *mockLibrary) DeleteCategory(ctx context.Context, userID uuid.UUID, category model.Category) error {
	return m.Called(ctx, userID, category).Error(0)
}

var alice = &model.Identity{UserID: uuid.New(), Email: "alice@example.com"}

func aliceMap() []model.Category {
	return []model.Category{
		{Name: "Writing", Tools: []model.Tool{
			{ID: "gpt", Name: "ChatGPT", RemoteID: "r1"},
			{ID: "claude", Name: "Claude", RemoteID: "r2"},
		}},
		{Name: "Code", Tools: []model.Tool{{ID: "cursor", Name: "Cursor", RemoteID: "r3"}}},
	}
}

func newTestRegistry(t *testing.T, provider *fakeProvider, library *mockLibrary) *Registry {
	t.Helper()
	r := NewRegistry(context.Background(), provider, library, time.Minute, 0, testutil.MakeNoopLogger())
	t.Cleanup(r.Close)
	return r
}

func signedInWorkspace(t *testing.T) (*Workspace, *mockLibrary) {
	t.Helper()
	provider := newFakeProvider()
	provider.pages["p"] = alice
	library := &mockLibrary{}
	library.On("Load", mock.Anything, alice.UserID).Return(aliceMap(), nil)

	w, ok := newTestRegistry(t, provider, library).Get("p")
	require.True(t, ok)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx))
	return w, library
}

func TestWorkspace_AnonymousGetsDefaults(t *testing.T) {
	t.Parallel()
	library := &mockLibrary{}
	w, ok := newTestRegistry(t, newFakeProvider(), library).Get("p")
	require.True(t, ok)

	session := w.Session()
	assert.True(t, session.Ready)
	assert.False(t, session.SignedIn())
	assert.False(t, w.Loading())
	require.Len(t, w.Categories(), 1)
	assert.Equal(t, "文章作成", w.Categories()[0].Name)
	library.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestWorkspace_AnonymousCannotEdit(t *testing.T) {
	t.Parallel()
	w, ok := newTestRegistry(t, newFakeProvider(), &mockLibrary{}).Get("p")
	require.True(t, ok)
	ctx := context.Background()

	assert.ErrorIs(t, w.CanAddCategory(), model.ErrSignInRequired)
	assert.ErrorIs(t, w.AddCategory("New"), model.ErrSignInRequired)
	_, err := w.AddTool(ctx, "文章作成", model.ToolInput{Name: "X", URL: "https://x"})
	assert.ErrorIs(t, err, model.ErrSignInRequired)
	assert.ErrorIs(t, w.DeleteTool(ctx, "文章作成", "r1"), model.ErrSignInRequired)
	assert.ErrorIs(t, w.DeleteCategory(ctx, "文章作成"), model.ErrSignInRequired)
}

func TestWorkspace_SignedInLoadsCollection(t *testing.T) {
	t.Parallel()
	w, _ := signedInWorkspace(t)

	assert.Equal(t, aliceMap(), w.Categories())
	assert.Equal(t, alice.Email, w.Session().Identity.Email)
}

func TestWorkspace_IdentityChangeResyncs(t *testing.T) {
	t.Parallel()
	provider := newFakeProvider()
	library := &mockLibrary{}
	library.On("Load", mock.Anything, alice.UserID).Return(aliceMap(), nil)
	w, ok := newTestRegistry(t, provider, library).Get("p")
	require.True(t, ok)
	require.Len(t, w.Categories(), 1)

	provider.set("p", alice)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx))
	assert.Equal(t, aliceMap(), w.Categories())

	provider.set("p", nil)
	assert.Equal(t, "文章作成", w.Categories()[0].Name)
}

func TestWorkspace_Resync(t *testing.T) {
	t.Parallel()
	w, library := signedInWorkspace(t)
	require.NoError(t, w.AddCategory("Local"))

	w.Hold()
	assert.False(t, w.Resync(), "a held page keeps its list")
	_, ok := w.Category("Local")
	assert.True(t, ok)

	assert.True(t, w.Resync())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Wait(ctx))

	_, ok = w.Category("Local")
	assert.False(t, ok, "local-only categories are dropped on reload")
	assert.Equal(t, aliceMap(), w.Categories())
	library.AssertNumberOfCalls(t, "Load", 2)
}

func TestWorkspace_AddCategory(t *testing.T) {
	t.Parallel()
	w, _ := signedInWorkspace(t)

	require.NoError(t, w.CanAddCategory())
	require.NoError(t, w.AddCategory("  Video "))
	assert.ErrorIs(t, w.AddCategory("video"), model.ErrCategoryExists)
	assert.ErrorIs(t, w.AddCategory("   "), model.ErrEmptyCategoryName)

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, w.AddCategory(name))
	}
	assert.ErrorIs(t, w.CanAddCategory(), model.ErrCategoryLimit)
	assert.ErrorIs(t, w.AddCategory("D"), model.ErrCategoryLimit)
	assert.Len(t, w.Categories(), model.MaxCategories)

	video, ok := w.Category("Video")
	require.True(t, ok)
	assert.Empty(t, video.Tools)
}

func TestWorkspace_AddTool(t *testing.T) {
	t.Parallel()
	w, library := signedInWorkspace(t)
	ctx := context.Background()
	in := model.ToolInput{Name: "Copilot", URL: "https://github.com/features/copilot"}

	library.On("AddTool", mock.Anything, alice.UserID, "Code", in).
		Return(model.Tool{ID: "copilot", Name: "Copilot", URL: in.URL, RemoteID: "r9"}, nil).Once()
	tool, err := w.AddTool(ctx, "Code", in)
	require.NoError(t, err)
	assert.Equal(t, "r9", tool.RemoteID)

	code, ok := w.Category("Code")
	require.True(t, ok)
	require.Len(t, code.Tools, 2)
	assert.Equal(t, "r9", code.Tools[1].RemoteID)

	_, err = w.AddTool(ctx, "Missing", in)
	assert.ErrorIs(t, err, model.ErrCategoryNotFound)

	library.On("AddTool", mock.Anything, alice.UserID, "Code", in).Return(model.Tool{}, errors.New("boom")).Once()
	_, err = w.AddTool(ctx, "Code", in)
	require.Error(t, err)
	code, _ = w.Category("Code")
	assert.Len(t, code.Tools, 2)
}

func TestWorkspace_DeleteTool(t *testing.T) {
	t.Parallel()
	w, library := signedInWorkspace(t)
	ctx := context.Background()

	library.On("DeleteTool", mock.Anything, alice.UserID, "r1").Return(nil).Once()
	require.NoError(t, w.DeleteTool(ctx, "Writing", "r1"))
	writing, ok := w.Category("Writing")
	require.True(t, ok)
	require.Len(t, writing.Tools, 1)
	assert.Equal(t, "r2", writing.Tools[0].RemoteID)

	library.On("DeleteTool", mock.Anything, alice.UserID, "r3").Return(nil).Once()
	require.NoError(t, w.DeleteTool(ctx, "Code", "r3"))
	_, ok = w.Category("Code")
	assert.False(t, ok, "emptied category is dropped")

	library.On("DeleteTool", mock.Anything, alice.UserID, "r2").Return(errors.New("boom")).Once()
	require.Error(t, w.DeleteTool(ctx, "Writing", "r2"))
	writing, _ = w.Category("Writing")
	assert.Len(t, writing.Tools, 1)
}

func TestWorkspace_DeleteCategory(t *testing.T) {
	t.Parallel()
	w, library := signedInWorkspace(t)
	ctx := context.Background()

	writing, _ := w.Category("Writing")
	library.On("DeleteCategory", mock.Anything, alice.UserID, writing).Return(errors.New("boom")).Once()
	require.Error(t, w.DeleteCategory(ctx, "Writing"))
	assert.Len(t, w.Categories(), 2)

	library.On("DeleteCategory", mock.Anything, alice.UserID, writing).Return(nil).Once()
	require.NoError(t, w.DeleteCategory(ctx, "Writing"))
	assert.Len(t, w.Categories(), 1)

	assert.ErrorIs(t, w.DeleteCategory(ctx, "Writing"), model.ErrCategoryNotFound)
}

func TestWorkspace_Alert(t *testing.T) {
	t.Parallel()
	w, ok := newTestRegistry(t, newFakeProvider(), &mockLibrary{}).Get("p")
	require.True(t, ok)

	assert.Empty(t, w.TakeAlert())
	w.SetAlert("hello")
	assert.Equal(t, "hello", w.TakeAlert())
	assert.Empty(t, w.TakeAlert())
}

func TestRegistry_GetReapClose(t *testing.T) {
	t.Parallel()
	provider := newFakeProvider()
	r := NewRegistry(context.Background(), provider, &mockLibrary{}, time.Minute, 0, testutil.MakeNoopLogger())
	now := time.Unix(1700000000, 0)
	r.now = func() time.Time { return now }

	a, ok := r.Get("a")
	require.True(t, ok)
	again, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, a, again)

	_, ok = r.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 2, provider.activeCount())

	now = now.Add(45 * time.Second)
	_, _ = r.Get("b")
	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, r.Reap())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, provider.activeCount())

	r.Close()
	r.Close()
	assert.Zero(t, r.Len())
	assert.Zero(t, provider.activeCount())
	_, ok = r.Get("c")
	assert.False(t, ok)
}

func TestRegistry_Limit(t *testing.T) {
	t.Parallel()
	provider := newFakeProvider()
	r := NewRegistry(context.Background(), provider, &mockLibrary{}, time.Hour, 2, testutil.MakeNoopLogger())
	t.Cleanup(r.Close)
	now := time.Unix(1700000000, 0)
	r.now = func() time.Time { return now }

	a, _ := r.Get("a")
	now = now.Add(time.Second)
	b, _ := r.Get("b")
	now = now.Add(time.Second)
	_, _ = r.Get("a")
	now = now.Add(time.Second)

	_, ok := r.Get("c")
	require.True(t, ok)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 2, provider.activeCount(), "the evicted page dropped its subscription")

	again, _ := r.Get("a")
	assert.Same(t, a, again)
	reopened, _ := r.Get("b")
	assert.NotSame(t, b, reopened, "the least recently seen page was evicted")
}

func TestRegistry_GetRevalidatesKnownPages(t *testing.T) {
	t.Parallel()
	provider := newFakeProvider()
	r := newTestRegistry(t, provider, &mockLibrary{})

	_, _ = r.Get("a")
	assert.Zero(t, provider.revalidations("a"), "a new page reads its binding on subscribe")

	_, _ = r.Get("a")
	_, _ = r.Get("a")
	assert.Equal(t, 2, provider.revalidations("a"))
}

func TestRegistry_ClosedWorkspaceIgnoresIdentity(t *testing.T) {
	t.Parallel()
	provider := newFakeProvider()
	library := &mockLibrary{}
	r := NewRegistry(context.Background(), provider, library, time.Minute, 0, testutil.MakeNoopLogger())

	w, ok := r.Get("p")
	require.True(t, ok)
	r.Close()

	provider.set("p", alice)
	assert.False(t, w.Session().SignedIn())
	library.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}
