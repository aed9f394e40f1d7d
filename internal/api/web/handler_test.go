package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/aitoolmap-server/internal/defaults"
	"github.com/dtroode/aitoolmap-server/internal/model"
	"github.com/dtroode/aitoolmap-server/internal/service"
	"github.com/dtroode/aitoolmap-server/internal/testutil"
	"github.com/dtroode/aitoolmap-server/internal/workspace"
)

const (
	testEmail    = "user@example.com"
	testPassword = "secret1"
)

// fakeAuth is an in-memory identity provider keyed by page.
type fakeAuth struct {
	mu         sync.Mutex
	users      map[string]string
	ids        map[string]uuid.UUID
	pages      map[string]*model.Identity
	subs       map[string]map[int]func(*model.Identity)
	expired    map[string]bool
	nextSub    int
	signUpErr  error
	signOutErr error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		users:   map[string]string{testEmail: testPassword},
		ids:     map[string]uuid.UUID{testEmail: uuid.New()},
		pages:   make(map[string]*model.Identity),
		subs:    make(map[string]map[int]func(*model.Identity)),
		expired: make(map[string]bool),
	}
}

// expire drops the binding of pageID without telling its subscribers.
func (a *fakeAuth) expire(pageID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.expired[pageID] = true
}

func (a *fakeAuth) Revalidate(_ context.Context, pageID string) {
	a.mu.Lock()
	gone := a.expired[pageID] && a.pages[pageID] != nil
	delete(a.expired, pageID)
	a.mu.Unlock()
	if gone {
		a.set(pageID, nil)
	}
}

func (a *fakeAuth) Subscribe(_ context.Context, pageID string, fn func(*model.Identity)) func() {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	if a.subs[pageID] == nil {
		a.subs[pageID] = make(map[int]func(*model.Identity))
	}
	a.subs[pageID][id] = fn
	current := a.pages[pageID]
	a.mu.Unlock()
	fn(current)

	return func() {
		a.mu.Lock()
		delete(a.subs[pageID], id)
		a.mu.Unlock()
	}
}

func (a *fakeAuth) set(pageID string, identity *model.Identity) {
	a.mu.Lock()
	a.pages[pageID] = identity
	var subs []func(*model.Identity)
	for _, fn := range a.subs[pageID] {
		subs = append(subs, fn)
	}
	a.mu.Unlock()
	for _, fn := range subs {
		fn(identity)
	}
}

func (a *fakeAuth) SignUp(_ context.Context, pageID, email, password string) (model.Identity, error) {
	a.mu.Lock()
	if a.signUpErr != nil {
		err := a.signUpErr
		a.mu.Unlock()
		return model.Identity{}, err
	}
	if _, ok := a.users[email]; ok {
		a.mu.Unlock()
		return model.Identity{}, model.NewAuthError(model.AuthEmailAlreadyInUse, nil)
	}
	a.users[email] = password
	a.ids[email] = uuid.New()
	identity := model.Identity{UserID: a.ids[email], Email: email}
	a.mu.Unlock()

	a.set(pageID, &identity)
	return identity, nil
}

func (a *fakeAuth) SignIn(_ context.Context, pageID, email, password string) (model.Identity, error) {
	a.mu.Lock()
	stored, ok := a.users[email]
	if !ok || stored != password {
		a.mu.Unlock()
		return model.Identity{}, model.NewAuthError(model.AuthInvalidCredential, nil)
	}
	identity := model.Identity{UserID: a.ids[email], Email: email}
	a.mu.Unlock()

	a.set(pageID, &identity)
	return identity, nil
}

func (a *fakeAuth) SignOut(_ context.Context, pageID string) error {
	a.mu.Lock()
	err := a.signOutErr
	a.mu.Unlock()
	if err != nil {
		return err
	}
	a.set(pageID, nil)
	return nil
}

// memStore is an in-memory document collection.
type memStore struct {
	mu        sync.Mutex
	docs      map[uuid.UUID][]model.ToolDocument
	next      int
	gate      chan struct{}
	failAdd   error
	failDel   error
	failBatch error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[uuid.UUID][]model.ToolDocument)}
}

func (s *memStore) List(ctx context.Context, userID uuid.UUID) ([]model.ToolDocument, error) {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ToolDocument(nil), s.docs[userID]...), nil
}

func (s *memStore) addLocked(userID uuid.UUID, doc model.ToolDocument) string {
	s.next++
	doc.RemoteID = fmt.Sprintf("doc-%d", s.next)
	s.docs[userID] = append(s.docs[userID], doc)
	return doc.RemoteID
}

func (s *memStore) deleteLocked(userID uuid.UUID, remoteID string) error {
	docs := s.docs[userID]
	for i, d := range docs {
		if d.RemoteID == remoteID {
			s.docs[userID] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (s *memStore) Add(_ context.Context, userID uuid.UUID, doc model.ToolDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAdd != nil {
		return "", s.failAdd
	}
	return s.addLocked(userID, doc), nil
}

func (s *memStore) Delete(_ context.Context, userID uuid.UUID, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel != nil {
		return s.failDel
	}
	return s.deleteLocked(userID, remoteID)
}

func (s *memStore) Batch(_ context.Context, userID uuid.UUID, ops []model.BatchOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failBatch != nil {
		return s.failBatch
	}
	for _, op := range ops {
		switch op.Kind {
		case model.BatchAdd:
			s.addLocked(userID, op.Document)
		case model.BatchDelete:
			if err := s.deleteLocked(userID, op.Document.RemoteID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *memStore) set(fn func(s *memStore)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

type fakeExporter struct {
	mu      sync.Mutex
	enabled bool
	key     string
	err     error
}

func (e *fakeExporter) set(enabled bool, key string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled, e.key, e.err = enabled, key, err
}

func (e *fakeExporter) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

func (e *fakeExporter) Export(context.Context, uuid.UUID) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return "", model.ErrExportDisabled
	}
	return e.key, e.err
}

type harness struct {
	t        *testing.T
	server   *httptest.Server
	client   *http.Client
	auth     *fakeAuth
	store    *memStore
	exporter *fakeExporter
	registry *workspace.Registry
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()

	log := testutil.MakeNoopLogger()
	auth := newFakeAuth()
	store := newMemStore()
	exporter := &fakeExporter{}
	library := service.NewLibrary(store, defaults.Builtin(), log)
	registry := workspace.NewRegistry(context.Background(), auth, library, time.Hour, 0, log)

	if opts.SyncWait == 0 {
		opts.SyncWait = 2 * time.Second
	}
	handler := NewHandler(auth, exporter, registry, opts, log)
	server := httptest.NewServer(handler.Routes())

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	t.Cleanup(func() {
		server.Close()
		registry.Close()
	})

	return &harness{
		t:        t,
		server:   server,
		client:   client,
		auth:     auth,
		store:    store,
		exporter: exporter,
		registry: registry,
	}
}

func (h *harness) do(req *http.Request) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, string(body)
}

func (h *harness) get(path string) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.server.URL+path, nil)
	require.NoError(h.t, err)
	return h.do(req)
}

func (h *harness) post(path string, form url.Values) (*http.Response, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

// signIn opens a page, signs it in and waits for the first sync.
func (h *harness) signIn() {
	h.t.Helper()
	resp, _ := h.post("/login", url.Values{
		"action":   {"signin"},
		"email":    {testEmail},
		"password": {testPassword},
	})
	require.Equal(h.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(h.t, "/", resp.Header.Get("Location"))

	resp, _ = h.get("/")
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
}

func (h *harness) pageID() string {
	h.t.Helper()
	u, err := url.Parse(h.server.URL)
	require.NoError(h.t, err)
	for _, c := range h.client.Jar.Cookies(u) {
		if c.Name == PageCookie {
			return c.Value
		}
	}
	h.t.Fatal("page cookie not set")
	return ""
}

func requireRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, location, resp.Header.Get("Location"))
}
