// Package web serves the browser pages of the tool map: the map itself, its
// modals, and the session page.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
	"github.com/dtroode/aitoolmap-server/internal/workspace"
)

// Auth signs pages in and out.
type Auth interface {
	SignUp(ctx context.Context, pageID, email, password string) (model.Identity, error)
	SignIn(ctx context.Context, pageID, email, password string) (model.Identity, error)
	SignOut(ctx context.Context, pageID string) error
}

// Exporter stores a snapshot of a user's map.
type Exporter interface {
	Enabled() bool
	Export(ctx context.Context, userID uuid.UUID) (string, error)
}

// Pages resolves the workspace of a page.
type Pages interface {
	Get(pageID string) (*workspace.Workspace, bool)
}

// Options tune the page behaviour.
type Options struct {
	// GuardHome keeps the map signed-in only. When false anonymous visitors
	// see the default dataset.
	GuardHome bool
	// SyncWait bounds how long the map waits for a sync pass before it
	// renders the loading page.
	SyncWait time.Duration
	// SecureCookie marks the page cookie Secure.
	SecureCookie bool
}

// Handler serves the browser routes.
type Handler struct {
	auth     Auth
	exporter Exporter
	pages    Pages
	opts     Options
	logger   *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(auth Auth, exporter Exporter, pages Pages, opts Options, logger *logger.Logger) *Handler {
	return &Handler{
		auth:     auth,
		exporter: exporter,
		pages:    pages,
		opts:     opts,
		logger:   logger,
	}
}

// Routes builds the router of all browser routes.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter().UseEncodedPath()
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	pages := r.PathPrefix("/").Subrouter()
	pages.Use(h.withPage)

	home := http.Handler(http.HandlerFunc(h.handleHome))
	if h.opts.GuardHome {
		home = SignedInOnly(home)
	}
	pages.Handle("/", home).Methods(http.MethodGet)

	pages.Handle("/login", keepList(SignedOutOnly(http.HandlerFunc(h.handleLoginPage)))).Methods(http.MethodGet)
	pages.Handle("/login", keepList(SignedOutOnly(http.HandlerFunc(h.handleLogin)))).Methods(http.MethodPost)
	pages.Handle("/logout", keepList(SignedInOnly(http.HandlerFunc(h.handleLogout)))).Methods(http.MethodPost)
	pages.Handle("/export", keepList(SignedInOnly(http.HandlerFunc(h.handleExport)))).Methods(http.MethodPost)

	pages.Handle("/categories/new", keepList(http.HandlerFunc(h.handleNewCategory))).Methods(http.MethodGet)
	pages.Handle("/categories", keepList(http.HandlerFunc(h.handleAddCategory))).Methods(http.MethodPost)
	pages.Handle("/categories/{name}", keepList(http.HandlerFunc(h.handleEditor))).Methods(http.MethodGet)
	pages.Handle("/categories/{name}/tools", keepList(http.HandlerFunc(h.handleAddTool))).Methods(http.MethodPost)
	pages.Handle("/categories/{name}/tools/{remoteId}/delete", keepList(http.HandlerFunc(h.handleDeleteTool))).Methods(http.MethodPost)
	pages.Handle("/categories/{name}/delete", keepList(http.HandlerFunc(h.handleDeleteCategory))).Methods(http.MethodPost)

	return withRequestLogging(r, h.logger)
}

// keepList marks the page so that landing back on the map after this step
// keeps the current list instead of reloading it.
func keepList(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if page, ok := pageFrom(r.Context()); ok {
			page.Hold()
		}
		next.ServeHTTP(w, r)
	})
}

func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
