package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/aitoolmap-server/internal/workspace"
)

// PageCookie names the cookie that identifies a browser page.
const PageCookie = "aitoolmap_page"

type pageKey struct{}

func withWorkspace(ctx context.Context, page *workspace.Workspace) context.Context {
	return context.WithValue(ctx, pageKey{}, page)
}

func pageFrom(ctx context.Context) (*workspace.Workspace, bool) {
	page, ok := ctx.Value(pageKey{}).(*workspace.Workspace)
	return page, ok && page != nil
}

func pageID(r *http.Request) string {
	cookie, err := r.Cookie(PageCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// withPage resolves the workspace of the requesting page, issuing a page
// cookie on first visit.
func (h *Handler) withPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := pageID(r)
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     PageCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   h.opts.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		page, ok := h.pages.Get(id)
		if !ok {
			h.logger.Warn("Web handler: page unavailable", "page_id", id)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		next.ServeHTTP(w, r.WithContext(withWorkspace(r.Context(), page)))
	})
}
