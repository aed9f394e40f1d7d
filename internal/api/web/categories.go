package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dtroode/aitoolmap-server/internal/messages"
	"github.com/dtroode/aitoolmap-server/internal/model"
	"github.com/dtroode/aitoolmap-server/internal/workspace"
)

// awaitSync waits up to SyncWait for the sync pass of a signed-in page and
// reports whether the list is settled.
func (h *Handler) awaitSync(r *http.Request, page *workspace.Workspace) bool {
	if !page.Session().SignedIn() || !page.Loading() {
		return true
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.SyncWait)
	defer cancel()
	return page.Wait(ctx) == nil
}

// renderMap renders the map with an optional modal. A modal func returning
// false means its target is gone and the page goes back to the plain map.
// Status pages refresh themselves and hold the list so the refresh does not
// restart the pass they wait for.
func (h *Handler) renderMap(w http.ResponseWriter, r *http.Request, page *workspace.Workspace, modal func(*mapView) bool) {
	if !page.Session().Ready {
		page.Hold()
		h.renderStatus(w, page, messages.CheckingAuth)
		return
	}
	if !h.awaitSync(r, page) {
		page.Hold()
		h.renderStatus(w, page, messages.Loading)
		return
	}

	view := h.mapView(page)
	if modal != nil && !modal(&view) {
		redirect(w, r, "/")
		return
	}
	h.render(w, http.StatusOK, "map", view)
}

func (h *Handler) editor(page *workspace.Workspace, name string, decorate func(*editorView)) func(*mapView) bool {
	return func(v *mapView) bool {
		category, ok := page.Category(name)
		if !ok {
			return false
		}
		v.Editor = newEditorView(category)
		if decorate != nil {
			decorate(v.Editor)
		}
		return true
	}
}

func routeVar(r *http.Request, key string) (string, bool) {
	value, err := url.PathUnescape(mux.Vars(r)[key])
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}

func findTool(category model.Category, remoteID string) (model.Tool, bool) {
	for _, t := range category.Tools {
		if t.RemoteID == remoteID {
			return t, true
		}
	}
	return model.Tool{}, false
}

// editorTarget resolves the category of an editor route. Signed-out pages
// and missing categories go back to the map.
func (h *Handler) editorTarget(w http.ResponseWriter, r *http.Request, page *workspace.Workspace) (model.Category, bool) {
	if !page.Session().SignedIn() {
		redirect(w, r, "/")
		return model.Category{}, false
	}
	name, ok := routeVar(r, "name")
	if !ok {
		redirect(w, r, "/")
		return model.Category{}, false
	}
	category, ok := page.Category(name)
	if !ok {
		redirect(w, r, "/")
		return model.Category{}, false
	}
	return category, true
}

// handleHome renders the map. A plain load reloads the list the way a fresh
// page would; landings from the map's own steps keep it.
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	if page.Resync() {
		h.logger.Debug("Web handler: map reloaded", "page_id", page.ID())
	}
	h.renderMap(w, r, page, nil)
}

func (h *Handler) handleNewCategory(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	if err := page.CanAddCategory(); err != nil {
		page.SetAlert(messages.CategoryError(err, ""))
		redirect(w, r, "/")
		return
	}
	h.renderMap(w, r, page, func(v *mapView) bool {
		v.AddCategory = &addCategoryView{}
		return true
	})
}

func (h *Handler) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		h.renderMap(w, r, page, func(v *mapView) bool {
			v.AddCategory = &addCategoryView{Error: messages.EmptyCategoryName}
			return true
		})
		return
	}

	if err := page.AddCategory(name); err != nil {
		h.logger.Debug("Web handler: category refused", "page_id", page.ID(), "category", name, "error", err.Error())
		page.SetAlert(messages.CategoryError(err, name))
		redirect(w, r, "/")
		return
	}
	redirect(w, r, "/")
}

func (h *Handler) handleEditor(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	category, ok := h.editorTarget(w, r, page)
	if !ok {
		return
	}
	h.renderMap(w, r, page, h.editor(page, category.Name, nil))
}

func (h *Handler) handleAddTool(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	category, ok := h.editorTarget(w, r, page)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := toolForm{
		Name:        r.PostFormValue("name"),
		URL:         r.PostFormValue("url"),
		Description: r.PostFormValue("description"),
	}
	_, err := page.AddTool(r.Context(), category.Name, model.ToolInput{
		Name:        form.Name,
		URL:         form.URL,
		Description: form.Description,
	})
	switch {
	case err == nil:
		redirect(w, r, categoryPath(category.Name))
		return
	case errors.Is(err, model.ErrCategoryNotFound), errors.Is(err, model.ErrSignInRequired):
		redirect(w, r, "/")
		return
	}

	msg := messages.ToolFieldsRequired
	if !errors.Is(err, model.ErrToolFieldsRequired) {
		msg = messages.AddToolFailed
		h.logger.Error("Web handler: failed to add tool",
			"page_id", page.ID(),
			"category", category.Name,
			"error", err.Error())
	}
	h.renderMap(w, r, page, h.editor(page, category.Name, func(e *editorView) {
		e.Form = form
		e.Error = msg
	}))
}

func (h *Handler) handleDeleteTool(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	category, ok := h.editorTarget(w, r, page)
	if !ok {
		return
	}
	remoteID, ok := routeVar(r, "remoteId")
	if !ok {
		redirect(w, r, categoryPath(category.Name))
		return
	}
	tool, ok := findTool(category, remoteID)
	if !ok {
		redirect(w, r, categoryPath(category.Name))
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.PostFormValue("confirm") != "yes" {
		h.renderMap(w, r, page, h.editor(page, category.Name, func(e *editorView) {
			e.Confirm = &confirmView{
				Message: messages.ConfirmDeleteTool(tool.Name),
				Action:  toolDeletePath(category.Name, remoteID),
				Cancel:  categoryPath(category.Name),
			}
		}))
		return
	}

	if err := page.DeleteTool(r.Context(), category.Name, remoteID); err != nil {
		h.logger.Error("Web handler: failed to delete tool",
			"page_id", page.ID(),
			"category", category.Name,
			"remote_id", remoteID,
			"error", err.Error())
		page.SetAlert(messages.DeleteToolFailed)
		redirect(w, r, categoryPath(category.Name))
		return
	}

	if _, ok := page.Category(category.Name); !ok {
		redirect(w, r, "/")
		return
	}
	redirect(w, r, categoryPath(category.Name))
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	category, ok := h.editorTarget(w, r, page)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.PostFormValue("confirm") != "yes" {
		h.renderMap(w, r, page, h.editor(page, category.Name, func(e *editorView) {
			e.Confirm = &confirmView{
				Message: messages.ConfirmDeleteCategory(category.Name),
				Action:  categoryPath(category.Name) + "/delete",
				Cancel:  categoryPath(category.Name),
			}
		}))
		return
	}

	if err := page.DeleteCategory(r.Context(), category.Name); err != nil {
		h.logger.Error("Web handler: failed to delete category",
			"page_id", page.ID(),
			"category", category.Name,
			"error", err.Error())
		page.SetAlert(messages.DeleteCategoryFailed)
		redirect(w, r, categoryPath(category.Name))
		return
	}
	redirect(w, r, "/")
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	session := page.Session()
	if !session.SignedIn() {
		redirect(w, r, "/login")
		return
	}

	key, err := h.exporter.Export(r.Context(), session.Identity.UserID)
	if err != nil {
		h.logger.Error("Web handler: failed to export map",
			"page_id", page.ID(),
			"error", err.Error())
		page.SetAlert(messages.ExportError(err))
		redirect(w, r, "/")
		return
	}
	page.SetAlert(messages.ExportDone(key))
	redirect(w, r, "/")
}
