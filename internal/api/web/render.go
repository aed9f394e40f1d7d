package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/dtroode/aitoolmap-server/internal/messages"
	"github.com/dtroode/aitoolmap-server/internal/mindmap"
	"github.com/dtroode/aitoolmap-server/internal/model"
	"github.com/dtroode/aitoolmap-server/internal/workspace"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var embeddedStatic embed.FS

var (
	templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
	staticFS  fs.FS
)

func init() {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		staticFS = embeddedStatic
		return
	}
	staticFS = sub
}

type headerView struct {
	SignedIn      bool
	Welcome       string
	ExportEnabled bool
	Alert         string
}

type statusView struct {
	Header  headerView
	Refresh bool
	Message string
}

type loginView struct {
	Header  headerView
	Refresh bool
	Email   string
	Error   string
}

type branchView struct {
	Name     string
	Href     string
	Editable bool
	Tools    []model.Tool
}

type addCategoryView struct {
	Name  string
	Error string
}

type toolForm struct {
	Name        string
	URL         string
	Description string
}

type toolItemView struct {
	Name         string
	URL          string
	DeleteAction string
}

type confirmView struct {
	Message string
	Action  string
	Cancel  string
}

type editorView struct {
	Name         string
	Tools        []toolItemView
	Empty        string
	AddAction    string
	DeleteAction string
	Form         toolForm
	Error        string
	Confirm      *confirmView
}

type mapView struct {
	Header      headerView
	Refresh     bool
	Left        []branchView
	Right       []branchView
	AddCategory *addCategoryView
	Editor      *editorView
}

func categoryPath(name string) string {
	return "/categories/" + url.PathEscape(name)
}

func toolDeletePath(category, remoteID string) string {
	return categoryPath(category) + "/tools/" + url.PathEscape(remoteID) + "/delete"
}

func (h *Handler) header(page *workspace.Workspace) headerView {
	session := page.Session()
	view := headerView{Alert: page.TakeAlert()}
	if session.SignedIn() {
		view.SignedIn = true
		view.Welcome = messages.Welcome(session.Identity.Email)
		view.ExportEnabled = h.exporter.Enabled()
	}
	return view
}

func branches(categories []model.Category, editable bool) []branchView {
	out := make([]branchView, 0, len(categories))
	for _, c := range categories {
		out = append(out, branchView{
			Name:     c.Name,
			Href:     categoryPath(c.Name),
			Editable: editable,
			Tools:    c.Tools,
		})
	}
	return out
}

func (h *Handler) mapView(page *workspace.Workspace) mapView {
	left, right := mindmap.Split(page.Categories())
	signedIn := page.Session().SignedIn()
	return mapView{
		Header: h.header(page),
		Left:   branches(left, signedIn),
		Right:  branches(right, signedIn),
	}
}

func newEditorView(category model.Category) *editorView {
	view := &editorView{
		Name:         category.Name,
		Tools:        make([]toolItemView, 0, len(category.Tools)),
		Empty:        messages.NoTools,
		AddAction:    categoryPath(category.Name) + "/tools",
		DeleteAction: categoryPath(category.Name) + "/delete",
	}
	for _, t := range category.Tools {
		item := toolItemView{Name: t.Name, URL: t.URL}
		if t.RemoteID != "" {
			item.DeleteAction = toolDeletePath(category.Name, t.RemoteID)
		}
		view.Tools = append(view.Tools, item)
	}
	return view
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("Web handler: failed to render template", "template", name, "error", err.Error())
		http.Error(w, messages.Unexpected, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderStatus(w http.ResponseWriter, page *workspace.Workspace, message string) {
	h.render(w, http.StatusOK, "status", statusView{
		Header:  h.header(page),
		Refresh: true,
		Message: message,
	})
}
