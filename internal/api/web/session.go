package web

import (
	"net/http"

	"github.com/dtroode/aitoolmap-server/internal/messages"
)

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	h.render(w, http.StatusOK, "login", loginView{Header: h.header(page)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	var msg string
	switch r.PostFormValue("action") {
	case "signup":
		if _, err := h.auth.SignUp(r.Context(), page.ID(), email, password); err != nil {
			h.logger.Info("Web handler: sign up failed", "page_id", page.ID(), "error", err.Error())
			msg = messages.SignUpError(err)
		}
	case "signin":
		if _, err := h.auth.SignIn(r.Context(), page.ID(), email, password); err != nil {
			h.logger.Info("Web handler: sign in failed", "page_id", page.ID(), "error", err.Error())
			msg = messages.SignInError(err)
		}
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	if msg != "" {
		h.render(w, http.StatusOK, "login", loginView{
			Header: h.header(page),
			Email:  email,
			Error:  msg,
		})
		return
	}
	redirect(w, r, "/")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	page, _ := pageFrom(r.Context())
	if err := h.auth.SignOut(r.Context(), page.ID()); err != nil {
		h.logger.Error("Web handler: failed to sign out", "page_id", page.ID(), "error", err.Error())
		page.SetAlert(messages.SignOutFailed)
		redirect(w, r, "/")
		return
	}
	redirect(w, r, "/login")
}
