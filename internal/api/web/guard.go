package web

import (
	"net/http"

	"github.com/dtroode/aitoolmap-server/internal/messages"
	"github.com/dtroode/aitoolmap-server/internal/model"
)

// IdentityState is the identity a guarded route requires.
type IdentityState int

const (
	SignedIn IdentityState = iota + 1
	SignedOut
)

type verdict int

const (
	verdictAllow verdict = iota
	verdictPending
	verdictRedirect
)

func check(session model.Session, want IdentityState) verdict {
	if !session.Ready {
		return verdictPending
	}
	if session.SignedIn() == (want == SignedIn) {
		return verdictAllow
	}
	return verdictRedirect
}

// Require admits requests whose page session matches want and redirects the
// rest to redirect with 303 See Other. Until the session is ready it renders
// the auth check placeholder.
func Require(want IdentityState, redirect string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page, ok := pageFrom(r.Context())
			if !ok {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}

			switch check(page.Session(), want) {
			case verdictAllow:
				next.ServeHTTP(w, r)
			case verdictPending:
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				_ = templates.ExecuteTemplate(w, "status", statusView{
					Refresh: true,
					Message: messages.CheckingAuth,
				})
			default:
				http.Redirect(w, r, redirect, http.StatusSeeOther)
			}
		})
	}
}

var (
	// SignedInOnly sends anonymous pages to the session page.
	SignedInOnly = Require(SignedIn, "/login")
	// SignedOutOnly sends signed-in pages to the map.
	SignedOutOnly = Require(SignedOut, "/")
)
