package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guildboard/guildboard/auth"
)

// callbackTimeout bounds the two sequential upstream calls (token exchange,
// identity fetch) so a stalled provider cannot hold the request forever.
const callbackTimeout = 15 * time.Second

// LoginHandler starts the authorization-code round trip. An already
// authenticated session goes straight to the dashboard without a new state.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.ensureSession(w, r)
		if err != nil {
			log.Error().Err(err).Msg("failed to establish session")
			http.Error(w, "login error", http.StatusInternalServerError)
			return
		}

		authURL, err := s.auth.BeginLogin(sess)
		if errors.Is(err, auth.AlreadyAuthorizedErr) {
			http.Redirect(w, r, RouteDashboard, http.StatusFound)
			return
		}
		if err != nil {
			// State did not reach the store, so the redirect must not be
			// sent: a callback would always fail its CSRF check.
			log.Error().Err(err).Msg("failed to persist login state")
			http.Error(w, "login error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// CallbackHandler finishes the round trip. Every rejection is a terminal 400
// with its cause's exact text; anything unexpected collapses to a generic
// 400 so no stack detail leaks on this public endpoint.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Msg("callback panicked")
				http.Error(w, "callback error", http.StatusBadRequest)
			}
		}()

		state := r.URL.Query().Get("state")
		code := r.URL.Query().Get("code")

		sess, err := s.sessionFromRequest(r)
		if err != nil {
			// No session at all: same class as a session whose state expired
			if state == "" {
				http.Error(w, auth.NoStateErr.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, auth.SessionExpiredErr.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), callbackTimeout)
		defer cancel()

		if err := s.auth.HandleCallback(ctx, sess, state, code); err != nil {
			if msg, ok := auth.RejectionMessage(err); ok {
				log.Warn().Err(err).Msg("callback rejected")
				http.Error(w, msg, http.StatusBadRequest)
				return
			}
			log.Error().Err(err).Msg("callback failed")
			http.Error(w, "callback error", http.StatusBadRequest)
			return
		}

		http.Redirect(w, r, RouteDashboard, http.StatusFound)
	}
}

// LogoutHandler destroys the session and always sends the browser back to
// the landing page. A failed destroy is logged, not surfaced: the cookie is
// expired regardless and the store's TTL reaps any leftover record.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess, err := s.sessionFromRequest(r); err == nil {
			if err := s.auth.Logout(sess); err != nil {
				log.Error().Err(err).Msg("failed to destroy session on logout")
			}
		}

		s.clearSessionCookie(w)
		http.Redirect(w, r, RouteLanding, http.StatusFound)
	}
}
