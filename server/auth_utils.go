package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guildboard/guildboard/sessions"
)

// The cookie carries only the opaque session ID, signed with the session
// secret so a tampered ID fails verification instead of probing the store.

func (s *Server) signSessionID(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.config.GetSessionTTL())),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("[server signSessionID]: %w", err)
	}
	return signed, nil
}

func (s *Server) verifySessionCookie(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("[server verifySessionCookie]: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("[server verifySessionCookie] empty session id")
	}
	return claims.Subject, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) error {
	signed, err := s.signSessionID(sessionID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionTTL().Seconds()),
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// sessionFromRequest resolves the browser's session from its signed cookie.
func (s *Server) sessionFromRequest(r *http.Request) (*sessions.Handle, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil, sessions.ErrSessionNotFound
	}

	sessionID, err := s.verifySessionCookie(cookie.Value)
	if err != nil {
		return nil, sessions.ErrSessionNotFound
	}

	return sessions.Open(s.sessions, sessionID)
}

// ensureSession returns the browser's existing session or creates a fresh one
// and hands the browser its cookie.
func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (*sessions.Handle, error) {
	if sess, err := s.sessionFromRequest(r); err == nil {
		return sess, nil
	}

	sess := sessions.Create(s.sessions)
	if err := s.setSessionCookie(w, r, sess.ID()); err != nil {
		return nil, err
	}
	return sess, nil
}
