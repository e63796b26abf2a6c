package sessions

import "errors"

var ErrSessionNotFound = errors.New("session not found")

type Repo interface {
	Upsert(sessionID string, session Session) error
	Get(sessionID string) (Session, error)
	Delete(sessionID string) error
}
