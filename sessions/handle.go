package sessions

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Handle is a capability over one session record. Mutations are staged on the
// handle and reach the store only through Commit, which may fail and must be
// checked. Destroy removes the record entirely.
type Handle struct {
	repo Repo
	data Session
}

// Create starts a fresh session with a new opaque identifier. The record does
// not exist in the store until the first Commit.
func Create(repo Repo) *Handle {
	return &Handle{
		repo: repo,
		data: Session{
			ID:        uuid.NewString(),
			CreatedAt: time.Now(),
		},
	}
}

// Open loads an existing session from the store.
func Open(repo Repo, sessionID string) (*Handle, error) {
	session, err := repo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return &Handle{repo: repo, data: session}, nil
}

func (h *Handle) ID() string {
	return h.data.ID
}

// Data returns a copy of the staged session state.
func (h *Handle) Data() Session {
	return h.data
}

func (h *Handle) Authenticated() bool {
	return h.data.Authenticated()
}

func (h *Handle) OAuthState() string {
	return h.data.OAuthState
}

func (h *Handle) SetOAuthState(state string) {
	h.data.OAuthState = state
}

func (h *Handle) ClearOAuthState() {
	h.data.OAuthState = ""
}

// SetCredentials stages the access token and identity as a pair, keeping the
// two-fields-together invariant at the call site.
func (h *Handle) SetCredentials(accessToken string, user Identity) {
	h.data.AccessToken = accessToken
	h.data.User = &user
}

// Commit writes the staged state to the store.
func (h *Handle) Commit() error {
	if err := h.repo.Upsert(h.data.ID, h.data); err != nil {
		return fmt.Errorf("[sessions Commit]: %w", err)
	}
	return nil
}

// Destroy removes the record from the store and resets the staged state.
func (h *Handle) Destroy() error {
	if err := h.repo.Delete(h.data.ID); err != nil {
		return fmt.Errorf("[sessions Destroy]: %w", err)
	}
	h.data = Session{ID: h.data.ID}
	return nil
}
