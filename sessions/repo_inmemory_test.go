package sessions_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guildboard/guildboard/sessions"
)

const testTTL = time.Hour

func TestUpsertAndGet(t *testing.T) {
	repo := sessions.NewInMemoryRepo(testTTL)

	session := sessions.Session{
		ID:          "session-1",
		OAuthState:  "state-1",
		AccessToken: "token-1",
		User:        &sessions.Identity{ID: "42", Username: "tester"},
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Upsert(session.ID, session))

	got, err := repo.Get("session-1")
	require.NoError(t, err)
	require.Equal(t, "state-1", got.OAuthState)
	require.Equal(t, "token-1", got.AccessToken)
	require.Equal(t, "tester", got.User.Username)
}

func TestGetMissingSession(t *testing.T) {
	repo := sessions.NewInMemoryRepo(testTTL)

	_, err := repo.Get("unknown")
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

func TestUpsertRequiresID(t *testing.T) {
	repo := sessions.NewInMemoryRepo(testTTL)

	require.Error(t, repo.Upsert("", sessions.Session{}))
}

func TestDelete(t *testing.T) {
	repo := sessions.NewInMemoryRepo(testTTL)

	require.NoError(t, repo.Upsert("session-1", sessions.Session{ID: "session-1"}))
	require.NoError(t, repo.Delete("session-1"))

	_, err := repo.Get("session-1")
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)

	// Deleting an absent record is fine
	require.NoError(t, repo.Delete("session-1"))
}

func TestRecordsExpire(t *testing.T) {
	repo := sessions.NewInMemoryRepo(50 * time.Millisecond)

	require.NoError(t, repo.Upsert("session-1", sessions.Session{ID: "session-1"}))
	time.Sleep(80 * time.Millisecond)

	_, err := repo.Get("session-1")
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

func TestSessionsDoNotCrossContaminate(t *testing.T) {
	repo := sessions.NewInMemoryRepo(testTTL)

	require.NoError(t, repo.Upsert("a", sessions.Session{ID: "a", OAuthState: "state-a"}))
	require.NoError(t, repo.Upsert("b", sessions.Session{ID: "b", OAuthState: "state-b"}))

	a, err := repo.Get("a")
	require.NoError(t, err)
	b, err := repo.Get("b")
	require.NoError(t, err)
	require.Equal(t, "state-a", a.OAuthState)
	require.Equal(t, "state-b", b.OAuthState)
}

func TestHandleCommitAndDestroy(t *testing.T) {
	repo := sessions.NewInMemoryRepo(testTTL)

	sess := sessions.Create(repo)
	require.NotEmpty(t, sess.ID())

	other := sessions.Create(repo)
	require.NotEqual(t, sess.ID(), other.ID())

	// Nothing reaches the store before Commit
	_, err := repo.Get(sess.ID())
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)

	sess.SetCredentials("token-1", sessions.Identity{ID: "42", Username: "tester"})
	require.NoError(t, sess.Commit())
	require.True(t, sess.Authenticated())

	opened, err := sessions.Open(repo, sess.ID())
	require.NoError(t, err)
	require.True(t, opened.Authenticated())

	require.NoError(t, sess.Destroy())
	_, err = sessions.Open(repo, sess.ID())
	require.ErrorIs(t, err, sessions.ErrSessionNotFound)
}

func TestAuthenticatedRequiresBothFields(t *testing.T) {
	require.False(t, sessions.Session{AccessToken: "token"}.Authenticated())
	require.False(t, sessions.Session{User: &sessions.Identity{ID: "42"}}.Authenticated())
	require.True(t, sessions.Session{AccessToken: "token", User: &sessions.Identity{ID: "42"}}.Authenticated())
}
