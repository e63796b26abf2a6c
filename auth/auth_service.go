// Package auth drives the OAuth2 authorization-code flow against Discord:
// anti-CSRF state issuance, callback validation, code exchange, identity
// fetch, and the commit of credentials into the browser session.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/guildboard/guildboard/discord"
	"github.com/guildboard/guildboard/internal/config"
	"github.com/guildboard/guildboard/sessions"
)

type Service struct {
	oauth *oauth2.Config
	api   *discord.Client
}

func NewService(cfg config.Config, api *discord.Client) *Service {
	return &Service{
		oauth: &oauth2.Config{
			ClientID:     cfg.GetDiscordClientID(),
			ClientSecret: cfg.GetDiscordClientSecret(),
			RedirectURL:  cfg.GetDiscordRedirectURI(),
			Scopes:       cfg.GetDiscordScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL: cfg.GetDiscordAuthURL(),
				TokenURL: cfg.GetDiscordTokenURL(),
				// Discord expects client credentials in the form body
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		api: api,
	}
}

// BeginLogin issues a fresh anti-CSRF state, commits it to the session, and
// returns the provider authorization URL to redirect the browser to.
//
// A session that already carries committed credentials short-circuits with
// AlreadyAuthorizedErr: no new state is issued and the provider is not
// contacted, so re-entry never clobbers an active login. The session commit
// must land before the caller sends the redirect; a commit failure is
// returned as a fatal error and no URL is produced.
func (s *Service) BeginLogin(sess *sessions.Handle) (string, error) {
	if sess.Authenticated() {
		return "", AlreadyAuthorizedErr
	}

	state := generateState()
	sess.SetOAuthState(state)
	if err := sess.Commit(); err != nil {
		return "", fmt.Errorf("[auth BeginLogin] persist state: %w", err)
	}

	return s.oauth.AuthCodeURL(state), nil
}

// HandleCallback validates the (state, code) pair against the session,
// exchanges the code for an access token, fetches the identity profile, and
// commits token and identity to the session in one write.
//
// Validation is ordered and each failure is terminal; the stored state is
// consumed by the first comparison attempt, matching or not, so a state value
// can never be replayed. The token and identity reach the store together or
// not at all: an identity-fetch failure leaves the session without
// credentials rather than holding a token no user is attached to.
func (s *Service) HandleCallback(ctx context.Context, sess *sessions.Handle, state, code string) error {
	if state == "" {
		return NoStateErr
	}

	stored := sess.OAuthState()
	if stored == "" {
		return SessionExpiredErr
	}

	// Single-use consumption: clear before acting on the comparison
	sess.ClearOAuthState()
	if err := sess.Commit(); err != nil {
		return fmt.Errorf("[auth HandleCallback] consume state: %w", err)
	}

	if stored != state {
		return InvalidStateErr
	}

	if code == "" {
		return MissingCodeErr
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", TokenExchangeErr, err)
	}

	user, err := s.api.CurrentUser(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", UserFetchErr, err)
	}

	sess.SetCredentials(token.AccessToken, sessions.Identity{
		ID:            user.ID,
		Username:      user.Username,
		Avatar:        user.Avatar,
		Discriminator: user.Discriminator,
	})
	if err := sess.Commit(); err != nil {
		return fmt.Errorf("[auth HandleCallback] commit credentials: %w", err)
	}

	return nil
}

// Logout destroys the session record unconditionally.
func (s *Service) Logout(sess *sessions.Handle) error {
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("[auth Logout]: %w", err)
	}
	return nil
}

// generateState creates a random base64url state value
func generateState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
