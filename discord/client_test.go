package discord_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guildboard/guildboard/discord"
)

const testBotToken = "test-bot-token"

type recordedRequest struct {
	method        string
	path          string
	query         string
	authorization string
	body          string
}

// recordingServer captures the last request and replies with a canned body.
type recordingServer struct {
	last       recordedRequest
	status     int
	response   any
	httpServer *httptest.Server
}

func newRecordingServer(t *testing.T) *recordingServer {
	t.Helper()

	rs := &recordingServer{status: http.StatusOK}
	rs.httpServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rs.last = recordedRequest{
			method:        r.Method,
			path:          r.URL.Path,
			query:         r.URL.RawQuery,
			authorization: r.Header.Get("Authorization"),
			body:          string(body),
		}
		w.WriteHeader(rs.status)
		if rs.response != nil {
			_ = json.NewEncoder(w).Encode(rs.response)
		}
	}))
	t.Cleanup(rs.httpServer.Close)
	return rs
}

func (rs *recordingServer) client() *discord.Client {
	return discord.New(rs.httpServer.URL, testBotToken, nil)
}

func TestCurrentUserUsesBearerToken(t *testing.T) {
	rs := newRecordingServer(t)
	rs.response = discord.User{ID: "42", Username: "tester"}

	user, err := rs.client().CurrentUser(context.Background(), "user-token")
	require.NoError(t, err)
	require.Equal(t, "42", user.ID)
	require.Equal(t, "tester", user.Username)
	require.Equal(t, "/users/@me", rs.last.path)
	require.Equal(t, "Bearer user-token", rs.last.authorization)
}

func TestUserGuildsUsesBearerToken(t *testing.T) {
	rs := newRecordingServer(t)
	rs.response = []discord.Guild{{ID: "g1", Permissions: "32"}}

	guilds, err := rs.client().UserGuilds(context.Background(), "user-token")
	require.NoError(t, err)
	require.Len(t, guilds, 1)
	require.Equal(t, "32", guilds[0].Permissions)
	require.Equal(t, "/users/@me/guilds", rs.last.path)
	require.Equal(t, "Bearer user-token", rs.last.authorization)
}

func TestBotGuildsUsesBotToken(t *testing.T) {
	rs := newRecordingServer(t)
	rs.response = []discord.Guild{{ID: "g1"}}

	_, err := rs.client().BotGuilds(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/users/@me/guilds", rs.last.path)
	require.Equal(t, "Bot "+testBotToken, rs.last.authorization)
}

func TestGuildChannelsFiltersNonTextChannels(t *testing.T) {
	rs := newRecordingServer(t)
	rs.response = []discord.Channel{
		{ID: "c1", Name: "general", Type: discord.ChannelTypeGuildText},
		{ID: "c2", Name: "voice-lounge", Type: 2},
		{ID: "c3", Name: "announcements", Type: discord.ChannelTypeGuildText},
		{ID: "c4", Name: "category", Type: 4},
	}

	channels, err := rs.client().GuildChannels(context.Background(), "g1")
	require.NoError(t, err)
	require.Equal(t, "/guilds/g1/channels", rs.last.path)
	require.Equal(t, "Bot "+testBotToken, rs.last.authorization)

	require.Len(t, channels, 2)
	require.Equal(t, "c1", channels[0].ID)
	require.Equal(t, "c3", channels[1].ID)
}

func TestChannelMessagesSendsLimit(t *testing.T) {
	rs := newRecordingServer(t)
	rs.response = []discord.Message{{ID: "m1", Content: "hello"}}

	messages, err := rs.client().ChannelMessages(context.Background(), "c1", 25)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "/channels/c1/messages", rs.last.path)
	require.Equal(t, "limit=25", rs.last.query)
	require.Equal(t, "Bot "+testBotToken, rs.last.authorization)
}

func TestCreateMessagePostsJSONBody(t *testing.T) {
	rs := newRecordingServer(t)
	rs.response = discord.Message{ID: "m1", ChannelID: "c1", Content: "hello there"}

	message, err := rs.client().CreateMessage(context.Background(), "c1", "hello there")
	require.NoError(t, err)
	require.Equal(t, "m1", message.ID)

	require.Equal(t, http.MethodPost, rs.last.method)
	require.Equal(t, "/channels/c1/messages", rs.last.path)
	require.Equal(t, "Bot "+testBotToken, rs.last.authorization)
	require.JSONEq(t, `{"content":"hello there"}`, rs.last.body)
}

func TestNonSuccessStatusBecomesAPIError(t *testing.T) {
	rs := newRecordingServer(t)
	rs.status = http.StatusTooManyRequests

	_, err := rs.client().CurrentUser(context.Background(), "user-token")
	require.Error(t, err)

	var apiErr *discord.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestIsAccessDenied(t *testing.T) {
	require.True(t, discord.IsAccessDenied(&discord.APIError{StatusCode: 401}))
	require.True(t, discord.IsAccessDenied(&discord.APIError{StatusCode: 403}))
	require.True(t, discord.IsAccessDenied(&discord.APIError{StatusCode: 404}))
	require.False(t, discord.IsAccessDenied(&discord.APIError{StatusCode: 500}))
	require.False(t, discord.IsAccessDenied(errors.New("network down")))

	// Wrapped errors still match
	rs := newRecordingServer(t)
	rs.status = http.StatusForbidden
	_, err := rs.client().GuildChannels(context.Background(), "g1")
	require.True(t, discord.IsAccessDenied(err))
}
