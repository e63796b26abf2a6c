package guilds_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/guildboard/guildboard/discord"
	"github.com/guildboard/guildboard/guilds"
)

const testUserToken = "user-token-1"

// fakeAPI serves the two endpoints the reconciliation touches: the user's
// guild list and the per-guild channels probe.
type fakeAPI struct {
	userGuilds []discord.Guild
	installed  map[string]bool
	faulty     map[string]bool // guild IDs whose probe returns a 500
}

func (f *fakeAPI) start(t *testing.T) *guilds.Service {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/users/@me/guilds":
			require.Equal(t, "Bearer "+testUserToken, r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(f.userGuilds)

		case strings.HasPrefix(r.URL.Path, "/guilds/"):
			require.Equal(t, "Bot test-bot-token", r.Header.Get("Authorization"))
			guildID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/guilds/"), "/channels")
			if f.faulty[guildID] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if !f.installed[guildID] {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_ = json.NewEncoder(w).Encode([]discord.Channel{})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	return guilds.NewService(discord.New(srv.URL, "test-bot-token", nil))
}

func guild(id, permissions string) discord.Guild {
	return discord.Guild{ID: id, Name: "guild-" + id, Icon: "icon-" + id, Permissions: permissions}
}

func guildIDs(summaries []guilds.Summary) []string {
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestAccessibleGuildsIntersection(t *testing.T) {
	api := &fakeAPI{
		userGuilds: []discord.Guild{
			guild("A", "32"), // 0x20
			guild("B", "0"),
			guild("C", "40"), // 0x28
		},
		installed: map[string]bool{"A": true, "C": true},
	}
	service := api.start(t)

	result, err := service.AccessibleGuilds(context.Background(), testUserToken)
	require.NoError(t, err)
	require.Empty(t, result.Reason)
	require.Equal(t, []string{"A", "C"}, guildIDs(result.Guilds))
}

func TestAccessibleGuildsStripsPermissions(t *testing.T) {
	api := &fakeAPI{
		userGuilds: []discord.Guild{{ID: "A", Name: "alpha", Icon: "ic", Owner: true, Permissions: "32"}},
		installed:  map[string]bool{"A": true},
	}
	service := api.start(t)

	result, err := service.AccessibleGuilds(context.Background(), testUserToken)
	require.NoError(t, err)
	require.Equal(t, []guilds.Summary{{ID: "A", Name: "alpha", Icon: "ic", Owner: true}}, result.Guilds)
}

func TestAccessibleGuildsNoGuilds(t *testing.T) {
	service := (&fakeAPI{userGuilds: []discord.Guild{}}).start(t)

	result, err := service.AccessibleGuilds(context.Background(), testUserToken)
	require.NoError(t, err)
	require.Empty(t, result.Guilds)
	require.Equal(t, guilds.ReasonNoGuilds, result.Reason)
}

func TestAccessibleGuildsNoManagePermission(t *testing.T) {
	api := &fakeAPI{
		userGuilds: []discord.Guild{guild("A", "8"), guild("B", "0")},
	}
	service := api.start(t)

	result, err := service.AccessibleGuilds(context.Background(), testUserToken)
	require.NoError(t, err)
	require.Empty(t, result.Guilds)
	require.Equal(t, guilds.ReasonNoManagePermission, result.Reason)
}

func TestAccessibleGuildsBotNotInstalled(t *testing.T) {
	api := &fakeAPI{
		userGuilds: []discord.Guild{guild("A", "32"), guild("B", "32")},
		installed:  map[string]bool{},
	}
	service := api.start(t)

	result, err := service.AccessibleGuilds(context.Background(), testUserToken)
	require.NoError(t, err)
	require.Empty(t, result.Guilds)
	require.Equal(t, guilds.ReasonBotNotInstalled, result.Reason)
}

func TestProbeFailureIsIsolatedPerGuild(t *testing.T) {
	api := &fakeAPI{
		userGuilds: []discord.Guild{guild("A", "32"), guild("B", "32"), guild("C", "32")},
		installed:  map[string]bool{"A": true, "C": true},
		faulty:     map[string]bool{"B": true},
	}
	service := api.start(t)

	result, err := service.AccessibleGuilds(context.Background(), testUserToken)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C"}, guildIDs(result.Guilds))
}

func TestResultPreservesInputOrder(t *testing.T) {
	var memberGuilds []discord.Guild
	installed := map[string]bool{}
	for _, id := range []string{"g1", "g2", "g3", "g4", "g5", "g6", "g7", "g8"} {
		memberGuilds = append(memberGuilds, guild(id, "32"))
		installed[id] = true
	}
	service := (&fakeAPI{userGuilds: memberGuilds, installed: installed}).start(t)

	result, err := service.AccessibleGuilds(context.Background(), testUserToken)
	require.NoError(t, err)
	require.Equal(t, []string{"g1", "g2", "g3", "g4", "g5", "g6", "g7", "g8"}, guildIDs(result.Guilds))
}

func TestAccessibleGuildsSurfacesUserGuildsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	service := guilds.NewService(discord.New(srv.URL, "test-bot-token", nil))

	_, err := service.AccessibleGuilds(context.Background(), testUserToken)
	require.Error(t, err)

	var apiErr *discord.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestCanManage(t *testing.T) {
	tests := []struct {
		name        string
		permissions string
		want        bool
	}{
		{"manage bit only", "32", true},
		{"manage bit among others", "40", true},
		{"administrator bit only", "8", false},
		{"no permissions", "0", false},
		{"manage bit beyond 32-bit range", "4294967328", true},
		{"high bits without manage", "4294967296", false},
		{"unparseable bitfield", "not-a-number", false},
		{"empty bitfield", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, guilds.CanManage(discord.Guild{ID: "g", Permissions: tt.permissions}))
		})
	}
}
