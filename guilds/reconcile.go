// Package guilds computes the set of servers a dashboard user may operate
// on: the intersection of guilds the user can manage with guilds the bot is
// installed in.
package guilds

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/guildboard/guildboard/discord"
)

// ManageGuildPermission is the "manage server" bit of the permission
// bitfield. The field is serialised as a decimal string and may exceed 32-bit
// range, so all arithmetic is done on uint64.
const ManageGuildPermission uint64 = 0x20

// probeLimit bounds concurrent installation probes against the remote API.
const probeLimit = 4

// ReasonCode explains which reconciliation stage produced an empty result.
type ReasonCode string

const (
	ReasonNoGuilds           ReasonCode = "NO_GUILDS"
	ReasonNoManagePermission ReasonCode = "NO_MANAGE_PERMISSION"
	ReasonBotNotInstalled    ReasonCode = "BOT_NOT_INSTALLED"
)

// Summary is the projection returned downstream. The permission bitfield is
// intersection-use only and is stripped here.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Owner bool   `json:"owner"`
}

// Result is the reconciled guild list. Reason is set only when the list is
// empty, so the UI can explain which condition filtered everything out.
type Result struct {
	Guilds []Summary  `json:"guilds"`
	Reason ReasonCode `json:"reason,omitempty"`
}

type Service struct {
	api *discord.Client
}

func NewService(api *discord.Client) *Service {
	return &Service{api: api}
}

// AccessibleGuilds runs the three-stage filter: membership, manage
// permission, bot installation. A guild survives only at the intersection of
// all three. Installation is inferred from a successful bot-credential
// channels call; there is no direct membership query for the bot.
func (s *Service) AccessibleGuilds(ctx context.Context, userToken string) (Result, error) {
	memberGuilds, err := s.api.UserGuilds(ctx, userToken)
	if err != nil {
		return Result{}, fmt.Errorf("[guilds AccessibleGuilds]: %w", err)
	}
	if len(memberGuilds) == 0 {
		return Result{Guilds: []Summary{}, Reason: ReasonNoGuilds}, nil
	}

	managed := make([]discord.Guild, 0, len(memberGuilds))
	for _, g := range memberGuilds {
		if CanManage(g) {
			managed = append(managed, g)
		}
	}
	if len(managed) == 0 {
		return Result{Guilds: []Summary{}, Reason: ReasonNoManagePermission}, nil
	}

	// Probe each surviving guild independently. One guild's failure must
	// never abort the others, so workers record an outcome instead of
	// returning an error, and results join by index to keep input order.
	outcomes := make([]bool, len(managed))
	var group errgroup.Group
	group.SetLimit(probeLimit)
	for i, g := range managed {
		group.Go(func() error {
			outcomes[i] = s.probeInstalled(ctx, g)
			return nil
		})
	}
	_ = group.Wait()

	installed := make([]Summary, 0, len(managed))
	for i, g := range managed {
		if outcomes[i] {
			installed = append(installed, Summary{ID: g.ID, Name: g.Name, Icon: g.Icon, Owner: g.Owner})
		}
	}
	if len(installed) == 0 {
		return Result{Guilds: []Summary{}, Reason: ReasonBotNotInstalled}, nil
	}

	return Result{Guilds: installed}, nil
}

// probeInstalled checks whether the bot is installed in a guild by listing
// its channels with the bot credential. An authorization or not-found
// rejection is the routine "bot absent" outcome; any other failure is a
// transport fault worth flagging, but it still only excludes this one guild.
func (s *Service) probeInstalled(ctx context.Context, guild discord.Guild) bool {
	_, err := s.api.GuildChannels(ctx, guild.ID)
	if err == nil {
		return true
	}

	if discord.IsAccessDenied(err) {
		log.Debug().Str("guild_id", guild.ID).Msg("bot not installed in guild")
	} else {
		log.Warn().Err(err).Str("guild_id", guild.ID).Msg("installation probe failed")
	}
	return false
}

// CanManage reports whether the user's permission bitfield in the guild has
// the manage-server bit set. Unparseable bitfields never grant access.
func CanManage(g discord.Guild) bool {
	permissions, err := strconv.ParseUint(g.Permissions, 10, 64)
	if err != nil {
		return false
	}
	return permissions&ManageGuildPermission != 0
}
