package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guildboard/guildboard/guilds"
)

const contentTypeJSON = "application/json; charset=utf-8"

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 100

	// maxMessageLength is the remote API's content cap
	maxMessageLength = 2000

	apiTimeout = 10 * time.Second

	// guildsTimeout allows for the per-guild installation probes
	guildsTimeout = 30 * time.Second
)

// MeHandler returns the identity committed to the session at login.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r)
		if !ok {
			http.Redirect(w, r, RouteLanding, http.StatusFound)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    sess.Data().User,
		})
	}
}

// GuildsHandler runs the reconciliation and returns the manageable guilds,
// with a diagnostic reason when the list is empty.
func (s *Server) GuildsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFromContext(r)
		if !ok {
			http.Redirect(w, r, RouteLanding, http.StatusFound)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), guildsTimeout)
		defer cancel()

		result, err := s.guilds.AccessibleGuilds(ctx, sess.Data().AccessToken)
		if err != nil {
			log.Error().Err(err).Msg("guild reconciliation failed")
			writeJSONFail(w, http.StatusInternalServerError, "Failed to fetch guilds", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Success bool              `json:"success"`
			Guilds  []guilds.Summary  `json:"guilds"`
			Reason  guilds.ReasonCode `json:"reason,omitempty"`
		}{Success: true, Guilds: result.Guilds, Reason: result.Reason})
	}
}

// ChannelsHandler lists a guild's text channels via the bot credential.
func (s *Server) ChannelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := r.PathValue("guildID")

		ctx, cancel := context.WithTimeout(r.Context(), apiTimeout)
		defer cancel()

		channels, err := s.api.GuildChannels(ctx, guildID)
		if err != nil {
			log.Error().Err(err).Str("guild_id", guildID).Msg("failed to fetch channels")
			writeJSONFail(w, http.StatusInternalServerError, "Failed to fetch channels", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"channels": channels,
		})
	}
}

// MessagesHandler fetches recent messages from a channel via the bot credential.
func (s *Server) MessagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID := r.PathValue("channelID")

		limit := defaultMessageLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = min(n, maxMessageLimit)
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), apiTimeout)
		defer cancel()

		messages, err := s.api.ChannelMessages(ctx, channelID, limit)
		if err != nil {
			log.Error().Err(err).Str("channel_id", channelID).Msg("failed to fetch messages")
			writeJSONFail(w, http.StatusInternalServerError, "Failed to fetch messages", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"messages": messages,
		})
	}
}

// SendMessageHandler relays a text message to a channel as the bot identity.
func (s *Server) SendMessageHandler() http.HandlerFunc {
	type sendMessageRequest struct {
		ChannelID string `json:"channelId"`
		Message   string `json:"message"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONFail(w, http.StatusBadRequest, "invalid request body", "")
			return
		}

		if req.ChannelID == "" || req.Message == "" {
			writeJSONFail(w, http.StatusBadRequest, "channelId and message are required", "")
			return
		}
		if len(req.Message) > maxMessageLength {
			writeJSONFail(w, http.StatusBadRequest, "message exceeds 2000 characters", "")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), apiTimeout)
		defer cancel()

		message, err := s.api.CreateMessage(ctx, req.ChannelID, req.Message)
		if err != nil {
			log.Error().Err(err).Str("channel_id", req.ChannelID).Msg("failed to send message")
			writeJSONFail(w, http.StatusInternalServerError, "Failed to send message", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": message,
		})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONFail writes the dashboard's failure envelope
func writeJSONFail(w http.ResponseWriter, statusCode int, errorMsg, details string) {
	payload := map[string]any{
		"success": false,
		"error":   errorMsg,
	}
	if details != "" {
		payload["details"] = details
	}
	writeJSON(w, statusCode, payload)
}
