// Package discord is a thin client for the Discord REST API. It issues
// authenticated calls with either a per-user bearer token or the process-wide
// bot token; the two credential kinds are never interchanged.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Client issues REST calls against a single API base URL. It is stateless
// apart from the bot credential and safe for concurrent use.
type Client struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a client for the given API base URL. The bot token authorises
// channel and message operations; user-scoped calls take their token per call.
func New(baseURL, botToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL:    baseURL,
		botToken:   botToken,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(25), 5),
	}
}

// CurrentUser fetches the identity profile of the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context, userToken string) (User, error) {
	var user User
	if err := c.get(ctx, "/users/@me", "Bearer "+userToken, &user); err != nil {
		return User{}, fmt.Errorf("[discord CurrentUser]: %w", err)
	}
	return user, nil
}

// UserGuilds lists every guild the user belongs to, with the user's
// permission bitfield per guild.
func (c *Client) UserGuilds(ctx context.Context, userToken string) ([]Guild, error) {
	var guilds []Guild
	if err := c.get(ctx, "/users/@me/guilds", "Bearer "+userToken, &guilds); err != nil {
		return nil, fmt.Errorf("[discord UserGuilds]: %w", err)
	}
	return guilds, nil
}

// BotGuilds lists every guild the bot identity is installed in.
func (c *Client) BotGuilds(ctx context.Context) ([]Guild, error) {
	var guilds []Guild
	if err := c.get(ctx, "/users/@me/guilds", "Bot "+c.botToken, &guilds); err != nil {
		return nil, fmt.Errorf("[discord BotGuilds]: %w", err)
	}
	return guilds, nil
}

// GuildChannels lists the text channels of a guild using the bot credential.
// Non-text channel types are filtered out before returning.
func (c *Client) GuildChannels(ctx context.Context, guildID string) ([]Channel, error) {
	var channels []Channel
	path := "/guilds/" + url.PathEscape(guildID) + "/channels"
	if err := c.get(ctx, path, "Bot "+c.botToken, &channels); err != nil {
		return nil, fmt.Errorf("[discord GuildChannels]: %w", err)
	}

	textChannels := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type == ChannelTypeGuildText {
			textChannels = append(textChannels, ch)
		}
	}
	return textChannels, nil
}

// ChannelMessages fetches up to limit recent messages from a channel using
// the bot credential.
func (c *Client) ChannelMessages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	var messages []Message
	path := "/channels/" + url.PathEscape(channelID) + "/messages?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, path, "Bot "+c.botToken, &messages); err != nil {
		return nil, fmt.Errorf("[discord ChannelMessages]: %w", err)
	}
	return messages, nil
}

// CreateMessage posts a text message to a channel as the bot identity.
func (c *Client) CreateMessage(ctx context.Context, channelID, content string) (Message, error) {
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return Message{}, fmt.Errorf("[discord CreateMessage] marshal: %w", err)
	}

	var message Message
	path := "/channels/" + url.PathEscape(channelID) + "/messages"
	if err := c.post(ctx, path, "Bot "+c.botToken, payload, &message); err != nil {
		return Message{}, fmt.Errorf("[discord CreateMessage]: %w", err)
	}
	return message, nil
}

func (c *Client) get(ctx context.Context, path, authorization string, out any) error {
	return c.do(ctx, http.MethodGet, path, authorization, nil, out)
}

func (c *Client) post(ctx context.Context, path, authorization string, body []byte, out any) error {
	return c.do(ctx, http.MethodPost, path, authorization, body, out)
}

func (c *Client) do(ctx context.Context, method, path, authorization string, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", authorization)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
