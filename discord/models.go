package discord

// User is the identity profile returned by the /users/@me endpoint.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar"`
	Discriminator string `json:"discriminator"`
}

// Guild is a server the user or bot belongs to. Permissions is a bitfield
// serialised as a decimal string and may exceed 32-bit range.
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}

// Channel types as defined by the remote API. Only guild text channels are
// surfaced by the dashboard.
const ChannelTypeGuildText = 0

type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     int    `json:"type"`
	Position int    `json:"position"`
}

type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
	Author    User   `json:"author"`
	Timestamp string `json:"timestamp"`
}
