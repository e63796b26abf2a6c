package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Landing and dashboard pages
	RouteLanding   = "/"
	RouteDashboard = "/dashboard"

	// Auth Routes - the authorization-code round trip
	RouteLogin    = "/login"
	RouteCallback = "/callback"
	RouteLogout   = "/logout"

	// Session-gated API routes
	RouteMe          = "/me"
	RouteGuilds      = "/guilds"
	RouteChannels    = "/channels/{guildID}"
	RouteMessages    = "/messages/{channelID}"
	RouteSendMessage = "/send-message"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
