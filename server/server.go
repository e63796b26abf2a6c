package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/guildboard/guildboard/auth"
	"github.com/guildboard/guildboard/discord"
	"github.com/guildboard/guildboard/guilds"
	"github.com/guildboard/guildboard/internal/config"
	"github.com/guildboard/guildboard/sessions"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	auth       *auth.Service
	guilds     *guilds.Service
	api        *discord.Client
	sessions   sessions.Repo
	cookieName string
	secret     []byte
}

func New(cfg config.Config, sessionRepo sessions.Repo, api *discord.Client) (*Server, error) {
	if cfg.GetDiscordClientID() == "" || cfg.GetDiscordClientSecret() == "" || cfg.GetDiscordBotToken() == "" {
		return nil, fmt.Errorf("[Server New] DISCORD_CLIENT_ID, DISCORD_CLIENT_SECRET and DISCORD_BOT_TOKEN are required")
	}
	if cfg.GetSessionSecret() == config.DefaultSessionSecret {
		zlog.Warn().Msg("SESSION_SECRET not set, using insecure default")
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		auth:       auth.NewService(cfg, api),
		guilds:     guilds.NewService(api),
		api:        api,
		sessions:   sessionRepo,
		cookieName: cfg.GetSessionCookieName(),
		secret:     []byte(cfg.GetSessionSecret()),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
