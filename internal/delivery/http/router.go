package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"gatherly/internal/delivery/http/controllers"
	"gatherly/internal/delivery/http/middleware"
	"gatherly/internal/domain"
	"gatherly/internal/metrics"
)

// Controllers groups the handlers served by NewRouter.
type Controllers struct {
	Auth        *controllers.AuthController
	Users       *controllers.UserController
	Events      *controllers.EventController
	Groups      *controllers.GroupController
	Invitations *controllers.InvitationController
	RSVPs       *controllers.RSVPController
	Comments    *controllers.CommentController
}

// RouterConfig holds the cross-cutting dependencies of the router. Metrics is optional.
type RouterConfig struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes, wrapped in CORS,
// request logging and, when configured, request metrics.
func NewRouter(cfg RouterConfig, c Controllers) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /register", c.Auth.Register)
	mux.HandleFunc("POST /login", c.Auth.Login)
	mux.HandleFunc("POST /logout", auth(c.Auth.Logout))
	mux.HandleFunc("POST /token/refresh", c.Auth.Refresh)

	// Users and profiles
	mux.HandleFunc("GET /users", c.Users.ListUsers)
	mux.HandleFunc("GET /profile", auth(c.Users.GetMyProfile))
	mux.HandleFunc("GET /profile/{id}", auth(c.Users.GetProfile))
	mux.HandleFunc("PUT /profile/password", auth(c.Auth.ChangePassword))
	mux.HandleFunc("DELETE /profile", auth(c.Users.DeleteAccount))

	// Events
	mux.HandleFunc("GET /events", c.Events.ListEvents)
	mux.HandleFunc("POST /events", auth(c.Events.CreateEvent))
	mux.HandleFunc("GET /events/{id}", c.Events.GetEvent)
	mux.HandleFunc("PUT /events/{id}", auth(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", auth(c.Events.DeleteEvent))
	mux.HandleFunc("GET /events/{id}/rsvps", c.RSVPs.ListEventRSVPs)
	mux.HandleFunc("GET /events/{id}/comments", c.Comments.ListComments)
	mux.HandleFunc("POST /events/{id}/comments", auth(c.Comments.CreateComment))

	// Groups and invitations
	mux.HandleFunc("GET /groups", c.Groups.ListGroups)
	mux.HandleFunc("POST /groups", auth(c.Groups.CreateGroup))
	mux.HandleFunc("GET /groups/{id}", c.Groups.GetGroup)
	mux.HandleFunc("DELETE /groups/{id}", auth(c.Groups.DeleteGroup))
	mux.HandleFunc("POST /groups/{id}/invite", auth(c.Invitations.Invite))
	mux.HandleFunc("GET /groups/{id}/invitations", auth(c.Invitations.ListGroupInvitations))
	mux.HandleFunc("GET /invitations", auth(c.Invitations.ListPending))
	mux.HandleFunc("PUT /invitations/{id}/accept", auth(c.Invitations.Accept))
	mux.HandleFunc("PUT /invitations/{id}/deny", auth(c.Invitations.Deny))

	// RSVPs
	mux.HandleFunc("POST /rsvps", auth(c.RSVPs.Respond))

	// Swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
		handler = cfg.Metrics.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	return middleware.CORS(cfg.AllowedOrigins, handler)
}
