package router

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"clubhub/internal/auth"
	"clubhub/internal/config"
	"clubhub/internal/handler"
	"clubhub/internal/metrics"
	mw "clubhub/internal/middleware"
	"clubhub/internal/model"
	"clubhub/internal/validation"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Clubs  *handler.ClubHandler
	Events *handler.EventHandler
	Member *handler.MemberHandler
}

// Deps are the collaborators of the middleware chain.
type Deps struct {
	Authenticator *auth.Authenticator
	Metrics       metrics.Recorder
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, deps Deps) {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	// Validate has already rejected malformed CIDRs.
	trusted, _ := cfg.TrustedProxyNets()
	e.IPExtractor = mw.ClientIP(trusted)

	e.Use(middleware.RequestID())
	e.Use(mw.RequestLogger(deps.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(mw.Metrics(deps.Metrics))

	e.Validator = validation.NewEchoValidator()

	e.GET("/healthz", handler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if deps.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(deps.Gatherer)))
	}

	authenticate := mw.Authenticate(deps.Authenticator, deps.Metrics)
	adminOnly := mw.Authorize(model.RoleAdmin, deps.Metrics)
	limited := mw.AuthRateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst)

	api := e.Group("/api")
	api.GET("/health", handler.Health)

	// Auth
	api.POST("/auth/register", h.Auth.Register, limited)
	api.POST("/auth/login", h.Auth.Login, limited)
	api.GET("/auth/me", h.Auth.Me)
	api.POST("/auth/logout", h.Auth.Logout, authenticate)

	// Users
	users := api.Group("/users", authenticate)
	users.GET("", h.Users.ListUsers)
	users.GET("/:id", h.Users.GetUser)
	users.POST("", h.Users.CreateUser, adminOnly)
	users.PUT("/:id", h.Users.UpdateUser, adminOnly)
	users.DELETE("/:id", h.Users.DeleteUser, adminOnly)

	// Clubs
	clubs := api.Group("/clubs")
	clubs.GET("", h.Clubs.ListClubs)
	clubs.GET("/:id", h.Clubs.GetClub)
	clubs.POST("", h.Clubs.CreateClub, authenticate, adminOnly)
	clubs.PUT("/:id", h.Clubs.UpdateClub, authenticate, adminOnly)
	clubs.DELETE("/:id", h.Clubs.DeleteClub, authenticate, adminOnly)
	clubs.GET("/:clubId/events", h.Events.ClubEvents, authenticate)

	// Members
	members := clubs.Group("/:clubId/members", authenticate)
	members.GET("", h.Member.ListMembers)
	members.POST("", h.Member.AddMember)
	members.DELETE("/:userId", h.Member.RemoveMember)

	// Events
	events := api.Group("/events")
	events.GET("", h.Events.ListEvents)
	events.GET("/upcoming", h.Events.UpcomingEvents)
	events.GET("/club/:clubId", h.Events.ClubEvents, authenticate)
	events.GET("/:id", h.Events.GetEvent)
	events.POST("", h.Events.CreateEvent, authenticate, adminOnly)
	events.PUT("/:id", h.Events.UpdateEvent, authenticate, adminOnly)
	events.DELETE("/:id", h.Events.DeleteEvent, authenticate, adminOnly)
}
