package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/collabsphere/collabsphere-api/internal/api/handler"
	"github.com/collabsphere/collabsphere-api/internal/api/middleware"
	"github.com/collabsphere/collabsphere-api/internal/core/domain"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
	"github.com/collabsphere/collabsphere-api/internal/realtime"
)

// Dependencies carries the constructed services the router wires to routes.
// Everything is built in main so the chat service can seed its sequence
// counter from the store before the first request.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Tasks    ports.TaskService
	Projects ports.ProjectService
	Chat     ports.ChatService
	Invites  ports.InviteService
	Tokens   ports.TokenService
	Realtime *realtime.Handler

	Mongo  *mongo.Database
	Redis  *redis.Client
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("collabsphere"))

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	projectHandler := handler.NewProjectHandler(deps.Projects)
	messageHandler := handler.NewMessageHandler(deps.Chat)
	inviteHandler := handler.NewInviteHandler(deps.Invites)

	authRequired := middleware.Auth(deps.Tokens)
	managerOnly := middleware.RBAC(domain.RoleManager, domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/api/signup", authHandler.Signup)
	e.POST("/api/login", authHandler.Login)
	e.PUT("/api/users/role", authHandler.ChooseRole, authRequired)

	// --- User directory ---
	e.GET("/api/users/me", userHandler.Me, authRequired)
	e.GET("/api/users", userHandler.List, authRequired)

	// --- Tasks ---
	e.POST("/api/tasks", taskHandler.Create, authRequired)
	e.GET("/api/tasks", taskHandler.List, authRequired)
	e.PUT("/api/tasks/:id", taskHandler.Update, authRequired)
	e.DELETE("/api/tasks/:id", taskHandler.Delete, authRequired)

	// --- Projects ---
	e.POST("/api/projects", projectHandler.Create, authRequired)
	e.GET("/api/projects", projectHandler.List, authRequired)
	e.GET("/api/projects/:id", projectHandler.Get, authRequired)
	e.PUT("/api/projects/:id", projectHandler.Update, authRequired)
	e.DELETE("/api/projects/:id", projectHandler.Delete, authRequired)

	// --- Chat ---
	e.POST("/api/messages", messageHandler.Post, authRequired)
	e.GET("/api/messages", messageHandler.List, authRequired)
	e.GET("/ws", deps.Realtime.Serve)

	// --- Invites ---
	e.POST("/api/invites", inviteHandler.Create, authRequired, managerOnly)
	e.POST("/api/invites/accept", inviteHandler.Accept, authRequired)

	// --- Health probes & metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
