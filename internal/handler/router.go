package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise-api/internal/middleware"
	"github.com/cardwise/cardwise-api/internal/service"
	"github.com/cardwise/cardwise-api/internal/session"
	"github.com/cardwise/cardwise-api/pkg/config"
	"github.com/cardwise/cardwise-api/pkg/logger"
	corsmiddleware "github.com/cardwise/cardwise-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cardwise/cardwise-api/pkg/middleware/requestid"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    *session.Store
	Policy   *session.Policy
	Resolver *session.Resolver

	Metrics  *service.MetricsService
	Settings *service.SettingsService

	Auth      *AuthHandler
	Users     *UserHandler
	Questions *QuestionHandler
	Setting   *SettingsHandler
	Exports   *ExportHandler
	Observe   *MetricsHandler
}

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.Session(deps.Store, deps.Policy, deps.Metrics))

	r.GET("/health", deps.Observe.Health)
	r.GET("/ready", deps.Observe.Ready)
	r.GET("/metrics", deps.Observe.Prometheus)

	maintenance := middleware.Maintenance(deps.Settings, deps.Logger)
	identity := middleware.Identity(deps.Store, deps.Resolver, deps.Policy)

	v1 := r.Group(deps.Config.APIPrefix)

	auth := v1.Group("/auth")
	{
		// Admin login and logout stay reachable during maintenance.
		auth.POST("/admin/login", deps.Auth.AdminLogin)
		auth.POST("/logout", deps.Auth.Logout)
		auth.POST("/login", maintenance, deps.Auth.Login)
		auth.POST("/register", maintenance, deps.Auth.Register)
	}

	game := v1.Group("/game", maintenance)
	{
		game.GET("/questions", deps.Questions.Game)
	}

	// The shell reads the maintenance flag from here, so no gate.
	v1.GET("/settings/public", deps.Setting.Public)

	profile := v1.Group("/profile", maintenance, identity, middleware.RequireUser())
	{
		profile.GET("/me", deps.Users.Me)
		profile.GET("/questions", deps.Questions.ListMine)
		profile.POST("/questions", deps.Questions.Create)
		profile.POST("/questions/bulk", deps.Questions.BulkImport)
		profile.PUT("/questions/:id", deps.Questions.Update)
		profile.DELETE("/questions/:id", deps.Questions.Delete)
		profile.POST("/change-password", deps.Auth.ChangePassword)
	}

	admin := v1.Group("/admin", identity, middleware.RequireAdmin())
	{
		admin.GET("/users", deps.Users.List)
		admin.POST("/users", deps.Users.Create)
		admin.GET("/users/:id", deps.Users.Get)
		admin.PUT("/users/:id", deps.Users.Update)
		admin.DELETE("/users/:id", deps.Users.Delete)

		admin.GET("/questions", deps.Questions.List)
		admin.POST("/questions", deps.Questions.Create)
		admin.POST("/questions/bulk", deps.Questions.BulkImport)
		admin.PUT("/questions/:id", deps.Questions.Update)
		admin.DELETE("/questions/:id", deps.Questions.Delete)
		admin.POST("/questions/:id/approve", deps.Questions.Approve)
		admin.POST("/questions/:id/reject", deps.Questions.Reject)
		admin.POST("/questions/export", deps.Exports.Create)
		admin.GET("/exports/:token", deps.Exports.Download)

		admin.GET("/settings", deps.Setting.Get)
		admin.PUT("/settings", deps.Setting.Update)
	}

	return r
}

// Realms builds the access policy realms for the configured API prefix. The
// redirect targets are the frontend login pages, not API routes.
func Realms(apiPrefix string) []session.Realm {
	return []session.Realm{
		{Prefix: apiPrefix + "/admin", LoginPath: "/admin/login"},
		{Prefix: apiPrefix + "/profile", LoginPath: "/login"},
	}
}
