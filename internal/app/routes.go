package app

import (
	"log/slog"
	"net/http"

	"todoapi/docs"
	"todoapi/internal/auth"
	"todoapi/internal/config"
	"todoapi/internal/handlers"
	"todoapi/internal/metrics"
	"todoapi/internal/repo"
	"todoapi/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Deps are the stores and collectors routes are built from.
type Deps struct {
	Users   repo.UserRepo
	Todos   repo.TodoRepo
	Cache   service.ListCache // nil disables caching
	Log     *slog.Logger
	Metrics *metrics.Metrics
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, deps Deps) {
	docs.SwaggerInfo.Version = cfg.App.Version

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	userSvc := service.NewUserService(
		deps.Users,
		auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL.Duration()),
	)
	requireToken := auth.RequireToken(userSvc)

	userHandler := handlers.NewUserHandler(userSvc, deps.Log)
	registerUserRoutes(r, requireToken, userHandler)

	todoSvc := service.NewTodoService(deps.Todos, deps.Cache)
	todoHandler := handlers.NewTodoHandler(todoSvc, deps.Log)
	registerTodoRoutes(r.Group("", requireToken), todoHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Todo API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/:id", h.GetByID)
	api.PATCH("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
}

func registerUserRoutes(r *gin.Engine, requireToken gin.HandlerFunc, h *handlers.UserHandler) {
	r.POST("/users", h.Register)
	r.POST("/users/login", h.Login)

	me := r.Group("/users/me", requireToken)
	me.GET("", h.Me)
	me.DELETE("/token", h.Logout)
	me.PATCH("/password", h.ChangePassword)
}
