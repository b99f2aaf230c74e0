package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is the readiness view of the connection pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	Engine *gin.Engine

	authLimiter *RateLimiter
}

func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	projectHandler *ProjectHandler,
	taskHandler *TaskHandler,
	jwtSecret string,
	db Pinger,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(Metrics())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "db_not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public, rate limited: these are the only endpoints reachable without
	// a token.
	authLimiter := NewRateLimiter(30)
	authGroup := r.Group("/api/auth")
	authGroup.Use(authLimiter.Middleware())
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Protected
	authed := r.Group("/api")
	authed.Use(AuthMiddleware(jwtSecret, logger))
	{
		authed.GET("/users/me", userHandler.Me)
		authed.PUT("/users/:id", userHandler.Update)

		authed.POST("/projects", projectHandler.Create)
		authed.GET("/projects", projectHandler.List)
		authed.GET("/projects/:id", projectHandler.Get)
		authed.PUT("/projects/:id", projectHandler.Update)
		authed.DELETE("/projects/:id", projectHandler.Delete)

		authed.POST("/projects/:id/tasks", taskHandler.Create)
		authed.GET("/projects/:id/tasks", taskHandler.List)
		authed.PUT("/tasks/:id", taskHandler.Update)
		authed.DELETE("/tasks/:id", taskHandler.Delete)
	}

	return &Router{Engine: r, authLimiter: authLimiter}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}

// Stop releases the router's background workers. Callers that discard a
// router before process exit must call it, or the limiter's cleanup
// goroutine lingers.
func (r *Router) Stop() {
	r.authLimiter.Stop()
}
