package handler

import (
	"context"
	"net/http"
	"time"

	"blog_api/internal/logger"
	"blog_api/internal/middleware"
	"blog_api/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck reports whether the backing store is reachable
type HealthCheck func(ctx context.Context) error

// RouterDeps holds everything the router wires together
type RouterDeps struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Blogs         *BlogHandler
	JWT           *utils.JWTUtil
	SignInLimiter middleware.Limiter
	// TrustedProxies decides whose X-Forwarded-For feeds the client IP. Nil trusts none.
	TrustedProxies []string
	Health         HealthCheck
	Log            *logger.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Log.Errorf("Invalid trusted proxies %v, trusting none: %v", deps.TrustedProxies, err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(logger.RequestID(), logger.AccessLog(deps.Log), recovery(deps.Log))

	jwtAuthMW := middleware.JWTAuthMiddleware(deps.JWT)
	userRoleMW := middleware.UserMiddleware()

	router.GET("/health", healthHandler(deps.Health))

	users := router.Group("/users")
	{
		users.POST("/sign-up", deps.Auth.SignUp)
		users.POST("/sign-in", middleware.RateLimitMiddleware(deps.SignInLimiter, deps.Log), deps.Auth.SignIn)

		protected := users.Group("", jwtAuthMW, userRoleMW)
		protected.GET("", deps.Users.List)
		protected.GET("/:id", deps.Users.GetByID)
		protected.PUT("/:id", deps.Users.Update)
		protected.DELETE("/:id", deps.Users.Delete)
	}

	blogs := router.Group("/api/blogs")
	{
		blogs.GET("", deps.Blogs.List)
		blogs.GET("/:id", deps.Blogs.GetByID)
		blogs.POST("", jwtAuthMW, userRoleMW, deps.Blogs.Create)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Route not found")
	})

	return router
}

func healthHandler(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	}
}

func recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Ctx(c.Request.Context()).Error("panic recovered", zap.Any("panic", recovered))
		respondError(c, http.StatusInternalServerError, serverErrorMsg)
		c.Abort()
	})
}
