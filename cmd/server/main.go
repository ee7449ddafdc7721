package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog_api/internal/config"
	"blog_api/internal/handler"
	"blog_api/internal/logger"
	"blog_api/internal/middleware"
	"blog_api/internal/ratelimit"
	"blog_api/internal/repository"
	"blog_api/internal/service"
	"blog_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type stores struct {
	users  repository.UserRepository
	blogs  repository.BlogRepository
	health handler.HealthCheck
	close  func()
}

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Getenv("APP_ENV")).Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(cfg.Server.Environment)
	defer log.Sync()
	if envErr != nil {
		log.Infof("No .env file found or error loading, relying on environment variables")
	}
	if cfg.Server.Environment == logger.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// --- Storage ---
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer st.close()

	// --- Rate limiting ---
	var signInLimiter middleware.Limiter
	if cfg.RateLimitEnabled() {
		rdb, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		signInLimiter = ratelimit.NewRedisLimiter(rdb, "sign-in", cfg.Redis.SignInLimit, cfg.Redis.SignInWindow)
		log.Infof("Sign-in rate limit: %d per %v", cfg.Redis.SignInLimit, cfg.Redis.SignInWindow)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.Auth.JWTSecret, cfg.Auth.JWTExpirationHours)

	// --- Initialize Services ---
	authService := service.NewAuthService(st.users, jwtUtil, service.AuthOptions{
		BcryptCost:           cfg.Auth.BcryptCost,
		InitialAdminUsername: cfg.Auth.InitialAdminUsername,
	}, log)
	userService := service.NewUserService(st.users, cfg.Auth.BcryptCost)
	blogService := service.NewBlogService(st.blogs)

	// --- Setup Gin Router ---
	router := handler.NewRouter(handler.RouterDeps{
		Auth:           handler.NewAuthHandler(authService, log),
		Users:          handler.NewUserHandler(userService, log),
		Blogs:          handler.NewBlogHandler(blogService, log),
		JWT:            jwtUtil,
		SignInLimiter:  signInLimiter,
		TrustedProxies: cfg.Server.TrustedProxies,
		Health:         st.health,
		Log:            log,
	})

	corsMW := cors.Handler(corsOptions(cfg.Server.CORSAllowedOrigins))

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           corsMW(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server starting on port %s (store: %s)", cfg.Server.Port, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infof("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Infof("Server exiting")
}

// corsOptions allows browser clients on origins. Auth is a bearer header, so credentials are never allowed.
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		dbPool, err := config.ConnectDB(ctx, cfg.DB, log)
		if err != nil {
			return nil, err
		}
		if err := config.AutoMigrate(ctx, dbPool, log); err != nil {
			dbPool.Close()
			return nil, err
		}
		return &stores{
			users:  repository.NewUserRepository(dbPool),
			blogs:  repository.NewBlogRepository(dbPool),
			health: dbPool.Ping,
			close:  dbPool.Close,
		}, nil

	case config.StoreDriverMongo:
		client, err := config.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Infof("Connected to MongoDB database %s", cfg.Mongo.Database)
		return &stores{
			users: repository.NewMongoUserRepository(db),
			blogs: repository.NewMongoBlogRepository(db),
			health: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil

	default:
		log.Warnf("Using in-memory store; data is lost on restart")
		return &stores{
			users: repository.NewMemoryUserRepository(),
			blogs: repository.NewMemoryBlogRepository(),
			close: func() {},
		}, nil
	}
}
