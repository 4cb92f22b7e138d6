package main

import (
	"context"   // Shutdown deadline and Redis ping
	"errors"    // Error matching
	"net/http"  // HTTP server
	"os"        // Exit codes
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Durations

	"bookstore/internal/api"        // HTTP handlers and router
	"bookstore/internal/config"     // Configuration
	"bookstore/internal/db"         // Database lifecycle
	"bookstore/internal/logging"    // Logger construction
	"bookstore/internal/middleware" // Metrics and rate limiting
	"bookstore/internal/repository" // Persistence
	"bookstore/internal/service"    // Business rules
	"bookstore/internal/storage"    // Upload store
	"bookstore/internal/utils"      // JWT issuer
	"bookstore/internal/validate"   // Request validation

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Monetary amounts
	"github.com/sirupsen/logrus"    // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.IsProd) // JSON logs in production
	decimal.MarshalJSONWithoutQuotes = true      // Money renders as JSON numbers

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Server stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	openingBalance, err := decimal.NewFromString(cfg.WalletBalance)
	if err != nil {
		return errors.New("WALLET_DEFAULT_BALANCE is not a number")
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DSN(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.WithError(err).Warn("Closing database failed")
		}
	}()

	// Setup Redis client, caching stays off when no address is configured
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return err
		}
	} else {
		log.Warn("REDIS_ADDR not set, wallet cache disabled")
	}

	uploads, err := storage.NewStore(cfg.UploadDir, log)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(gdb)
	books := repository.NewBookRepository(gdb)
	wallets := repository.NewWalletRepository(gdb)
	issuer := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authz := service.NewAuthorizer(users)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, log)
	done := make(chan struct{})
	defer close(done)
	limiter.StartCleanup(10*time.Minute, done)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		Log:         log,
		Validator:   validate.New(),
		Tokens:      issuer,
		Users:       users,
		Auth:        service.NewAuthService(users, issuer, cfg.BcryptCost, openingBalance, log),
		UserService: service.NewUserService(users, authz, uploads, rdb, log),
		Books:       service.NewBookService(books, authz, uploads, log),
		Wallets:     service.NewWalletService(wallets, rdb, log),
		Uploads:     uploads,
		Metrics:     middleware.NewMetrics("bookstore"),
		AuthLimiter: limiter,
		Started:     time.Now(),
	})
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.AppPort).Info("Server running")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
