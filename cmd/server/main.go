package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	httpadapter "github.com/farmdesk/farmdesk/internal/adapter/http"
	"github.com/farmdesk/farmdesk/internal/adapter/persistence"
	"github.com/farmdesk/farmdesk/internal/audit"
	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/config"
	"github.com/farmdesk/farmdesk/internal/domain"
	"github.com/farmdesk/farmdesk/internal/service/jwt"
	"github.com/farmdesk/farmdesk/internal/service/logger"
	"github.com/farmdesk/farmdesk/internal/service/password"
	"github.com/farmdesk/farmdesk/internal/usecase"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "farmdesk",
	})
	structuredLogger.Info(ctx, "application starting", map[string]interface{}{
		"env": cfg.Server.Environment,
	})

	// Connect to database
	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		structuredLogger.Error(ctx, "failed to open database", err, nil)
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxConnections)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "database connection established", map[string]interface{}{
		"addr": cfg.GetDatabaseAddr(),
	})

	// Connect to Redis. The cache degrades gracefully when Redis is down,
	// so a failed ping is logged but does not abort startup.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	redisCtx, redisCancel := context.WithTimeout(ctx, cfg.Redis.Timeout)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx).Err(); err != nil {
		structuredLogger.Warn(ctx, "redis unreachable, cache reads will miss until it recovers", map[string]interface{}{
			"addr":  cfg.GetRedisAddr(),
			"error": err.Error(),
		})
	}

	// Read-through cache: Redis store plus a connectivity monitor probing
	// the database address unless pinned online by config.
	store := cache.NewRedisStore(redisClient)
	var monitor cache.ConnectivityMonitor
	if cfg.Cache.ForceOnline {
		monitor = cache.ForcedMonitor{Online: true}
	} else {
		probeAddr := cfg.Cache.ProbeAddr
		if probeAddr == "" {
			probeAddr = cfg.GetDatabaseAddr()
		}
		monitor = cache.NewProbeMonitor(probeAddr, cfg.Cache.ProbeTimeout, cfg.Cache.ProbeInterval)
	}
	readThrough := cache.NewRepository(store, monitor, structuredLogger)

	// Repositories
	productRepo := persistence.NewPostgresProductRepository(db)
	customerRepo := persistence.NewPostgresCustomerRepository(db)
	orderRepo := persistence.NewPostgresOrderRepository(db)
	auditRepo := persistence.NewPostgresAuditRepository(db)
	userRepo := persistence.NewPostgresUserRepository(db)
	allocator := persistence.NewPostgresCodeAllocator(db)
	sessionContext := persistence.NewPostgresSessionContext(db)

	// Services
	tokenService, err := jwt.NewJWTService(cfg.Security.JWTSecret, "farmdesk")
	if err != nil {
		structuredLogger.Error(ctx, "failed to initialize JWT service", err, nil)
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(cfg.Security.BcryptCost)
	recorder := audit.NewRecorder(sessionContext, auditRepo, domain.AuditedPriceFields(), structuredLogger)

	// Use cases
	productUseCase := usecase.NewProductUseCase(productRepo, auditRepo, allocator, recorder, readThrough)
	customerUseCase := usecase.NewCustomerUseCase(customerRepo, allocator, readThrough)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, customerRepo, allocator, readThrough)
	reportUseCase := usecase.NewReportUseCase(orderRepo, readThrough)
	authUseCase := usecase.NewAuthUseCase(userRepo, tokenService, passwordService, cfg.Security.JWTExpiration)

	// HTTP layer
	authMiddleware := httpadapter.NewAuthMiddleware(tokenService)
	server := httpadapter.NewServer(
		cfg.Server,
		structuredLogger,
		httpadapter.NewAuthHandler(authUseCase, authMiddleware),
		httpadapter.NewProductHandler(productUseCase, authMiddleware),
		httpadapter.NewCustomerHandler(customerUseCase, authMiddleware),
		httpadapter.NewOrderHandler(orderUseCase, authMiddleware),
		httpadapter.NewReportHandler(reportUseCase, authMiddleware),
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "server failed to start", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	structuredLogger.Info(ctx, "shutting down", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "server exited", nil)
}
