package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Jonathan0148/inventoryproduct/internal/adapter/client"
	"github.com/Jonathan0148/inventoryproduct/internal/adapter/handler"
	"github.com/Jonathan0148/inventoryproduct/internal/adapter/storage"
	"github.com/Jonathan0148/inventoryproduct/internal/config"
	"github.com/Jonathan0148/inventoryproduct/internal/core/service"
	"github.com/Jonathan0148/inventoryproduct/internal/pkg/logging"
	"github.com/Jonathan0148/inventoryproduct/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.MustNewLogger(config.ServiceName, "unknown").Fatal("config_load_failed", zap.Error(err))
	}

	logger := logging.MustNewLogger(config.ServiceName, cfg.Env)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage backend
	var (
		repo    port.InventoryRepository
		cleanup func()
	)
	switch cfg.StoreBackend {
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis_connect_failed", zap.Error(err))
		}
		logger.Info("connected_to_redis", zap.String("addr", cfg.RedisAddr))
		repo = storage.NewRedisStore(rdb)
		cleanup = func() { rdb.Close() }
	default:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("mysql_connect_failed", zap.Error(err))
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("mysql_ping_failed", zap.Error(err))
		}
		logger.Info("connected_to_mysql")
		repo = storage.NewMySQLStore(db)
		cleanup = func() { db.Close() }
	}
	defer cleanup()

	// Remote product catalog client
	productClient := client.NewProductClient(
		cfg.ProductServiceURL,
		cfg.ProductServiceAPIKey,
		cfg.ClientTimeout,
		cfg.ClientRetryAttempts,
		cfg.ClientRetryDelay,
		logger,
	)

	inventoryService := service.NewInventoryService(repo, productClient, logger)
	httpHandler := handler.NewHTTPHandler(inventoryService)

	metrics := handler.NewMetrics(prometheus.DefaultRegisterer)

	// Request ID -> access log -> metrics -> auth -> routes
	api := handler.WithRequestID(
		handler.WithAccessLog(logger,
			handler.WithHTTPMetrics(metrics,
				handler.WithAPIKeyAuth(cfg.APIKeys, httpHandler.Router()),
			),
		),
	)

	mux := http.NewServeMux()
	mux.Handle("/api/", api)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", httpHandler.HealthCheck)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("http_server_start", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		logger.Info("http_server_stopped")
	}
}
