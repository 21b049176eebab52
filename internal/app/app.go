package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Michael-Parekh/proshop/internal/auth"
	"github.com/Michael-Parekh/proshop/internal/config"
	"github.com/Michael-Parekh/proshop/internal/event"
	handler "github.com/Michael-Parekh/proshop/internal/handler/http"
	"github.com/Michael-Parekh/proshop/internal/payment"
	"github.com/Michael-Parekh/proshop/internal/payment/paypal"
	"github.com/Michael-Parekh/proshop/internal/repository/mongodb"
	"github.com/Michael-Parekh/proshop/internal/repository/rediscache"
	"github.com/Michael-Parekh/proshop/internal/service"
	"github.com/Michael-Parekh/proshop/internal/storage/disk"
	"github.com/Michael-Parekh/proshop/pkg/database"
	"github.com/Michael-Parekh/proshop/pkg/health"
	"github.com/Michael-Parekh/proshop/pkg/httpclient"
	pkgkafka "github.com/Michael-Parekh/proshop/pkg/kafka"
	"github.com/Michael-Parekh/proshop/pkg/middleware"
	"github.com/Michael-Parekh/proshop/pkg/tracing"
)

const topProductsCacheTTL = 60 * time.Second

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	db             *mongo.Database
	redisClient    *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "proshop",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Connect to MongoDB.
	db, err := database.NewMongoDatabase(ctx, database.DefaultMongoConfig(cfg.MongoURI, cfg.MongoDB))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	logger.Info("connected to MongoDB", slog.String("database", cfg.MongoDB))

	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure user indexes: %w", err)
	}
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure order indexes: %w", err)
	}

	// Optional Redis cache for the top products listing. The service runs
	// fine without it.
	var redisClient *redis.Client
	var productCache service.ProductCache
	if cfg.RedisEnabled {
		redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		productCache = rediscache.NewProductCache(redisClient, topProductsCacheTTL)
		logger.Info("connected to Redis", slog.String("host", cfg.RedisHost))
	}

	// Optional Kafka producer for domain events.
	var producer *pkgkafka.Producer
	var eventProducer *event.Producer
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		eventProducer = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Optional PayPal verification. Without credentials the pay endpoint
	// trusts the client-supplied payment result, matching sandbox behavior.
	var provider payment.Provider
	if cfg.PayPalSecret != "" && cfg.PayPalAPIBase != "" {
		client := httpclient.New(httpclient.DefaultConfig())
		cbClient := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("paypal"), logger)
		provider = paypal.NewProvider(paypal.Config{
			APIBase:  cfg.PayPalAPIBase,
			ClientID: cfg.PayPalClientID,
			Secret:   cfg.PayPalSecret,
		}, cbClient, logger)
		logger.Info("paypal verification enabled", slog.String("api_base", cfg.PayPalAPIBase))
	}

	// Local disk storage for product images, served under /uploads.
	store, err := disk.New(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	// Build the dependency graph.
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepo, tokens, eventProducer, logger)
	productService := service.NewProductService(productRepo, userRepo, productCache, eventProducer, logger)
	orderService := service.NewOrderService(orderRepo, provider, eventProducer, logger)
	uploadService := service.NewUploadService(store, logger)

	validate := newTokenValidator(tokens, userRepo)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("mongo", func(ctx context.Context) error {
		return db.Client().Ping(ctx, readpref.Primary())
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(handler.RouterConfig{
		UserService:    userService,
		ProductService: productService,
		OrderService:   orderService,
		UploadService:  uploadService,
		TokenValidator: validate,
		HealthHandler:  healthHandler,
		Logger:         logger,
		CORS:           corsCfg,
		PayPalClientID: cfg.PayPalClientID,
		UploadDir:      cfg.UploadDir,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("environment", a.cfg.Environment),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client
// 5. MongoDB client
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer mongoCancel()
	if err := database.CloseMongo(mongoCtx, a.db); err != nil {
		a.logger.Error("mongo disconnect error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application stopped")
	return errors.Join(errs...)
}
