package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Supraja1508/Backend/handlers"
	"github.com/Supraja1508/Backend/internal/collections"
	"github.com/Supraja1508/Backend/internal/config"
	"github.com/Supraja1508/Backend/internal/database"
	"github.com/Supraja1508/Backend/internal/document/handler"
	"github.com/Supraja1508/Backend/internal/document/modelcache"
	"github.com/Supraja1508/Backend/internal/document/repository"
	"github.com/Supraja1508/Backend/internal/document/service"
	"github.com/Supraja1508/Backend/internal/export"
	"github.com/Supraja1508/Backend/internal/oidc"
	"github.com/Supraja1508/Backend/internal/revocation"
	"github.com/Supraja1508/Backend/internal/storage"
	"github.com/Supraja1508/Backend/internal/tokens"
	"github.com/Supraja1508/Backend/pkg/logger"
	"github.com/Supraja1508/Backend/pkg/metrics"
	"github.com/Supraja1508/Backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL is read before config so config loading itself can log
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)
	logger.Infof("config loaded: keycloak=%v mongo=%v redis=%v minio=%v", cfg.Keycloak.IssuerURL() != "", cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.MinIO.Endpoint != "")

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx := context.Background()
	var checks []handlers.Check

	r := gin.New()
	r.Use(middleware.CORS(cfg.Server.CORSOrigin), middleware.RequestLogger(), gin.Recovery())

	// Redis is optional: it backs token revocation and the shared rate limiter.
	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
		} else {
			logger.Infof("connected to Redis at %s", addr)
		}
	}
	revoked := revocation.NewStore(rdb)
	if revoked.Enabled() {
		checks = append(checks, handlers.Check{Name: "redis", Ping: revoked.Ping})
	}

	// storage: Mongo when configured, in-memory otherwise
	var collRepo collections.Repository = collections.NewMemoryRepository()
	var store repository.Store = repository.NewMemoryStore()
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectWithRetry(ctx, 5, time.Second, func(ctx context.Context) (*mongo.Client, error) {
			return database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		})
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		collRepo = collections.NewMongoRepository(client.Database(cfg.MongoDB.Database).Collection("collections"))
		store = repository.NewMongoStore(client.Database(cfg.MongoDB.DocumentsDatabase))
		checks = append(checks, handlers.Check{Name: "mongo", Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}})
		logger.Infof("using MongoDB databases %s and %s", cfg.MongoDB.Database, cfg.MongoDB.DocumentsDatabase)
	}

	collSvc := collections.NewService(collRepo)
	models := modelcache.New(store, modelcache.ParseKeyMode(cfg.Documents.CacheKey))
	opts := []service.Option{service.WithDefaultLimit(cfg.Documents.DefaultLimit)}

	if cfg.MinIO.Endpoint != "" {
		objects, err := storage.NewBucket(ctx, cfg.MinIO)
		if err != nil {
			logger.Warnf("export disabled: %v", err)
		} else {
			opts = append(opts, service.WithExporter(export.New(objects, cfg.Documents.ExportTTL)))
			checks = append(checks, handlers.Check{Name: "minio", Ping: objects.Ping})
		}
	}
	docSvc := service.New(collSvc, models, opts...)

	verifier := buildVerifier(ctx, cfg)

	handlers.RegisterSystem(r, startTime, checks...)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/", middleware.AuthMiddleware(verifier, revoked))
	// limited after auth so buckets are per principal
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			api.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	handlers.NewAuthHandler(revoked, cfg.JWT.AccessTokenTTL).Register(api)
	handler.New(collSvc, docSvc, models).Register(api)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting ddmp server on %s (model cache keyed by %s)", srv.Addr, modelcache.ParseKeyMode(cfg.Documents.CacheKey))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

// buildVerifier chains every configured token source. With none configured
// the chain rejects all tokens.
func buildVerifier(ctx context.Context, cfg *config.Config) middleware.Verifier {
	var chain oidc.Chain
	if cfg.JWT.Secret != "" {
		chain = append(chain, tokens.NewHMACVerifier(cfg.JWT.Secret))
	}
	if issuer := cfg.Keycloak.IssuerURL(); issuer != "" && cfg.Keycloak.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, issuer, cfg.Keycloak.ClientID)
		if err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			chain = append(chain, ver)
		}
	}
	// integration mode only: claims are read without signature checks
	if strings.EqualFold(strings.TrimSpace(os.Getenv("ALLOW_INSECURE_TOKEN")), "true") && cfg.Server.Environment == "development" {
		logger.Warn("enabling insecure token verifier (integration mode)")
		chain = append(chain, oidc.NewInsecureVerifier())
	}
	return chain
}
