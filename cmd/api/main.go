package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "go-convo/cmd/api/router/v1"
	"go-convo/internal/config"
	cacheAdapter "go-convo/internal/infrastructure/cache/adapter"
	cacheport "go-convo/internal/infrastructure/cache/port"
	"go-convo/internal/infrastructure/database"
	"go-convo/internal/infrastructure/logger"
	queueAdapter "go-convo/internal/infrastructure/queue/adapter"
	qport "go-convo/internal/infrastructure/queue/port"
	"go-convo/internal/infrastructure/realtime"
	"go-convo/internal/pkg/auth"
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/task"
	"go-convo/internal/pkg/chat/application/usecase"
	repoAdapter "go-convo/internal/pkg/chat/persistence/repository/adapter"
	"go-convo/internal/pkg/chat/presentation/controller"
	"go-convo/internal/pkg/identity"
	userAdapter "go-convo/internal/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLog); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
	appLog.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, appLog *logger.Logger) error {
	// Connect to the database and apply the schema on startup
	dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := database.Connect(dbCtx, cfg.DBURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := database.Migrate(dbCtx, pool); err != nil {
		return err
	}

	codec, err := identity.NewCodec(cfg.RemoteIDSecret)
	if err != nil {
		return err
	}
	authn, err := auth.NewAuthenticator(cfg.JWTSecret, codec)
	if err != nil {
		return err
	}

	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = uuid.NewString()
	}

	// Redis backs the directory cache, the cross-node bus and the task queue. Without it
	// everything runs in-process.
	var (
		cache       cacheport.Cache
		queueClient qport.Client
		queueServer qport.Server
		dispatchOps []realtime.DispatcherOption
	)
	if cfg.RedisURL != "" {
		rdb, err := cacheAdapter.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = cacheAdapter.NewRedisCache(rdb)

		bus, err := realtime.NewRedisBus(rdb, cfg.RealtimeChannel, appLog)
		if err != nil {
			return err
		}
		defer bus.Close()
		dispatchOps = append(dispatchOps, realtime.WithBus(bus, nodeID))

		client, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		server, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, cfg.AsynqQueues, appLog)
		if err != nil {
			return err
		}
		queueClient, queueServer = client, server
	} else {
		appLog.Warn("REDIS_URL not set; running cache, queue and realtime fan-out in-process")
		memCache, err := cacheAdapter.NewMemoryCache()
		if err != nil {
			return err
		}
		defer memCache.Close()
		cache = memCache
		inline := queueAdapter.NewInlineQueue()
		queueClient, queueServer = inline, inline
	}

	registry := realtime.NewRegistry(appLog.With("component", "realtime"))
	dispatcher := realtime.NewDispatcher(registry, appLog.With("component", "dispatcher"), dispatchOps...)

	deps := usecase.Deps{
		Repo:      repoAdapter.NewPgChatRepository(pool),
		Users:     userAdapter.NewCachedUserRepository(userAdapter.NewPgUserRepository(pool), cache, cfg.DirectoryCacheTTL, appLog),
		Publisher: dispatcher,
		Clock:     chat.NewMonotonicClock(),
		Codec:     codec,
		Settings: chat.Settings{
			JoinNotificationThreshold: cfg.JoinNotificationThreshold,
			DisplayNameParticipants:   cfg.DisplayNameParticipants,
			ParticipantPageSize:       cfg.ParticipantPageSize,
		},
		Log: appLog.With("component", "chat"),
	}
	task.RegisterPostMessagesTask(queueServer, usecase.NewPostMessagesUseCase(deps))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.GinMiddleware(appLog), gin.Recovery())
	r.GET("/", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK", "node": nodeID})
	})
	v1.RegisterRoutes(r, controller.Env{Deps: deps, Timeout: cfg.RequestTimeout}, authn, queueClient, registry)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error { return queueServer.Run(gctx) })
	g.Go(func() error {
		appLog.Info("http server listening", "addr", cfg.HTTPAddr, "node", nodeID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		registry.Close()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
