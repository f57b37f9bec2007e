package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/social/api/handler"
	"github.com/fastygo/social/internal/config"
	"github.com/fastygo/social/internal/infrastructure/buffer"
	"github.com/fastygo/social/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/social/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/social/internal/infrastructure/redis"
	"github.com/fastygo/social/internal/middleware"
	"github.com/fastygo/social/internal/router"
	"github.com/fastygo/social/internal/services"
	"github.com/fastygo/social/internal/services/lifecycle"
	"github.com/fastygo/social/pkg/httpcontext"
	"github.com/fastygo/social/pkg/logger"
	"github.com/fastygo/social/pkg/token"
	"github.com/fastygo/social/repository"
	"github.com/fastygo/social/repository/boltdb"
	"github.com/fastygo/social/repository/document"
	"github.com/fastygo/social/repository/postgres"
	redisRepo "github.com/fastygo/social/repository/redis"
	authUC "github.com/fastygo/social/usecase/auth"
	conversationUC "github.com/fastygo/social/usecase/conversation"
	"github.com/fastygo/social/usecase/engagement"
	groupUC "github.com/fastygo/social/usecase/group"
	profileUC "github.com/fastygo/social/usecase/profile"
	"github.com/fastygo/social/usecase/relationship"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store := openStore(appCtx, cfg, manager, zapLogger)

	redisClient, err := redisInfra.NewSessionCache(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.RegisterCloser("redis", redisClient)

	repairStore, err := buffer.Open(cfg.Repair.Path, cfg.Repair.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open repair queue", zap.Error(err))
	}
	manager.RegisterCloser("repair_queue", repairStore)

	mon := monitor.New(
		store,
		monitor.PingFunc(redisInfra.HealthCheck(redisClient)),
		repairStore,
		cfg.Monitor.Interval,
		zapLogger,
	)
	mon.Start()
	manager.RegisterStop("monitor", mon.Stop)

	accounts := document.NewAccountRepository(store)
	profiles := document.NewProfileRepository(store)
	groups := document.NewGroupRepository(store)
	posts := document.NewPostRepository(store)
	conversations := document.NewConversationRepository(store)
	sessions := redisRepo.NewSessionRepository(redisClient, cfg.JWT.TTL)

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	policy := cfg.RetryPolicy()

	engine := relationship.New(profiles, services.NewRepairBridge(repairStore, zapLogger), zapLogger,
		relationship.WithRetryPolicy(policy))

	repairProcessor := services.NewRepairProcessor(repairStore, mon, engine, zapLogger, cfg.ProcessorConfig())
	if cfg.Repair.ReviveOnStart {
		if _, err := repairProcessor.Revive(); err != nil {
			zapLogger.Error("failed to revive dead-letter edge changes", zap.Error(err))
		}
	}
	repairProcessor.Start()
	manager.Register("repair_processor", func(ctx context.Context) error {
		repairProcessor.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(accounts, sessions, tokens, zapLogger)
	profileUseCase := profileUC.New(profiles, accounts, policy, zapLogger)
	groupUseCase := groupUC.New(groups, accounts, policy, zapLogger)
	ledger := engagement.New(posts, accounts, policy, zapLogger)
	conversationUseCase := conversationUC.New(conversations, accounts, policy, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:      apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Relationship: apiHandler.NewRelationshipHandler(engine, ctxAdapter, zapLogger),
		Group:        apiHandler.NewGroupHandler(groupUseCase, ctxAdapter, zapLogger),
		Post:         apiHandler.NewPostHandler(ledger, ctxAdapter, zapLogger),
		Conversation: apiHandler.NewConversationHandler(conversationUseCase, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(tokens, authUseCase, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxConnsPerIP:      cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
		MaxRequestBodySize: 1 << 20,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openStore connects the configured aggregate store and registers its shutdown.
func openStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) repository.AggregateStore {
	switch cfg.Storage.Driver {
	case config.StorageBolt:
		store, err := boltdb.Open(cfg.Storage.BoltPath)
		if err != nil {
			zapLogger.Fatal("failed to open bolt store", zap.Error(err))
		}
		manager.RegisterCloser("bolt_store", store)
		zapLogger.Info("using embedded aggregate store", zap.String("path", cfg.Storage.BoltPath))
		return store
	default:
		if err := pgInfra.RunMigrations(cfg.Database, cfg.Migrations, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewAggregatePool(ctx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.RegisterStop("postgres", func() { pgInfra.CloseAggregatePool(pool, zapLogger) })
		return postgres.NewAggregateStore(pool)
	}
}
