package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/peerassist/backend/api/handler"
	"github.com/peerassist/backend/internal/config"
	"github.com/peerassist/backend/internal/infrastructure/monitor"
	pgInfra "github.com/peerassist/backend/internal/infrastructure/postgres"
	redisInfra "github.com/peerassist/backend/internal/infrastructure/redis"
	"github.com/peerassist/backend/internal/mail"
	"github.com/peerassist/backend/internal/middleware"
	"github.com/peerassist/backend/internal/outbox"
	"github.com/peerassist/backend/internal/router"
	"github.com/peerassist/backend/internal/services"
	"github.com/peerassist/backend/internal/services/lifecycle"
	"github.com/peerassist/backend/pkg/httpcontext"
	"github.com/peerassist/backend/pkg/logger"
	"github.com/peerassist/backend/repository/postgres"
	redisRepo "github.com/peerassist/backend/repository/redis"
	applicationUC "github.com/peerassist/backend/usecase/application"
	authUC "github.com/peerassist/backend/usecase/auth"
	completionUC "github.com/peerassist/backend/usecase/completion"
	profileUC "github.com/peerassist/backend/usecase/profile"
	taskUC "github.com/peerassist/backend/usecase/task"
	"github.com/peerassist/backend/usecase/taskview"
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

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	outboxStore, err := outbox.Open(cfg.Outbox.Path, "outbox")
	if err != nil {
		zapLogger.Fatal("failed to open mail outbox", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	mon := monitor.New(pool, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)
	resetRepo := redisRepo.NewResetRepository(redisClient)

	sender := mail.NewSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	dispatcher := services.NewMailDispatcher(outboxStore, sender, zapLogger, services.DispatcherConfig{
		Interval:   cfg.Outbox.SyncInterval,
		BatchSize:  cfg.Outbox.BatchSize,
		MaxRetries: cfg.Outbox.MaxRetry,
	})
	dispatcher.Start()
	manager.Register("mail_dispatcher", func(ctx context.Context) error {
		dispatcher.Stop(ctx)
		return nil
	})

	reclaimer := services.NewReclaimer(taskRepo, zapLogger, services.ReclaimerConfig{
		Interval: cfg.Completion.ReclaimEvery,
		Grace:    cfg.Completion.ReclaimGrace,
	})
	reclaimer.Start()
	manager.Register("reclaimer", func(ctx context.Context) error {
		reclaimer.Stop(ctx)
		return nil
	})

	notifier := services.NewOutboxNotifier(dispatcher)

	authUseCase := authUC.New(userRepo, sessionRepo, resetRepo, notifier, zapLogger, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.SessionTTL, cfg.JWT.ResetTTL)
	profileUseCase := profileUC.New(userRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)
	viewUseCase := taskview.New(taskRepo, userRepo, zapLogger)
	applicationUseCase := applicationUC.New(taskRepo, notifier, zapLogger)
	completionUseCase := completionUC.New(taskRepo, userRepo, notifier, zapLogger, cfg.Completion.CodeTTL)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:        apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile:     apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Task:        apiHandler.NewTaskHandler(taskUseCase, viewUseCase, ctxAdapter, zapLogger),
		Application: apiHandler.NewApplicationHandler(applicationUseCase, ctxAdapter, zapLogger),
		Completion:  apiHandler.NewCompletionHandler(completionUseCase, ctxAdapter, zapLogger),
		Health:      apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
