package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/focusflow/backend/api/handler"
	"github.com/focusflow/backend/internal/config"
	mongoInfra "github.com/focusflow/backend/internal/infrastructure/mongo"
	"github.com/focusflow/backend/internal/infrastructure/monitor"
	"github.com/focusflow/backend/internal/infrastructure/outbox"
	redisInfra "github.com/focusflow/backend/internal/infrastructure/redis"
	"github.com/focusflow/backend/internal/middleware"
	"github.com/focusflow/backend/internal/router"
	"github.com/focusflow/backend/internal/services"
	"github.com/focusflow/backend/internal/services/lifecycle"
	"github.com/focusflow/backend/pkg/httpcontext"
	"github.com/focusflow/backend/pkg/logger"
	"github.com/focusflow/backend/pkg/mail"
	mongoRepo "github.com/focusflow/backend/repository/mongo"
	redisRepo "github.com/focusflow/backend/repository/redis"
	authUC "github.com/focusflow/backend/usecase/auth"
	profileUC "github.com/focusflow/backend/usecase/profile"
	taskUC "github.com/focusflow/backend/usecase/task"
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

	mongoClient, database, err := mongoInfra.Connect(appCtx, cfg.Mongo, zapLogger)
	if err != nil {
		zapLogger.Fatal("mongodb connection failed", zap.Error(err))
	}
	manager.Register("mongodb", func(ctx context.Context) error {
		return mongoClient.Disconnect(ctx)
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	outboxStore, err := outbox.Open(cfg.Outbox.Path, "mail")
	if err != nil {
		zapLogger.Fatal("failed to open mail outbox", zap.Error(err))
	}
	manager.Register("outbox", func(ctx context.Context) error {
		return outboxStore.Close()
	})

	mon := monitor.New(mongoClient, redisClient, outboxStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := mongoRepo.NewUserRepository(database)
	taskRepo := mongoRepo.NewTaskRepository(database)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)
	tokenRepo := redisRepo.NewTokenRepository(redisClient, cfg.Mail.TokenTTL)

	sender, err := mail.NewMailgunSender(mail.MailgunConfig{
		Domain: cfg.Mail.MailgunDomain,
		APIKey: cfg.Mail.MailgunAPIKey,
		From:   cfg.Mail.From,
	})
	if err != nil {
		zapLogger.Fatal("mail provider configuration failed", zap.Error(err))
	}

	mailProcessor := services.NewMailProcessor(
		outboxStore,
		mon,
		sender,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Outbox.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Outbox.MaxRetry,
			Retention:  cfg.Outbox.Retention,
		},
	)
	mailProcessor.Start()
	manager.Register("mail_processor", func(ctx context.Context) error {
		mailProcessor.Stop(ctx)
		return nil
	})

	mailer := services.NewMailBridge(outboxStore)

	authUseCase := authUC.New(userRepo, sessionRepo, tokenRepo, mailer, zapLogger, authUC.Config{
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
		SessionTTL: cfg.JWT.SessionTTL,
		TokenTTL:   cfg.Mail.TokenTTL,
		LinkBase:   cfg.Mail.LinkBase,
	})
	profileUseCase := profileUC.New(userRepo, sessionRepo, tokenRepo, authUseCase, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Auth(cfg.JWT.Secret, authUseCase, zapLogger)
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
