package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dtroode/gophkeeper-sessions/internal/api/grpc/router"
	grpcServer "github.com/dtroode/gophkeeper-sessions/internal/api/grpc/server"
	"github.com/dtroode/gophkeeper-sessions/internal/audit"
	rediscache "github.com/dtroode/gophkeeper-sessions/internal/cache/redis"
	"github.com/dtroode/gophkeeper-sessions/internal/config"
	"github.com/dtroode/gophkeeper-sessions/internal/logger"
	"github.com/dtroode/gophkeeper-sessions/internal/metrics"
	"github.com/dtroode/gophkeeper-sessions/internal/model"
	"github.com/dtroode/gophkeeper-sessions/internal/repository/postgres"
	"github.com/dtroode/gophkeeper-sessions/internal/server"
	"github.com/dtroode/gophkeeper-sessions/internal/service"
	storage "github.com/dtroode/gophkeeper-sessions/internal/storage/minio"
	"github.com/dtroode/gophkeeper-sessions/internal/token"

	authmodel "github.com/dtroode/gophkeeper-auth/model"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db.DB)
	signupRepo := postgres.NewSignupRepository(db.DB)
	loginRepo := postgres.NewLoginRepository(db.DB)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db.DB)

	redisClient, err := rediscache.NewClient(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("failed to initialize cache", "error", err)
	}
	defer redisClient.Close()
	cache := rediscache.NewCache(redisClient, cfg.Redis.KeyPrefix)
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("cache is unreachable, continuing with durable store only", "error", err)
	}

	signer, err := token.NewJWT(token.Options{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessExpiresIn,
		RefreshTTL:    cfg.JWT.RefreshExpiresIn,
	})
	if err != nil {
		logger.Fatal("failed to initialize signer", "error", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	opts := []service.SessionOption{
		service.WithTimeouts(cfg.Session.CacheTimeout, cfg.Session.StoreTimeout),
		service.WithRecorder(m),
		service.WithRevokeAllOnReuse(cfg.Session.RevokeAllOnReuse),
	}

	if cfg.Storage.Enabled {
		minioClient, err := storage.Dial(storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Fatal("failed to create minio client", "error", err)
		}
		storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
		if err != nil {
			logger.Fatal("failed to initialize storage client", "error", err)
		}
		opts = append(opts, service.WithReuseReporter(audit.NewArchive(storageClient, logger)))
	}

	sessionService := service.NewSessionService(signer, refreshTokenRepo, cache, userRepo, logger, opts...)

	kdf := authmodel.NewKDFParams(cfg.KDF.Time, cfg.KDF.MemKiB, cfg.KDF.Par)
	authService := service.NewAuth(userRepo, signupRepo, loginRepo, sessionService, logger, kdf)

	r := router.New(authService, sessionService, logger)
	grpcServer := grpcServer.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	var sl model.SecurityLayer

	if cfg.GRPC.EnableHTTPS {
		sl, err = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
		if err != nil {
			logger.Fatal("failed to initialize TLS", "error", err)
		}
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(grpcServer)

	var metricsServer *http.Server
	if cfg.Metrics.Addr != "" {
		metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metrics.Handler(prometheus.DefaultGatherer),
			ReadHeaderTimeout: 5 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting metrics server on", "address", metricsServer.Addr)
			err := metricsServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to start metrics server", "error", err)
			}
		}()
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	r.Shutdown()
	if err := grpcServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", grpcServer.Address())
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during metrics server shutdown", "error", err, "address", metricsServer.Addr)
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
