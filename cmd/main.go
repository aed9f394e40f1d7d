package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	grpcctx "github.com/dtroode/aitoolmap-server/internal/api/grpc/context"
	"github.com/dtroode/aitoolmap-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/aitoolmap-server/internal/api/grpc/server"
	"github.com/dtroode/aitoolmap-server/internal/api/web"
	"github.com/dtroode/aitoolmap-server/internal/config"
	"github.com/dtroode/aitoolmap-server/internal/defaults"
	"github.com/dtroode/aitoolmap-server/internal/logger"
	"github.com/dtroode/aitoolmap-server/internal/model"
	"github.com/dtroode/aitoolmap-server/internal/repository/postgres"
	"github.com/dtroode/aitoolmap-server/internal/server"
	"github.com/dtroode/aitoolmap-server/internal/service"
	"github.com/dtroode/aitoolmap-server/internal/session"
	storage "github.com/dtroode/aitoolmap-server/internal/storage/minio"
	"github.com/dtroode/aitoolmap-server/internal/token"
	"github.com/dtroode/aitoolmap-server/internal/workspace"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const reapInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	sessions, err := session.NewRedisStore(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Fatal("failed to initialize session store", "error", err)
	}
	defer sessions.Close()

	// left nil when object storage is off so consumers see a nil interface
	var objectStorage model.Storage
	if cfg.Storage.Enabled {
		client, err := storage.New(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to initialize object storage", "error", err)
		}
		objectStorage = client
	}

	dataset, err := defaults.Load(ctx, objectStorage, cfg.Storage.DefaultsKey, logger)
	if err != nil {
		logger.Fatal("failed to load default dataset", "error", err)
	}

	userRepo := postgres.NewUserRepository(db)
	toolRepo := postgres.NewToolRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)

	authService := service.NewAuth(userRepo, sessions, tokenManager, cfg.Session.TTL, logger)
	libraryService := service.NewLibrary(toolRepo, dataset, logger)
	exportService := service.NewExport(libraryService, objectStorage, logger)

	registry := workspace.NewRegistry(ctx, authService, libraryService, cfg.HTTP.PageTTL, cfg.HTTP.MaxPages, logger)
	go registry.Run(ctx, reapInterval)

	handler := web.NewHandler(authService, exportService, registry, web.Options{
		GuardHome:    cfg.HTTP.GuardHome,
		SyncWait:     cfg.HTTP.SyncWait,
		SecureCookie: cfg.HTTP.EnableHTTPS,
	}, logger)
	httpServer := web.NewHTTPServer(handler.Routes(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	ctxMgr := grpcctx.NewManager()
	r := router.New(authService, libraryService, exportService, tokenManager, ctxMgr, logger)
	rpcServer := grpcServer.NewGRPCServer(r.Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))

	servers := []struct {
		server model.Server
		sl     model.SecurityLayer
	}{
		{httpServer, server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)},
		{rpcServer, server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)},
	}

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server, sl model.SecurityLayer) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}(s.server, s.sl)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.server.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.server.Address())
		}
	}
	registry.Close()

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
