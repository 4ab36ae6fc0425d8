package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"fbauth.dev/internal/auth"
	"fbauth.dev/internal/config"
	"fbauth.dev/internal/facebook"
	"fbauth.dev/internal/httpapi"
	"fbauth.dev/internal/obs"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		obs.Logger().Fatal("load config", zap.Error(err))
	}
	logger, err := obs.NewLogger(cfg.LogLevel)
	if err != nil {
		obs.Logger().Fatal("build logger", zap.Error(err))
	}
	obs.SetLogger(logger)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	obs.Init()
	build := obs.InitBuildInfo(version, commit)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	accounts := auth.NewPGStore(db)
	issuer, err := auth.NewJWTIssuer(cfg.TokenSecret, auth.WithIssuerName(cfg.TokenIssuer))
	if err != nil {
		logger.Fatal("token issuer", zap.Error(err))
	}
	provider := facebook.New(
		facebook.WithGraphURL(cfg.FacebookGraphURL),
		facebook.WithAppCredentials(cfg.FacebookAppID, cfg.FacebookAppSecret),
		facebook.WithHTTPClient(&http.Client{Timeout: cfg.FacebookTimeout}),
	)
	authenticator, err := auth.NewAuthenticator(provider, accounts, issuer, auth.WithTokenExpiration(cfg.TokenTTL))
	if err != nil {
		logger.Fatal("authenticator", zap.Error(err))
	}

	probe := httpapi.ReadyProbe{DB: db}
	api := httpapi.New(probe, version, authenticator, issuer, accounts,
		httpapi.WithCORSOrigins(cfg.CORSOrigins...),
		httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, httpapi.NewHealthServer(probe))
	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("grpc listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}

	logger.Info("starting fbauth-api",
		zap.String("version", build.Version),
		zap.String("commit", build.Commit),
		zap.String("http_addr", srv.Addr),
		zap.String("grpc_addr", cfg.GRPCAddr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http listen", zap.Error(err))
		}
	}()
	go func() {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Fatal("grpc serve", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	grpcServer.GracefulStop()
	_ = db.Close()
	logger.Info("stopped")
}
