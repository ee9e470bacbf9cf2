// Package server wires configuration, storage, services and transports into
// a runnable application and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophbank/internal/logging"
	"github.com/dmitrijs2005/gophbank/internal/server/auth"
	"github.com/dmitrijs2005/gophbank/internal/server/config"
	"github.com/dmitrijs2005/gophbank/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophbank/internal/server/rest"
	"github.com/dmitrijs2005/gophbank/internal/server/services"

	gs "github.com/dmitrijs2005/gophbank/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	httpServer  *rest.Server
	grpcServer  *gs.GRPCServer
}

// NewApp opens and migrates the store and builds both transports. The
// caller must Run the app, which closes the store on exit.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	rm, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	key, err := auth.SigningKeyFromConfig(c.SecretKey)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("signing key error: %w", err)
	}
	if c.SecretKey == "" {
		logger.Warn(ctx, "no secret key configured, tokens will not survive a restart")
	}

	hasher, err := auth.NewHasher(c.HashScheme)
	if err != nil {
		_ = rm.Close()
		return nil, err
	}

	tokens := auth.NewTokenManager(key)
	ps := services.NewPrincipalService(rm, tokens, hasher, c.AccessTokenValidityDuration)
	ts := services.NewTransactionService(rm)

	h := rest.NewHandler(ps, ts, rm, logger)
	router := rest.NewRouter(h, tokens, ps, c.CORSAllowedOrigins, logger)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		httpServer:  rest.NewServer(c.EndpointAddrHTTP, router, logger),
		grpcServer:  gs.NewGRPCServer(c.EndpointAddrGRPC, logger, rm),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled. A
// failing transport brings the other one down too.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"http", app.config.EndpointAddrHTTP,
		"grpc", app.config.EndpointAddrGRPC,
		"driver", app.config.DatabaseDriver,
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
}
