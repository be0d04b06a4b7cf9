// Package server initializes and runs the examkeeper server: the gRPC API
// for workbooks and authentication and the ops HTTP endpoint. It opens the
// database, applies migrations, seeds the catalog and handles graceful
// shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/auth"
	"github.com/dmitrijs2005/examkeeper/internal/server/catalog"
	"github.com/dmitrijs2005/examkeeper/internal/server/config"
	"github.com/dmitrijs2005/examkeeper/internal/server/credentials"
	"github.com/dmitrijs2005/examkeeper/internal/server/ops"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/examkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/examkeeper/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	closers    []io.Closer
	grpcServer *gs.GRPCServer
	opsServer  *ops.Server
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func newCredentialStore(ctx context.Context, c *config.Config) (credentials.Store, io.Closer, error) {
	opts := credentials.Options{
		TokenValidity:   c.TokenValidityDuration,
		VoucherValidity: c.VoucherValidityDuration,
		Predefined: credentials.PredefinedToken{
			Enabled:   c.PredefinedTokenEnabled,
			Payload:   c.PredefinedTokenPayload,
			AccountID: c.PredefinedTokenAccountID,
		},
		Signer: auth.NewVoucherSigner([]byte(c.SecretKey)),
	}

	switch c.CredentialsBackend {
	case config.CredentialsBackendMemory, "":
		return credentials.NewMemoryStore(opts), nil, nil
	case config.CredentialsBackendRedis:
		s, err := credentials.NewRedisStore(ctx, c.RedisAddr, c.RedisPassword, opts)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unsupported credentials backend: %q", c.CredentialsBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(parseLevel(c.LogLevel))

	db, err := dbx.Open(ctx, dbx.Driver(c.DatabaseDriver), c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app := &App{config: c, logger: logger, db: db}

	if err := app.init(ctx); err != nil {
		app.close(ctx)
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	repos, err := repomanager.NewSQLRepositoryManager(dbx.Driver(c.DatabaseDriver))
	if err != nil {
		return err
	}
	if err := repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if c.CatalogFile != "" {
		if err := catalog.NewSeeder(app.db, repos, app.logger).SeedFile(ctx, c.CatalogFile); err != nil {
			return err
		}
	}

	store, closer, err := newCredentialStore(ctx, c)
	if err != nil {
		return fmt.Errorf("credentials init error: %w", err)
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	if c.PredefinedTokenEnabled {
		app.logger.Warn(ctx, "predefined token is enabled", "account_id", c.PredefinedTokenAccountID)
	}

	var images services.ImageURLSigner
	if presigner, err := services.NewS3ImagePresigner(ctx, c); err != nil {
		app.logger.Warn(ctx, "image URLs disabled", "error", err)
	} else {
		images = presigner
	}

	ws := services.NewWorkbookService(
		repomanager.NewTxWorkbooks(app.db, repos),
		repos.Specializations(app.db),
		repos.Problems(app.db),
		images,
		c,
		app.logger,
	)
	as := services.NewAuthService(
		repos.Accounts(app.db),
		auth.NewBcryptHasher(0),
		store,
		services.NewLogVoucherNotifier(app.logger),
		app.logger,
	)

	app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, app.logger, as, ws)
	app.opsServer = ops.NewServer(c.EndpointAddrHTTP, app.db, app.logger)
	return nil
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

// runServer runs one of the servers; a failure stops the whole app.
func (app *App) runServer(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, err.Error(), "server", name)
		cancelFunc()
	}
}

func (app *App) close(ctx context.Context) {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Error(ctx, "close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "ops", app.opsServer.Run)
	}()

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}
