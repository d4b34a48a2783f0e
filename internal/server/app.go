// Package server wires the gophauth server together: storage, token and
// password primitives, services, the gRPC endpoint, the metrics endpoint
// and the session sweeper. It also handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/dmitrijs2005/gophauth/internal/server/sweeper"
	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	redis         redis.UniversalClient
	grpcServer    *gs.GRPCServer
	metricsServer *metrics.Server
	sweeper       *sweeper.Sweeper
}

// connectBackoff controls how long startup waits for the database.
var connectBackoff = func() retry.Backoff {
	return retry.WithMaxRetries(6, retry.NewExponential(500*time.Millisecond))
}

// pingWithRetry calls ping until it succeeds or the backoff gives up.
func pingWithRetry(ctx context.Context, b retry.Backoff, ping func(context.Context) error) error {
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := pingWithRetry(ctx, connectBackoff(), db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var opts []repomanager.Option
	if c.SessionBackend == config.SessionBackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err := pingWithRetry(ctx, connectBackoff(), func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}); err != nil {
			app.close()
			_ = client.Close()
			return nil, fmt.Errorf("redis connect error: %w", err)
		}
		app.redis = client
		opts = append(opts, repomanager.WithRedisSessions(client))
	}

	rm := repomanager.NewPostgresRepositoryManager(opts...)
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	app.metricsServer = metrics.NewServer(c.EndpointAddrMetrics, app.health, logger)

	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	hasher := auth.NewBcryptHasher(c.BcryptCost)

	as := services.NewAuthService(db, rm, tokens, hasher, logger)
	is := services.NewIdentityService(db, rm, hasher, services.NewGuard(logger), logger)

	app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, is, tokens, app.metricsServer.Metrics())
	app.sweeper = sweeper.New(rm.Sessions(db), c.SweepInterval, app.metricsServer.Metrics(), logger)

	logger.Info(ctx, "App initialized", "session_backend", c.SessionBackend)
	return app, nil
}

func (app *App) health(ctx context.Context) error {
	if err := app.db.PingContext(ctx); err != nil {
		return err
	}
	if app.redis != nil {
		return app.redis.Ping(ctx).Err()
	}
	return nil
}

func (app *App) close() {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		app.logger.Error(context.Background(), "closing resources", "error", err)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run starts every component and blocks until a signal arrives or one of
// the servers fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := app.grpcServer.Run(ctx); err != nil {
			app.logger.Error(ctx, "grpc server stopped", "error", err)
			cancelFunc()
		}
	}()
	go func() {
		defer wg.Done()
		if err := app.metricsServer.Run(ctx); err != nil {
			app.logger.Error(ctx, "metrics server stopped", "error", err)
			cancelFunc()
		}
	}()
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
}
