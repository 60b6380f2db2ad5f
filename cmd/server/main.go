package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/wealthflow-ledger/internal/adapter/grpc"
	httpadapter "github.com/simaogato/wealthflow-ledger/internal/adapter/http"
	"github.com/simaogato/wealthflow-ledger/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthflow-ledger/internal/app"
	"github.com/simaogato/wealthflow-ledger/internal/config"
	"github.com/simaogato/wealthflow-ledger/internal/usecase/seeder"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&serveCmd{}, "")
	commander.Register(&migrateCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// setup loads the configuration, builds the logger and opens the database
func setup(configPath string) (*config.Config, *logrus.Logger, *postgres.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := config.NewLogger(cfg.Logging)

	opts := postgres.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.Lifetime(),
	}

	// Postgres may still be starting when running under compose
	var db *postgres.DB
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = postgres.NewDB(cfg.Database.ConnectionString(), opts)
		if err == nil {
			break
		}
		logger.WithError(err).WithField("attempt", attempt).Warn("database not ready")
		time.Sleep(connectBackoff)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, logger, db, nil
}

// --- migrateCmd ---

type migrateCmd struct {
	configPath string
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "applies the database schema and exits" }
func (*migrateCmd) Usage() string {
	return `migrate [-config <file>]

Creates the ledger tables and the default asset types. Safe to run repeatedly.
`
}

func (c *migrateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to the TOML configuration file")
}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, logger, db, err := setup(c.configPath)
	if err != nil {
		logrus.WithError(err).Error("failed to start")
		return subcommands.ExitFailure
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.WithError(err).Error("migration failed")
		return subcommands.ExitFailure
	}

	logger.Info("schema applied")
	return subcommands.ExitSuccess
}

// --- serveCmd ---

type serveCmd struct {
	configPath string
	migrate    bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "runs the gRPC and HTTP ledger servers" }
func (*serveCmd) Usage() string {
	return `serve [-config <file>] [-migrate]

Serves LedgerService over gRPC and the JSON API over HTTP until SIGINT or SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to the TOML configuration file")
	f.BoolVar(&c.migrate, "migrate", true, "apply the schema before serving")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// 1. Setup configuration, logging and database
	cfg, logger, db, err := setup(c.configPath)
	if err != nil {
		logrus.WithError(err).Error("failed to start")
		return subcommands.ExitFailure
	}
	defer db.Close()

	if c.migrate {
		if err := db.Migrate(ctx); err != nil {
			logger.WithError(err).Error("migration failed")
			return subcommands.ExitFailure
		}
	}

	// 2. Initialize repositories (Postgres)
	assetTypes := postgres.NewAssetTypeRegistry(db, cfg.Cache.TTL())
	repos := postgres.NewRepositories(db, assetTypes)
	uow := postgres.NewUnitOfWork(db, assetTypes)

	// Provision system categories before serving
	categories, err := seeder.NewSystemSeeder(repos.Categories).Seed(ctx)
	if err != nil {
		logger.WithError(err).Error("failed to seed system categories")
		return subcommands.ExitFailure
	}
	logger.WithField("count", len(categories)).Info("system categories seeded")

	// 3. Initialize services (use cases)
	services := app.NewServices(repos, uow, logger)

	// 4. Start the gRPC and HTTP servers whose addresses are set
	errCh := make(chan error, 2)
	srv := &servers{logger: logger}
	if err := srv.start(cfg.Server, services, errCh); err != nil {
		logger.WithError(err).Error("failed to listen")
		srv.stop()
		return subcommands.ExitFailure
	}

	// Graceful shutdown
	status := subcommands.ExitSuccess
	if err := waitForShutdown(errCh, logger); err != nil {
		logger.WithError(err).Error("server failed")
		status = subcommands.ExitFailure
	}

	srv.stop()
	logger.Info("servers stopped")

	return status
}

// servers holds the listeners started by serve. A server whose address is
// empty is never started and stays nil.
type servers struct {
	logger logrus.FieldLogger
	grpc   *grpclib.Server
	http   *http.Server
}

func (s *servers) start(cfg config.ServerConfig, services *app.Services, errCh chan<- error) error {
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen on %s: %w", cfg.GRPCAddr, err)
		}

		s.grpc = grpclib.NewServer(
			grpclib.ChainUnaryInterceptor(
				grpcadapter.LoggingInterceptor(s.logger),
				grpcadapter.RecoveryInterceptor(s.logger),
			),
		)
		grpcadapter.Register(s.grpc, grpcadapter.NewServer(services))
		reflection.Register(s.grpc)

		go func(g *grpclib.Server) {
			s.logger.WithField("addr", lis.Addr().String()).Info("gRPC server listening")
			errCh <- g.Serve(lis)
		}(s.grpc)
	} else {
		s.logger.Info("gRPC server disabled")
	}

	if cfg.HTTPAddr != "" {
		lis, err := net.Listen("tcp", cfg.HTTPAddr)
		if err != nil {
			return fmt.Errorf("http listen on %s: %w", cfg.HTTPAddr, err)
		}

		s.http = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           httpadapter.NewRouter(services, s.logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func(h *http.Server) {
			s.logger.WithField("addr", lis.Addr().String()).Info("HTTP server listening")
			if err := h.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(s.http)
	} else {
		s.logger.Info("HTTP server disabled")
	}

	return nil
}

func (s *servers) stop() {
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.WithError(err).Warn("HTTP server shutdown")
		}
	}
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
}

// waitForShutdown blocks until SIGTERM, SIGINT or a server error
func waitForShutdown(errCh <-chan error, logger logrus.FieldLogger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("shutting down gracefully")
		return nil
	case err := <-errCh:
		return err
	}
}
