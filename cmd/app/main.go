package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderengine/cmd"
	"orderengine/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(configs)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err = run(ctx, app, configs.HTTPPort, logger); err != nil {
		logger.Error("Order engine stopped with error", "error", err)
		os.Exit(1)
	}
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	return gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// run serves HTTP and runs the jobs until ctx is cancelled, then shuts both down.
func run(ctx context.Context, app cmd.CompositionRoot, port string, logger *slog.Logger) error {
	router, err := app.CreateRouter(ctx)
	if err != nil {
		return err
	}
	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf("0.0.0.0:%s", port)
		logger.Info("HTTP server listening", "addr", addr)
		if err := router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		jobManager.StopAll(shutdownCtx)
		return router.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
