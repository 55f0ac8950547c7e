package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	nlogger "github.com/neutron-org/neutron-logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/app"
	"github.com/solarlabs-org/bundle-relayer/internal/config"
	"github.com/solarlabs-org/bundle-relayer/internal/monitoring"
	"github.com/solarlabs-org/bundle-relayer/internal/relay"
	"github.com/solarlabs-org/bundle-relayer/internal/webserver"
)

// serveCmd represents the serve command: it exposes the submission
// history and prometheus metrics over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the submission history webserver and metrics",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe() {
	logRegistry, err := nlogger.NewRegistry(
		mainContext,
		app.AppContext,
		webserver.ServerContext,
		monitoring.MonitoringLoggerContext,
	)
	if err != nil {
		log.Fatalf("couldn't initialize loggers registry: %s", err)
	}
	logger := logRegistry.Get(mainContext)
	logger.Info("bundle-relayer serve starts...")

	cfg, err := config.NewBundleRelayerConfig(logRegistry.Get(app.AppContext))
	if err != nil {
		logger.Fatal("cannot initialize relayer config", zap.Error(err))
	}

	// The storage has to be shared because of the LevelDB single process restriction.
	store, err := app.NewDefaultStorage(cfg)
	if err != nil {
		logger.Fatal("failed to create NewDefaultStorage", zap.Error(err))
	}
	defer func(store relay.Storage) {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", zap.Error(err))
		}
	}(store)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}

	http.Handle("/metrics", monitoring.NewPromWrapper(logRegistry, store))
	go func() {
		err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.PrometheusPort), nil)
		if err != nil {
			logger.Fatal("failed to serve metrics", zap.Error(err))
		}
	}()
	logger.Info("metrics handler set up")

	wg.Add(1)
	go func() {
		defer wg.Done()

		if err := webserver.Run(ctx, logRegistry, store, int(cfg.WebserverPort)); err != nil {
			logger.Error("WebServer exited with an error", zap.Error(err))
			cancel()
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigs:
		logger.Info("shutdown signal received")
		cancel()
	case <-ctx.Done():
	}

	wg.Wait()
}
