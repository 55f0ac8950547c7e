package cmd

import (
	"fmt"
	"log"

	nlogger "github.com/neutron-org/neutron-logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/app"
	"github.com/solarlabs-org/bundle-relayer/internal/config"
	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

// statusCmd represents the status command: it reads the stored record of
// a past submission.
var statusCmd = &cobra.Command{
	Use:   "status <bundle-id>",
	Short: "Show the stored status of a submitted bundle",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runStatus(args[0])
	},
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(bundleID string) {
	logRegistry, err := nlogger.NewRegistry(mainContext, app.AppContext)
	if err != nil {
		log.Fatalf("couldn't initialize loggers registry: %s", err)
	}
	logger := logRegistry.Get(mainContext)

	cfg, err := config.NewBundleRelayerConfig(logRegistry.Get(app.AppContext))
	if err != nil {
		logger.Fatal("cannot initialize relayer config", zap.Error(err))
	}

	store, err := app.NewDefaultStorage(cfg)
	if err != nil {
		logger.Fatal("failed to create NewDefaultStorage", zap.Error(err))
	}
	defer func(store relay.Storage) {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", zap.Error(err))
		}
	}(store)

	info, found, err := store.GetBundle(bundleID)
	if err != nil {
		logger.Fatal("failed to read bundle from storage", zap.Error(err))
	}
	if !found {
		fmt.Printf("bundle %s not found\n", bundleID)
		return
	}

	printJSON(info)
}
