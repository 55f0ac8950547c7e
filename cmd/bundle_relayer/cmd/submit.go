package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	nlogger "github.com/neutron-org/neutron-logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/app"
	"github.com/solarlabs-org/bundle-relayer/internal/config"
	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

var (
	submitFeeOverride    uint64
	submitSkipConfirm    bool
	submitConfirmTimeout time.Duration
)

// submitCmd represents the submit command: it sends the given
// transactions as one atomic bundle and waits for confirmation.
var submitCmd = &cobra.Command{
	Use:   "submit <tx-file|base64-tx> ...",
	Short: "Submit an atomic bundle of signed transactions and wait for confirmation",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSubmit(args)
	},
}

func init() {
	submitCmd.Flags().Uint64Var(&submitFeeOverride, "fee", 0, "base fee override in lamports (0 uses the configured base fee)")
	submitCmd.Flags().BoolVar(&submitSkipConfirm, "no-confirm", false, "return right after a relay accepts the bundle")
	submitCmd.Flags().DurationVar(&submitConfirmTimeout, "confirm-timeout", 0, "confirmation timeout override (0 uses the configured timeout)")
	RootCmd.AddCommand(submitCmd)
}

func runSubmit(args []string) {
	logRegistry, err := nlogger.NewRegistry(
		mainContext,
		app.AppContext,
		app.SubmitterContext,
		app.ConfirmerContext,
		app.TxBuilderContext,
	)
	if err != nil {
		log.Fatalf("couldn't initialize loggers registry: %s", err)
	}
	logger := logRegistry.Get(mainContext)
	logger.Info("bundle-relayer submit starts...")

	cfg, err := config.NewBundleRelayerConfig(logRegistry.Get(app.AppContext))
	if err != nil {
		logger.Fatal("cannot initialize relayer config", zap.Error(err))
	}

	encodedTxs, err := readTransactions(args)
	if err != nil {
		logger.Fatal("cannot read input transactions", zap.Error(err))
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

	builder, err := app.NewDefaultTxBuilder(cfg, logRegistry)
	if err != nil {
		logger.Fatal("failed to create NewDefaultTxBuilder", zap.Error(err))
	}

	clock := relay.NewSystemClock()
	submitter := app.NewDefaultSubmitter(cfg, logRegistry, builder, clock)
	conf := app.NewDefaultConfirmer(cfg, logRegistry, store, clock)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logger.Info("interrupted, cancelling...")
		cancel()
	}()

	var res *relay.BundleResult
	if submitFeeOverride > 0 {
		res, err = submitter.SendWithBaseFee(ctx, encodedTxs, submitFeeOverride)
	} else {
		res, err = submitter.Send(ctx, encodedTxs)
	}
	if err != nil {
		logger.Fatal("submission cancelled", zap.Error(err))
	}

	if res.Success {
		if err := store.SetBundleStatus(relay.BundleInfo{
			BundleID:     res.BundleID,
			FeeSignature: res.FeeSignature.String(),
			Endpoint:     res.UsedEndpoint,
			Status:       relay.Submitted,
			SubmitTime:   time.Now().UTC(),
		}); err != nil {
			logger.Error("failed to store submitted bundle", zap.Error(err))
		}
	} else {
		if err := store.SetBundleStatus(relay.BundleInfo{
			FeeSignature: res.FeeSignature.String(),
			Endpoint:     res.UsedEndpoint,
			Status:       relay.ErrorOnSubmit,
			Message:      "all submission attempts exhausted",
			SubmitTime:   time.Now().UTC(),
		}); err != nil {
			logger.Error("failed to store failed bundle", zap.Error(err))
		}
	}

	printJSON(res)

	if !res.Success || submitSkipConfirm {
		return
	}

	var outcome *relay.ConfirmationOutcome
	if submitConfirmTimeout > 0 {
		outcome, err = conf.ConfirmWithTimeout(ctx, res, submitConfirmTimeout)
	} else {
		outcome, err = conf.Confirm(ctx, res)
	}
	if err != nil {
		logger.Fatal("confirmation cancelled", zap.Error(err))
	}

	printJSON(outcome)
}

// readTransactions accepts file paths holding one base64 transaction per
// line, or inline base64 transactions, in bundle order.
func readTransactions(args []string) ([]string, error) {
	var txs []string
	for _, arg := range args {
		if _, err := os.Stat(arg); err == nil {
			data, err := os.ReadFile(arg)
			if err != nil {
				return nil, fmt.Errorf("failed to read transaction file %s: %w", arg, err)
			}
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					txs = append(txs, line)
				}
			}
			continue
		}
		txs = append(txs, arg)
	}

	if len(txs) == 0 {
		return nil, fmt.Errorf("no transactions given")
	}
	return txs, nil
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		return
	}
	fmt.Println(string(out))
}
