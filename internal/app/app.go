package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	nlogger "github.com/neutron-org/neutron-logger"

	"github.com/solarlabs-org/bundle-relayer/internal/config"
	"github.com/solarlabs-org/bundle-relayer/internal/confirmer"
	"github.com/solarlabs-org/bundle-relayer/internal/feepolicy"
	"github.com/solarlabs-org/bundle-relayer/internal/raw"
	"github.com/solarlabs-org/bundle-relayer/internal/registry"
	"github.com/solarlabs-org/bundle-relayer/internal/relay"
	"github.com/solarlabs-org/bundle-relayer/internal/storage"
	"github.com/solarlabs-org/bundle-relayer/internal/submit"
	"github.com/solarlabs-org/bundle-relayer/internal/txbuilder"
)

var (
	Version = ""
	Commit  = ""
)

const (
	AppContext       = "app"
	SubmitterContext = "submitter"
	ConfirmerContext = "confirmer"
	TxBuilderContext = "tx_builder"
)

// NewDefaultStorage returns the submission history store configured in
// cfg, or a no-op store when persistence is disabled.
func NewDefaultStorage(cfg config.BundleRelayerConfig) (relay.Storage, error) {
	if cfg.StoragePath == "" {
		return storage.NewDummyStorage(), nil
	}

	store, err := storage.NewLevelDBStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb storage at %s: %w", cfg.StoragePath, err)
	}
	return store, nil
}

// NewDefaultRegistry builds the endpoint registry from the configured
// candidate list.
func NewDefaultRegistry(cfg config.BundleRelayerConfig, clock relay.Clock) *registry.Registry {
	return registry.New(&registry.RegistryConfig{
		Endpoints: cfg.Endpoints,
		Shuffle:   cfg.ShuffleEndpoints,
	}, clock, newRand())
}

// NewDefaultTxBuilder loads the payer identity and wires the fee
// transaction builder against the configured ledger node.
func NewDefaultTxBuilder(cfg config.BundleRelayerConfig, logRegistry *nlogger.Registry) (relay.FeeTxBuilder, error) {
	payer, err := solana.PrivateKeyFromSolanaKeygenFile(cfg.PayerKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load payer key from %s: %w", cfg.PayerKeyPath, err)
	}

	picker, err := txbuilder.NewRandomTipPicker(cfg.TipAccounts, newRand())
	if err != nil {
		return nil, fmt.Errorf("failed to build tip account picker: %w", err)
	}

	ledger := rpc.New(cfg.LedgerRPCAddr)
	return txbuilder.NewTxBuilder(payer, picker, ledger, logRegistry.Get(TxBuilderContext)), nil
}

// NewDefaultSubmitter wires the bundle submitter with its registry, fee
// policy and relay client.
func NewDefaultSubmitter(
	cfg config.BundleRelayerConfig,
	logRegistry *nlogger.Registry,
	builder relay.FeeTxBuilder,
	clock relay.Clock,
) *submit.Submitter {
	reg := NewDefaultRegistry(cfg, clock)
	policy := feepolicy.NewPolicy(cfg.StartMultiplier, cfg.MaxMultiplier, cfg.EscalationFactor)
	client := raw.NewRPCClient(cfg.SubmitTimeout)

	return submit.NewSubmitter(reg, policy, builder, client, clock, newRand(), submit.SubmitterConfig{
		MaxAttempts:        cfg.MaxAttempts,
		BaseFee:            cfg.BaseFee,
		BackoffBase:        cfg.BackoffBase,
		BackoffCap:         cfg.BackoffCap,
		BackoffJitter:      cfg.BackoffJitter,
		RateLimitCooldown:  cfg.RateLimitCooldown,
		ServerBusyCooldown: cfg.ServerBusyCooldown,
	}, logRegistry.Get(SubmitterContext))
}

// NewDefaultConfirmer wires the dual-source confirmation poller.
func NewDefaultConfirmer(
	cfg config.BundleRelayerConfig,
	logRegistry *nlogger.Registry,
	store relay.Storage,
	clock relay.Clock,
) *confirmer.Confirmer {
	relayClient := raw.NewRPCClient(cfg.SubmitTimeout)
	ledger := rpc.New(cfg.LedgerRPCAddr)

	return confirmer.NewConfirmer(relayClient, ledger, store, clock, confirmer.ConfirmerConfig{
		PollInterval: cfg.PollInterval,
		Timeout:      cfg.ConfirmTimeout,
	}, logRegistry.Get(ConfirmerContext))
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
