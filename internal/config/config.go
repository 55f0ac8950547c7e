package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const envPrefix = "RELAYER"

// defaultEndpoints is the compiled-in relay candidate list in declared
// priority order. Overridden by RELAYER_ENDPOINTS.
var defaultEndpoints = []string{
	"https://mainnet.block-engine.jito.wtf/api/v1/bundles",
	"https://amsterdam.mainnet.block-engine.jito.wtf/api/v1/bundles",
	"https://frankfurt.mainnet.block-engine.jito.wtf/api/v1/bundles",
	"https://ny.mainnet.block-engine.jito.wtf/api/v1/bundles",
	"https://tokyo.mainnet.block-engine.jito.wtf/api/v1/bundles",
}

// BundleRelayerConfig is the top level app configuration, sourced from
// RELAYER_* environment variables.
type BundleRelayerConfig struct {
	// Endpoints overrides the compiled-in relay candidate list.
	Endpoints []string `envconfig:"ENDPOINTS"`
	// ShuffleEndpoints randomizes endpoint order per round to spread load
	// across concurrent submitters.
	ShuffleEndpoints bool `envconfig:"SHUFFLE_ENDPOINTS" default:"false"`

	// LedgerRPCAddr is the ledger node used for checkpoints and signature
	// status confirmation.
	LedgerRPCAddr string `envconfig:"LEDGER_RPC_ADDR" default:"https://api.mainnet-beta.solana.com"`
	// PayerKeyPath points to the payer keypair file in keygen format.
	PayerKeyPath string `envconfig:"PAYER_KEY_PATH"`
	// TipAccounts overrides the compiled-in fee recipient candidate set.
	TipAccounts []string `envconfig:"TIP_ACCOUNTS"`

	BaseFee          uint64  `envconfig:"BASE_FEE" default:"1000000"`
	StartMultiplier  float64 `envconfig:"START_MULTIPLIER" default:"1.0"`
	MaxMultiplier    float64 `envconfig:"MAX_MULTIPLIER" default:"3.0"`
	EscalationFactor float64 `envconfig:"ESCALATION_FACTOR" default:"1.15"`

	MaxAttempts        int           `envconfig:"MAX_ATTEMPTS" default:"5"`
	BackoffBase        time.Duration `envconfig:"BACKOFF_BASE" default:"250ms"`
	BackoffCap         time.Duration `envconfig:"BACKOFF_CAP" default:"4s"`
	BackoffJitter      time.Duration `envconfig:"BACKOFF_JITTER" default:"250ms"`
	RateLimitCooldown  time.Duration `envconfig:"RATE_LIMIT_COOLDOWN" default:"4s"`
	ServerBusyCooldown time.Duration `envconfig:"SERVER_BUSY_COOLDOWN" default:"8s"`
	SubmitTimeout      time.Duration `envconfig:"SUBMIT_TIMEOUT" default:"10s"`

	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"2s"`
	ConfirmTimeout time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"60s"`

	// StoragePath is the submission history database location. Empty
	// disables persistence.
	StoragePath    string `envconfig:"STORAGE_PATH" default:"./bundle_relayer_storage"`
	WebserverPort  uint16 `envconfig:"WEBSERVER_PORT" default:"9999"`
	PrometheusPort uint16 `envconfig:"PROMETHEUS_PORT" default:"9090"`
}

// NewBundleRelayerConfig initializes the config from the environment.
func NewBundleRelayerConfig(logger *zap.Logger) (BundleRelayerConfig, error) {
	var cfg BundleRelayerConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to init config: %w", err)
	}

	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = defaultEndpoints
	}
	if cfg.MaxAttempts <= 0 {
		return cfg, fmt.Errorf("max attempts must be positive, got %d", cfg.MaxAttempts)
	}

	logger.Info("config loaded",
		zap.Strings("endpoints", cfg.Endpoints),
		zap.Int("max_attempts", cfg.MaxAttempts),
		zap.Uint64("base_fee", cfg.BaseFee))

	return cfg, nil
}
