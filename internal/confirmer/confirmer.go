package confirmer

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/metrics"
	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

var (
	retryAttempts = retry.Attempts(2)
	retryDelay    = retry.Delay(500 * time.Millisecond)
	retryError    = retry.LastErrorOnly(true)
)

// ConfirmerConfig bounds the polling loop.
type ConfirmerConfig struct {
	PollInterval time.Duration
	Timeout      time.Duration
}

// DefaultConfirmerConfig returns the reference polling parameters.
func DefaultConfirmerConfig() ConfirmerConfig {
	return ConfirmerConfig{
		PollInterval: 2 * time.Second,
		Timeout:      60 * time.Second,
	}
}

// Confirmer polls two independent status sources for durable inclusion of
// a submitted bundle: the originating relay's bundle status API and the
// ledger's signature statuses. Either source confirming is enough; the
// sources are never required to agree. Status query errors are absorbed as
// "not yet confirmed" so a flaky status endpoint cannot abort the wait.
type Confirmer struct {
	relayClient relay.RelayClient
	ledger      relay.LedgerClient
	storage     relay.Storage
	clock       relay.Clock
	cfg         ConfirmerConfig
	logger      *zap.Logger
}

// NewConfirmer wires a Confirmer. The storage may be nil when the caller
// does not persist submission history.
func NewConfirmer(
	relayClient relay.RelayClient,
	ledger relay.LedgerClient,
	storage relay.Storage,
	clock relay.Clock,
	cfg ConfirmerConfig,
	logger *zap.Logger,
) *Confirmer {
	return &Confirmer{
		relayClient: relayClient,
		ledger:      ledger,
		storage:     storage,
		clock:       clock,
		cfg:         cfg,
		logger:      logger,
	}
}

// Confirm waits for durable inclusion of res with the configured timeout.
// The returned error is non-nil only when ctx is cancelled; a timeout is
// reported as Confirmed:false, because the bundle may still land later.
func (c *Confirmer) Confirm(ctx context.Context, res *relay.BundleResult) (*relay.ConfirmationOutcome, error) {
	return c.ConfirmWithTimeout(ctx, res, c.cfg.Timeout)
}

// ConfirmWithTimeout is Confirm with a per-call timeout override.
func (c *Confirmer) ConfirmWithTimeout(ctx context.Context, res *relay.BundleResult, timeout time.Duration) (*relay.ConfirmationOutcome, error) {
	start := c.clock.Now()
	deadline := start.Add(timeout)

	for {
		if outcome := c.checkRelay(ctx, res); outcome != nil {
			c.recordOutcome(res, outcome, start)
			return outcome, nil
		}
		if outcome := c.checkLedger(ctx, res); outcome != nil {
			c.recordOutcome(res, outcome, start)
			return outcome, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !c.clock.Now().Add(c.cfg.PollInterval).Before(deadline) {
			break
		}
		if err := c.clock.Sleep(ctx, c.cfg.PollInterval); err != nil {
			return nil, err
		}
	}

	c.logger.Warn("confirmation timed out",
		zap.String("bundle_id", res.BundleID),
		zap.Duration("timeout", timeout))
	outcome := &relay.ConfirmationOutcome{Confirmed: false}
	c.recordOutcome(res, outcome, start)
	return outcome, nil
}

// checkRelay queries the originating relay's bundle status API. Returns
// nil unless the relay reported a durable status.
func (c *Confirmer) checkRelay(ctx context.Context, res *relay.BundleResult) *relay.ConfirmationOutcome {
	if res.BundleID == "" || res.UsedEndpoint == "" {
		return nil
	}

	statuses, err := c.retryGetBundleStatuses(ctx, res.UsedEndpoint, []string{res.BundleID})
	if err != nil {
		// absorbed: transient status endpoint failures must not abort the wait
		c.logger.Debug("bundle status query failed",
			zap.String("endpoint", res.UsedEndpoint), zap.Error(err))
		return nil
	}

	for i := range statuses {
		status := statuses[i]
		if status.BundleID != "" && status.BundleID != res.BundleID {
			continue
		}
		if status.ConfirmationStatus == relay.StatusConfirmed || status.ConfirmationStatus == relay.StatusFinalized {
			c.logger.Info("bundle confirmed by relay",
				zap.String("bundle_id", res.BundleID),
				zap.String("confirmation_status", status.ConfirmationStatus),
				zap.Uint64("slot", status.Slot))
			return &relay.ConfirmationOutcome{
				Confirmed: true,
				Source:    relay.SourceRelay,
				Status:    &status,
			}
		}
	}

	return nil
}

// checkLedger queries signature statuses for all tracked signatures in one
// call, with deep history search. Returns nil unless any signature reached
// a durable level without an execution error.
func (c *Confirmer) checkLedger(ctx context.Context, res *relay.BundleResult) *relay.ConfirmationOutcome {
	if len(res.Signatures) == 0 {
		return nil
	}

	out, err := c.ledger.GetSignatureStatuses(ctx, true, res.Signatures...)
	if err != nil {
		c.logger.Debug("signature status query failed", zap.Error(err))
		return nil
	}
	if out == nil {
		return nil
	}

	for i, status := range out.Value {
		if status == nil || status.Err != nil {
			continue
		}
		if status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
			c.logger.Info("bundle confirmed by ledger",
				zap.String("signature", res.Signatures[i].String()),
				zap.String("confirmation_status", string(status.ConfirmationStatus)),
				zap.Uint64("slot", status.Slot))
			return &relay.ConfirmationOutcome{
				Confirmed: true,
				Source:    relay.SourceLedger,
			}
		}
	}

	return nil
}

func (c *Confirmer) retryGetBundleStatuses(ctx context.Context, endpoint string, ids []string) ([]relay.BundleStatus, error) {
	var statuses []relay.BundleStatus

	if err := retry.Do(func() error {
		var err error
		statuses, err = c.relayClient.GetBundleStatuses(ctx, endpoint, ids)
		return err
	}, retry.Context(ctx), retryAttempts, retryDelay, retryError); err != nil {
		return nil, err
	}

	return statuses, nil
}

func (c *Confirmer) recordOutcome(res *relay.BundleResult, outcome *relay.ConfirmationOutcome, start time.Time) {
	elapsed := c.clock.Now().Sub(start).Seconds()
	if outcome.Confirmed {
		metrics.AddSuccessConfirmation(string(outcome.Source), elapsed)
	} else {
		metrics.AddFailedConfirmation(elapsed)
	}

	if c.storage == nil || res.BundleID == "" {
		return
	}

	info := relay.BundleInfo{
		BundleID:     res.BundleID,
		FeeSignature: res.FeeSignature.String(),
		Endpoint:     res.UsedEndpoint,
		SubmitTime:   start,
	}
	if outcome.Confirmed {
		info.Status = relay.Confirmed
		info.Source = string(outcome.Source)
	} else {
		info.Status = relay.NotConfirmed
		info.Message = "no confirming signal before timeout"
	}

	if err := c.storage.SetBundleStatus(info); err != nil {
		c.logger.Error("failed to update bundle status in storage",
			zap.String("bundle_id", res.BundleID), zap.Error(err))
	}
}
