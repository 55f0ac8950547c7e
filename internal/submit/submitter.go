package submit

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/feepolicy"
	"github.com/solarlabs-org/bundle-relayer/internal/metrics"
	"github.com/solarlabs-org/bundle-relayer/internal/registry"
	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

// SubmitterConfig bounds the attempt loop of one Send call.
type SubmitterConfig struct {
	// MaxAttempts is the number of rounds before a submission is reported
	// as a terminal failure.
	MaxAttempts int
	// BaseFee is the unescalated priority fee amount in base units.
	BaseFee uint64
	// Inter-round backoff: min(BackoffCap, BackoffBase*2^attempt) plus a
	// uniform jitter in [0, BackoffJitter).
	BackoffBase   time.Duration
	BackoffCap    time.Duration
	BackoffJitter time.Duration
	// RateLimitCooldown is applied to a 429-ing endpoint when the response
	// carries no retry hint, and to endpoints failing with other errors.
	RateLimitCooldown time.Duration
	// ServerBusyCooldown is applied to endpoints failing with 5xx or
	// request timeouts.
	ServerBusyCooldown time.Duration
}

// DefaultSubmitterConfig returns the reference loop parameters.
func DefaultSubmitterConfig() SubmitterConfig {
	return SubmitterConfig{
		MaxAttempts:        5,
		BaseFee:            1_000_000,
		BackoffBase:        250 * time.Millisecond,
		BackoffCap:         4 * time.Second,
		BackoffJitter:      250 * time.Millisecond,
		RateLimitCooldown:  4 * time.Second,
		ServerBusyCooldown: 8 * time.Second,
	}
}

// Submitter submits an atomic bundle of transactions to one of the
// registry's relay endpoints, prepending a priority fee transaction and
// retrying across endpoints and rounds with fee escalation until a relay
// accepts the bundle or the attempts are exhausted.
//
// Endpoints within a round are tried strictly in order, never in parallel,
// so a bundle cannot be accepted (and the fee paid) twice.
type Submitter struct {
	registry *registry.Registry
	policy   feepolicy.Policy
	builder  relay.FeeTxBuilder
	client   relay.RelayClient
	clock    relay.Clock
	rnd      *rand.Rand
	cfg      SubmitterConfig
	logger   *zap.Logger
}

// NewSubmitter wires a Submitter. The rnd seeds the backoff jitter and must
// not be shared with other consumers without external synchronization.
func NewSubmitter(
	reg *registry.Registry,
	policy feepolicy.Policy,
	builder relay.FeeTxBuilder,
	client relay.RelayClient,
	clock relay.Clock,
	rnd *rand.Rand,
	cfg SubmitterConfig,
	logger *zap.Logger,
) *Submitter {
	return &Submitter{
		registry: reg,
		policy:   policy,
		builder:  builder,
		client:   client,
		clock:    clock,
		rnd:      rnd,
		cfg:      cfg,
		logger:   logger,
	}
}

// Send submits encodedTxs as one bundle using the configured base fee.
// The returned error is non-nil only when ctx is cancelled; every other
// outcome, including exhausting all attempts, is reported inside the
// BundleResult.
func (s *Submitter) Send(ctx context.Context, encodedTxs []string) (*relay.BundleResult, error) {
	return s.SendWithBaseFee(ctx, encodedTxs, s.cfg.BaseFee)
}

// SendWithBaseFee is Send with a per-call base fee override.
func (s *Submitter) SendWithBaseFee(ctx context.Context, encodedTxs []string, baseFee uint64) (*relay.BundleResult, error) {
	start := s.clock.Now()

	// multiplier state lives for exactly this invocation
	multiplier := s.policy.StartMultiplier()

	var (
		lastFeeSignature solana.Signature
		lastEndpoint     string
	)

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		metrics.IncSubmissionAttempt()

		endpoints := s.registry.ListEligible()
		fee := s.policy.ComputeFee(baseFee, multiplier)

		feeTx, err := s.builder.BuildFeeTx(ctx, fee)
		if err != nil {
			// build failures abort only this attempt, never an endpoint
			metrics.IncFeeTxBuildFailure()
			s.logger.Warn("failed to build fee transaction, aborting attempt",
				zap.Int("attempt", attempt), zap.Uint64("fee", fee), zap.Error(err))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < s.cfg.MaxAttempts {
				if err := s.backoff(ctx, attempt); err != nil {
					return nil, err
				}
			}
			continue
		}
		lastFeeSignature = feeTx.Signature

		bundle := make([]string, 0, len(encodedTxs)+1)
		bundle = append(bundle, feeTx.Encoded)
		bundle = append(bundle, encodedTxs...)

		for _, endpoint := range endpoints {
			lastEndpoint = endpoint

			bundleID, err := s.client.SendBundle(ctx, endpoint, bundle)
			if err == nil {
				s.logger.Info("bundle accepted",
					zap.String("endpoint", endpoint),
					zap.String("bundle_id", bundleID),
					zap.Int("attempt", attempt),
					zap.Uint64("fee", fee))
				metrics.AddSuccessSubmission(s.clock.Now().Sub(start).Seconds())
				return &relay.BundleResult{
					Success:      true,
					BundleID:     bundleID,
					FeeSignature: feeTx.Signature,
					UsedEndpoint: endpoint,
					Signatures:   []solana.Signature{feeTx.Signature},
				}, nil
			}

			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			multiplier = s.handleEndpointFailure(endpoint, err, multiplier, attempt)
		}

		if attempt < s.cfg.MaxAttempts {
			if err := s.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Error("all submission attempts exhausted",
		zap.Int("max_attempts", s.cfg.MaxAttempts),
		zap.String("last_endpoint", lastEndpoint))
	metrics.AddFailedSubmission(s.clock.Now().Sub(start).Seconds())

	return &relay.BundleResult{
		Success:      false,
		FeeSignature: lastFeeSignature,
		UsedEndpoint: lastEndpoint,
	}, nil
}

// handleEndpointFailure classifies a per-endpoint submission error,
// applies the matching cooldown and returns the possibly escalated fee
// multiplier.
func (s *Submitter) handleEndpointFailure(endpoint string, err error, multiplier float64, attempt int) float64 {
	var (
		rateLimited *relay.RateLimitedError
		serverBusy  *relay.ServerBusyError
	)

	switch {
	case errors.As(err, &rateLimited):
		multiplier = s.policy.OnRateLimited(multiplier)
		metrics.IncFeeEscalation()
		metrics.IncEndpointFailure(endpoint, metrics.KindRateLimited)

		cooldown := rateLimited.RetryAfter
		if cooldown <= 0 {
			cooldown = s.cfg.RateLimitCooldown
		}
		s.registry.MarkCooldown(endpoint, cooldown)
		s.logger.Warn("endpoint rate limited, fee escalated",
			zap.String("endpoint", endpoint),
			zap.Duration("cooldown", cooldown),
			zap.Float64("multiplier", multiplier),
			zap.Int("attempt", attempt))

	case errors.As(err, &serverBusy) || isTimeout(err):
		metrics.IncEndpointFailure(endpoint, metrics.KindServerBusy)
		s.registry.MarkCooldown(endpoint, s.cfg.ServerBusyCooldown)
		s.logger.Warn("endpoint server busy",
			zap.String("endpoint", endpoint),
			zap.Duration("cooldown", s.cfg.ServerBusyCooldown),
			zap.Int("attempt", attempt),
			zap.Error(err))

	default:
		count := s.registry.BumpError(endpoint)
		metrics.IncEndpointFailure(endpoint, metrics.KindOther)
		s.registry.MarkCooldown(endpoint, s.cfg.RateLimitCooldown)
		s.logger.Warn("endpoint submission failed",
			zap.String("endpoint", endpoint),
			zap.Int("error_count", count),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return multiplier
}

// backoff sleeps min(cap, base*2^attempt) plus uniform jitter before the
// next round.
func (s *Submitter) backoff(ctx context.Context, attempt int) error {
	delay := s.cfg.BackoffBase << uint(attempt)
	if delay > s.cfg.BackoffCap || delay <= 0 {
		delay = s.cfg.BackoffCap
	}
	if s.cfg.BackoffJitter > 0 && s.rnd != nil {
		delay += time.Duration(s.rnd.Int63n(int64(s.cfg.BackoffJitter)))
	}
	return s.clock.Sleep(ctx, delay)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
