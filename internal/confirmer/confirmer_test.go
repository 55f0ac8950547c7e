package confirmer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/relay"
	mock_relay "github.com/solarlabs-org/bundle-relayer/testutil/mocks/relay"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

func submittedResult() *relay.BundleResult {
	var sig solana.Signature
	sig[0] = 7
	return &relay.BundleResult{
		Success:      true,
		BundleID:     "bundle123",
		FeeSignature: sig,
		UsedEndpoint: "https://relay-a",
		Signatures:   []solana.Signature{sig},
	}
}

func ledgerStatuses(status rpc.ConfirmationStatusType, execErr interface{}) *rpc.GetSignatureStatusesResult {
	return &rpc.GetSignatureStatusesResult{
		Value: []*rpc.SignatureStatusesResult{
			{
				Slot:               281000000,
				ConfirmationStatus: status,
				Err:                execErr,
			},
		},
	}
}

func setupConfirmer(relayClient relay.RelayClient, ledger relay.LedgerClient, clock relay.Clock, cfg ConfirmerConfig) *Confirmer {
	return NewConfirmer(relayClient, ledger, nil, clock, cfg, zap.NewNop())
}

func TestConfirmViaRelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relayClient := mock_relay.NewMockRelayClient(ctrl)
	ledger := mock_relay.NewMockLedgerClient(ctrl)
	clock := &fakeClock{now: time.Now()}

	res := submittedResult()
	relayClient.EXPECT().GetBundleStatuses(gomock.Any(), res.UsedEndpoint, []string{res.BundleID}).
		Return([]relay.BundleStatus{{
			BundleID:           res.BundleID,
			ConfirmationStatus: relay.StatusFinalized,
			Slot:               281000000,
		}}, nil)

	confirmer := setupConfirmer(relayClient, ledger, clock, DefaultConfirmerConfig())
	outcome, err := confirmer.Confirm(context.Background(), res)
	require.NoError(t, err)
	assert.True(t, outcome.Confirmed)
	assert.Equal(t, relay.SourceRelay, outcome.Source)
	require.NotNil(t, outcome.Status)
	assert.Equal(t, relay.StatusFinalized, outcome.Status.ConfirmationStatus)
}

func TestConfirmViaLedgerWhenRelayUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relayClient := mock_relay.NewMockRelayClient(ctrl)
	ledger := mock_relay.NewMockLedgerClient(ctrl)
	clock := &fakeClock{now: time.Now()}

	res := submittedResult()
	// relay status endpoint keeps failing; errors are absorbed
	relayClient.EXPECT().GetBundleStatuses(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("relay status unavailable")).AnyTimes()
	ledger.EXPECT().GetSignatureStatuses(gomock.Any(), true, res.Signatures[0]).
		Return(ledgerStatuses(rpc.ConfirmationStatusConfirmed, nil), nil)

	confirmer := setupConfirmer(relayClient, ledger, clock, DefaultConfirmerConfig())
	outcome, err := confirmer.Confirm(context.Background(), res)
	require.NoError(t, err)
	assert.True(t, outcome.Confirmed)
	assert.Equal(t, relay.SourceLedger, outcome.Source)
}

func TestConfirmIgnoresLedgerExecutionErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relayClient := mock_relay.NewMockRelayClient(ctrl)
	ledger := mock_relay.NewMockLedgerClient(ctrl)
	clock := &fakeClock{now: time.Now()}

	res := submittedResult()
	relayClient.EXPECT().GetBundleStatuses(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]relay.BundleStatus{{BundleID: res.BundleID, ConfirmationStatus: "processed"}}, nil).AnyTimes()
	// finalized but with a recorded execution error does not confirm
	ledger.EXPECT().GetSignatureStatuses(gomock.Any(), true, gomock.Any()).
		Return(ledgerStatuses(rpc.ConfirmationStatusFinalized, map[string]interface{}{"InstructionError": []interface{}{}}), nil).AnyTimes()

	cfg := ConfirmerConfig{PollInterval: time.Second, Timeout: 3 * time.Second}
	confirmer := setupConfirmer(relayClient, ledger, clock, cfg)
	outcome, err := confirmer.Confirm(context.Background(), res)
	require.NoError(t, err)
	assert.False(t, outcome.Confirmed)
}

func TestConfirmTimesOutWithoutError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relayClient := mock_relay.NewMockRelayClient(ctrl)
	ledger := mock_relay.NewMockLedgerClient(ctrl)
	clock := &fakeClock{now: time.Now()}

	res := submittedResult()
	relayClient.EXPECT().GetBundleStatuses(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]relay.BundleStatus{{BundleID: res.BundleID, ConfirmationStatus: "processed"}}, nil).AnyTimes()
	ledger.EXPECT().GetSignatureStatuses(gomock.Any(), true, gomock.Any()).
		Return(ledgerStatuses("processed", nil), nil).AnyTimes()

	cfg := ConfirmerConfig{PollInterval: time.Second, Timeout: 5 * time.Second}
	confirmer := setupConfirmer(relayClient, ledger, clock, cfg)

	start := clock.now
	outcome, err := confirmer.Confirm(context.Background(), res)
	require.NoError(t, err)
	assert.False(t, outcome.Confirmed)
	assert.Empty(t, outcome.Source)
	// the loop never waits past the deadline
	assert.LessOrEqual(t, clock.now.Sub(start), 5*time.Second)
}

func TestConfirmWithTimeoutOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relayClient := mock_relay.NewMockRelayClient(ctrl)
	ledger := mock_relay.NewMockLedgerClient(ctrl)
	clock := &fakeClock{now: time.Now()}

	res := submittedResult()
	relayClient.EXPECT().GetBundleStatuses(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).AnyTimes()
	ledger.EXPECT().GetSignatureStatuses(gomock.Any(), true, gomock.Any()).
		Return(nil, errors.New("node behind")).AnyTimes()

	cfg := ConfirmerConfig{PollInterval: time.Second, Timeout: time.Hour}
	confirmer := setupConfirmer(relayClient, ledger, clock, cfg)

	start := clock.now
	outcome, err := confirmer.ConfirmWithTimeout(context.Background(), res, 2*time.Second)
	require.NoError(t, err)
	assert.False(t, outcome.Confirmed)
	assert.LessOrEqual(t, clock.now.Sub(start), 2*time.Second)
}

func TestConfirmFailedSubmissionSkipsRelayQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	relayClient := mock_relay.NewMockRelayClient(ctrl)
	ledger := mock_relay.NewMockLedgerClient(ctrl)
	clock := &fakeClock{now: time.Now()}

	var sig solana.Signature
	sig[0] = 9
	res := &relay.BundleResult{
		Success:      false,
		FeeSignature: sig,
		Signatures:   []solana.Signature{sig},
	}

	// no bundle id, so only the ledger is polled
	ledger.EXPECT().GetSignatureStatuses(gomock.Any(), true, sig).
		Return(ledgerStatuses(rpc.ConfirmationStatusFinalized, nil), nil)

	confirmer := setupConfirmer(relayClient, ledger, clock, DefaultConfirmerConfig())
	outcome, err := confirmer.Confirm(context.Background(), res)
	require.NoError(t, err)
	assert.True(t, outcome.Confirmed)
	assert.Equal(t, relay.SourceLedger, outcome.Source)
}
