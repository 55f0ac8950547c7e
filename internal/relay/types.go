package relay

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// ConfirmationSource tells which of the two independent status sources
// reported durable inclusion of a bundle.
type ConfirmationSource string

const (
	// SourceRelay means the bundle status API of the relay that accepted
	// the bundle reported it confirmed or finalized.
	SourceRelay ConfirmationSource = "relay"
	// SourceLedger means the ledger signature status query reported one of
	// the bundle signatures confirmed or finalized.
	SourceLedger ConfirmationSource = "ledger"
)

// BundleResult is the outcome of a single Send call. It is immutable once
// produced: a failed result carries the last known fee signature and
// endpoint for diagnostics, but never a bundle id.
type BundleResult struct {
	Success      bool
	BundleID     string
	FeeSignature solana.Signature
	UsedEndpoint string
	// Signatures holds the ledger signatures to track during confirmation,
	// fee transaction signature first. Callers that need ledger-based
	// confirmation of their own transactions append those signatures here.
	Signatures []solana.Signature
}

// ConfirmationOutcome is the result of a single Confirm call.
type ConfirmationOutcome struct {
	Confirmed bool
	Source    ConfirmationSource
	// Status carries the raw relay status payload when the relay was the
	// confirming source.
	Status *BundleStatus
}

// BundleStatus is a single entry of the relay getBundleStatuses response.
// The confirmation_status field name is a wire compatibility contract.
type BundleStatus struct {
	BundleID           string      `json:"bundle_id"`
	Transactions       []string    `json:"transactions"`
	Slot               uint64      `json:"slot"`
	ConfirmationStatus string      `json:"confirmation_status"`
	Err                interface{} `json:"err"`
}

// Relay-reported confirmation levels that count as durable.
const (
	StatusConfirmed = "confirmed"
	StatusFinalized = "finalized"
)

// FeeTx is a signed, serialized, transport-encoded priority fee transaction
// ready to be prepended to a bundle.
type FeeTx struct {
	Encoded   string
	Signature solana.Signature
}

// FeeTxBuilder builds and signs a priority fee transfer for the given
// amount against a current ledger checkpoint. Implementations own the payer
// identity and the recipient selection strategy.
type FeeTxBuilder interface {
	BuildFeeTx(ctx context.Context, amount uint64) (*FeeTx, error)
}

// RelayClient talks the bundle JSON-RPC protocol to a single relay
// endpoint per call. SendBundle returns the relay-assigned bundle id;
// a response without a result id is an error regardless of HTTP status.
type RelayClient interface {
	SendBundle(ctx context.Context, endpoint string, encodedTxs []string) (string, error)
	GetBundleStatuses(ctx context.Context, endpoint string, bundleIDs []string) ([]BundleStatus, error)
}

// LedgerClient is the subset of the ledger RPC client used for signature
// status confirmation. *rpc.Client satisfies it.
type LedgerClient interface {
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}
