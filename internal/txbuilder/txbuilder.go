package txbuilder

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

var (
	retryAttempts = retry.Attempts(3)
	retryDelay    = retry.Delay(300 * time.Millisecond)
	retryError    = retry.LastErrorOnly(true)
)

// BlockhashFetcher is the checkpoint source for fee transactions.
// *rpc.Client satisfies it.
type BlockhashFetcher interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// TxBuilder is the default relay.FeeTxBuilder: it builds, signs and
// base64-encodes a system transfer of the fee amount from the payer to a
// tip account chosen by the picker, anchored to the latest blockhash.
type TxBuilder struct {
	payer  solana.PrivateKey
	picker TipAccountPicker
	rpc    BlockhashFetcher
	logger *zap.Logger
}

// NewTxBuilder wires a TxBuilder around the payer identity.
func NewTxBuilder(payer solana.PrivateKey, picker TipAccountPicker, fetcher BlockhashFetcher, logger *zap.Logger) *TxBuilder {
	return &TxBuilder{
		payer:  payer,
		picker: picker,
		rpc:    fetcher,
		logger: logger,
	}
}

// BuildFeeTx implements relay.FeeTxBuilder.
func (b *TxBuilder) BuildFeeTx(ctx context.Context, amount uint64) (*relay.FeeTx, error) {
	blockhash, err := b.latestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch latest blockhash: %w", err)
	}

	recipient := b.picker.Pick()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(amount, b.payer.PublicKey(), recipient).Build(),
		},
		blockhash,
		solana.TransactionPayer(b.payer.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("could not build fee transaction: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(b.payer.PublicKey()) {
			return &b.payer
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not sign fee transaction: %w", err)
	}

	bin, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("could not serialize fee transaction: %w", err)
	}

	b.logger.Debug("fee transaction built",
		zap.Uint64("amount", amount),
		zap.String("recipient", recipient.String()),
		zap.String("signature", tx.Signatures[0].String()))

	return &relay.FeeTx{
		Encoded:   base64.StdEncoding.EncodeToString(bin),
		Signature: tx.Signatures[0],
	}, nil
}

func (b *TxBuilder) latestBlockhash(ctx context.Context) (solana.Hash, error) {
	var result *rpc.GetLatestBlockhashResult

	if err := retry.Do(func() error {
		var err error
		result, err = b.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		return err
	}, retry.Context(ctx), retryAttempts, retryDelay, retryError); err != nil {
		return solana.Hash{}, err
	}
	if result == nil || result.Value == nil {
		return solana.Hash{}, fmt.Errorf("empty blockhash response")
	}

	return result.Value.Blockhash, nil
}
