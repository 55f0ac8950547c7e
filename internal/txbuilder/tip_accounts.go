package txbuilder

import (
	"math/rand"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// defaultTipAccounts is the compiled-in tip account set of the mainnet
// block engine operators. Overridable via configuration.
var defaultTipAccounts = []string{
	"96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5",
	"HFqU5x63VTqvQss8hp11i4wVV8bD44PvwucfZ2bU7gRe",
	"Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY",
	"ADaUMid9yfUytqMBgopwjb2DTLSokTSzL1zt6iGPaS49",
	"DfXygSm4jCyNCybVYYK6DwvWqjKee8pbDmJGcLWNDXjh",
	"ADuUkR4vqLUMWXxW9gh6D6L8pMSawimctcNZ5pGwDcEt",
	"DttWaMuVvTiduZRnguLF7jNxTgiMBZ1hyAumKUiL2KRL",
	"3AVi9Tg9Uo68tJfuvoKvqKNWKkC5wPdSSdeBnizKZ6jT",
}

// TipAccountPicker selects the fee recipient for one fee transaction.
// Implementations must be safe for sequential reuse across attempts.
type TipAccountPicker interface {
	Pick() solana.PublicKey
}

// RandomTipPicker picks a uniformly random account from a fixed set. The
// rand source is injected so tests can make the choice reproducible.
type RandomTipPicker struct {
	mu       sync.Mutex
	accounts []solana.PublicKey
	rnd      *rand.Rand
}

// NewRandomTipPicker builds a picker over the given accounts, or over the
// compiled-in default set when accounts is empty.
func NewRandomTipPicker(accounts []string, rnd *rand.Rand) (*RandomTipPicker, error) {
	if len(accounts) == 0 {
		accounts = defaultTipAccounts
	}

	parsed := make([]solana.PublicKey, 0, len(accounts))
	for _, acc := range accounts {
		key, err := solana.PublicKeyFromBase58(acc)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, key)
	}

	return &RandomTipPicker{accounts: parsed, rnd: rnd}, nil
}

// Pick implements TipAccountPicker.
func (p *RandomTipPicker) Pick() solana.PublicKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accounts[p.rnd.Intn(len(p.accounts))]
}
