package registry

import (
	"math/rand"
	"sync"
	"time"

	"github.com/solarlabs-org/bundle-relayer/internal/relay"
)

// RegistryConfig represents the config structure for the Registry.
type RegistryConfig struct {
	// Endpoints is the candidate relay URL list in declared priority
	// order, cheapest/most permissive first.
	Endpoints []string
	// Shuffle randomizes the eligible order per round to spread load
	// across concurrent callers.
	Shuffle bool
}

// Registry is the relayer's endpoint watch list. It owns per-endpoint
// cooldown and error state; endpoints are mutated only through its methods.
// Safe for use from concurrent Send calls.
type Registry struct {
	mu      sync.Mutex
	order   []string
	state   map[string]*endpointState
	shuffle bool
	clock   relay.Clock
	rnd     *rand.Rand
}

type endpointState struct {
	cooldownUntil time.Time
	errorCount    int
}

// New instantiates a new *Registry based on the cfg. The rnd is only used
// when cfg.Shuffle is set and may be nil otherwise.
func New(cfg *RegistryConfig, clock relay.Clock, rnd *rand.Rand) *Registry {
	r := &Registry{
		order:   make([]string, 0, len(cfg.Endpoints)),
		state:   make(map[string]*endpointState, len(cfg.Endpoints)),
		shuffle: cfg.Shuffle,
		clock:   clock,
		rnd:     rnd,
	}
	for _, url := range cfg.Endpoints {
		if _, ex := r.state[url]; ex {
			continue
		}
		r.order = append(r.order, url)
		r.state[url] = &endpointState{}
	}
	return r
}

// IsEmpty returns true if the registry candidate list is empty.
func (r *Registry) IsEmpty() bool {
	return len(r.order) == 0
}

// Endpoints returns the full candidate list in declared order.
func (r *Registry) Endpoints() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ListEligible returns the candidates whose cooldown has elapsed, in policy
// order. Cooldown is advisory: if every candidate is cooled down the full
// list is returned instead, so the caller is never locked out entirely.
func (r *Registry) ListEligible() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	eligible := make([]string, 0, len(r.order))
	for _, url := range r.order {
		if r.state[url].cooldownUntil.After(now) {
			continue
		}
		eligible = append(eligible, url)
	}

	if len(eligible) == 0 {
		eligible = append(eligible, r.order...)
	}

	if r.shuffle && r.rnd != nil {
		r.rnd.Shuffle(len(eligible), func(i, j int) {
			eligible[i], eligible[j] = eligible[j], eligible[i]
		})
	}

	return eligible
}

// MarkCooldown deprioritizes url for the given duration. Unknown urls are
// ignored.
func (r *Registry) MarkCooldown(url string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ex := r.state[url]
	if !ex {
		return
	}
	st.cooldownUntil = r.clock.Now().Add(d)
}

// BumpError increments and returns the error counter for url. The counter
// is observability state only and never excludes an endpoint by itself.
func (r *Registry) BumpError(url string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ex := r.state[url]
	if !ex {
		return 0
	}
	st.errorCount++
	return st.errorCount
}

// ErrorCount returns the current error counter for url.
func (r *Registry) ErrorCount(url string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if st, ex := r.state[url]; ex {
		return st.errorCount
	}
	return 0
}
