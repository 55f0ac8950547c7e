package registry_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/solarlabs-org/bundle-relayer/internal/registry"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return nil
}

func TestRegistryWithEmptyEndpoints(t *testing.T) {
	cfg := registry.RegistryConfig{}
	r := registry.New(&cfg, &fakeClock{now: time.Now()}, nil)
	assert.True(t, r.IsEmpty())
	assert.Empty(t, r.ListEligible())
}

func TestRegistryKeepsDeclaredOrder(t *testing.T) {
	cfg := registry.RegistryConfig{
		Endpoints: []string{"https://relay-a", "https://relay-b", "https://relay-c"},
	}
	r := registry.New(&cfg, &fakeClock{now: time.Now()}, nil)
	assert.False(t, r.IsEmpty())
	assert.Equal(t, []string{"https://relay-a", "https://relay-b", "https://relay-c"}, r.ListEligible())
	assert.Equal(t, []string{"https://relay-a", "https://relay-b", "https://relay-c"}, r.Endpoints())
}

func TestRegistryCooldownExcludesAndExpires(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cfg := registry.RegistryConfig{
		Endpoints: []string{"https://relay-a", "https://relay-b"},
	}
	r := registry.New(&cfg, clock, nil)

	r.MarkCooldown("https://relay-a", 4*time.Second)
	assert.Equal(t, []string{"https://relay-b"}, r.ListEligible())

	clock.now = clock.now.Add(3999 * time.Millisecond)
	assert.Equal(t, []string{"https://relay-b"}, r.ListEligible())

	clock.now = clock.now.Add(time.Millisecond)
	assert.Equal(t, []string{"https://relay-a", "https://relay-b"}, r.ListEligible())
}

func TestRegistryFailsOpenWhenAllCooledDown(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cfg := registry.RegistryConfig{
		Endpoints: []string{"https://relay-a", "https://relay-b"},
	}
	r := registry.New(&cfg, clock, nil)

	r.MarkCooldown("https://relay-a", 8*time.Second)
	r.MarkCooldown("https://relay-b", 8*time.Second)
	assert.Equal(t, []string{"https://relay-a", "https://relay-b"}, r.ListEligible())
}

func TestRegistryBumpError(t *testing.T) {
	cfg := registry.RegistryConfig{
		Endpoints: []string{"https://relay-a"},
	}
	r := registry.New(&cfg, &fakeClock{now: time.Now()}, nil)

	assert.Equal(t, 1, r.BumpError("https://relay-a"))
	assert.Equal(t, 2, r.BumpError("https://relay-a"))
	assert.Equal(t, 2, r.ErrorCount("https://relay-a"))

	// errors never exclude the endpoint by themselves
	assert.Equal(t, []string{"https://relay-a"}, r.ListEligible())

	assert.Equal(t, 0, r.BumpError("https://unknown"))
}

func TestRegistryShuffleKeepsSet(t *testing.T) {
	cfg := registry.RegistryConfig{
		Endpoints: []string{"https://relay-a", "https://relay-b", "https://relay-c"},
		Shuffle:   true,
	}
	r := registry.New(&cfg, &fakeClock{now: time.Now()}, rand.New(rand.NewSource(42)))

	eligible := r.ListEligible()
	assert.ElementsMatch(t, []string{"https://relay-a", "https://relay-b", "https://relay-c"}, eligible)
}
