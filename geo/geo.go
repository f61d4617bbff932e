// Package geo supplies the location snapshot attached to click events.
package geo

import (
	"context"
	"math/rand"
	"sync"

	"github.com/sarayu-uu/22STUCHH010195/model"
)

// Sampler produces a geolocation for a click. Implementations may
// ignore the client IP (the stub does) or use it for a real lookup.
type Sampler interface {
	Locate(ctx context.Context, ip string) model.Geolocation
}

// stubLocations is the fixed candidate set the stub draws from.
var stubLocations = []model.Geolocation{
	{Country: "United States", City: "New York", IP: "192.168.1.1"},
	{Country: "United Kingdom", City: "London", IP: "192.168.1.2"},
	{Country: "Germany", City: "Berlin", IP: "192.168.1.3"},
	{Country: "France", City: "Paris", IP: "192.168.1.4"},
	{Country: "Japan", City: "Tokyo", IP: "192.168.1.5"},
}

// Stub returns one tuple chosen uniformly at random from a small fixed
// candidate list. Real geolocation needs permissions and a provider;
// the stub keeps the contract in place without either.
type Stub struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStub creates a Stub drawing from the given random source.
func NewStub(rng *rand.Rand) *Stub {
	return &Stub{rng: rng}
}

func (s *Stub) Locate(ctx context.Context, ip string) model.Geolocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stubLocations[s.rng.Intn(len(stubLocations))]
}
