package geo

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"

	"github.com/sarayu-uu/22STUCHH010195/model"
)

const ipwhoisEndpoint = "https://ipwho.is/"

// IPWhois resolves client IPs against the ipwho.is API. Successful
// lookups are cached per IP with a TTL; failures and private addresses
// degrade to a location with only the IP filled in, never an error.
type IPWhois struct {
	client *http.Client
	cache  *ristretto.Cache
	ttl    time.Duration
}

// NewIPWhois creates a lookup sampler with a per-IP result cache of at
// most maxEntries entries held for ttl.
func NewIPWhois(ttl time.Duration, maxEntries int64) (*IPWhois, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &IPWhois{
		client: &http.Client{Timeout: 2 * time.Second},
		cache:  cache,
		ttl:    ttl,
	}, nil
}

func (g *IPWhois) Locate(ctx context.Context, ip string) model.Geolocation {
	host, _, err := net.SplitHostPort(ip)
	if err == nil {
		ip = host
	}

	fallback := model.Geolocation{IP: ip}
	if ip == "" || isPrivateIP(ip) {
		return fallback
	}

	if cached, found := g.cache.Get(ip); found {
		if loc, ok := cached.(model.Geolocation); ok {
			return loc
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ipwhoisEndpoint+ip, nil)
	if err != nil {
		return fallback
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("category", "geo").Str("ip", ip).Msg("Geolocation lookup failed")
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	var out struct {
		Success bool   `json:"success"`
		Country string `json:"country"`
		City    string `json:"city"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || !out.Success {
		return fallback
	}

	loc := model.Geolocation{Country: out.Country, City: out.City, IP: ip}
	g.cache.SetWithTTL(ip, loc, 1, g.ttl)
	return loc
}

// Close shuts down the lookup cache.
func (g *IPWhois) Close() {
	g.cache.Close()
}

func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast()
}
