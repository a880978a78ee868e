package services

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
	"github.com/lorrc/field-service-analytics/internal/core/ports"
)

// ReferenceCache is a read-through FactReader decorator that keeps the
// technician roster and province names for a fixed TTL. Fact reads always
// hit the wrapped reader. A zero TTL disables caching.
type ReferenceCache struct {
	next ports.FactReader
	ttl  time.Duration
	now  func() time.Time

	mu          sync.Mutex
	roster      []domain.Technician
	rosterAt    time.Time
	hasRoster   bool
	provinces   map[string]string
	provincesAt map[string]time.Time
}

var (
	_ ports.FactReader           = (*ReferenceCache)(nil)
	_ ports.ReferenceInvalidator = (*ReferenceCache)(nil)
)

// NewReferenceCache wraps next with a TTL cache.
func NewReferenceCache(next ports.FactReader, ttl time.Duration) *ReferenceCache {
	return &ReferenceCache{
		next:        next,
		ttl:         ttl,
		now:         time.Now,
		provinces:   make(map[string]string),
		provincesAt: make(map[string]time.Time),
	}
}

// ReadAssignedFacts always reads through to the wrapped reader.
func (c *ReferenceCache) ReadAssignedFacts(ctx context.Context, r domain.DateRange) ([]domain.Fact, error) {
	return c.next.ReadAssignedFacts(ctx, r)
}

// ReadConfirmedFacts always reads through to the wrapped reader.
func (c *ReferenceCache) ReadConfirmedFacts(ctx context.Context, r domain.DateRange) ([]domain.Fact, error) {
	return c.next.ReadConfirmedFacts(ctx, r)
}

// ReadTechnicianRoster returns the cached roster while it is fresh.
func (c *ReferenceCache) ReadTechnicianRoster(ctx context.Context) ([]domain.Technician, error) {
	if c.ttl <= 0 {
		return c.next.ReadTechnicianRoster(ctx)
	}

	c.mu.Lock()
	if c.hasRoster && c.fresh(c.rosterAt) {
		roster := append([]domain.Technician(nil), c.roster...)
		c.mu.Unlock()
		return roster, nil
	}
	c.mu.Unlock()

	roster, err := c.next.ReadTechnicianRoster(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.roster = append([]domain.Technician(nil), roster...)
	c.rosterAt = c.now()
	c.hasRoster = true
	c.mu.Unlock()
	return roster, nil
}

// ResolveGeographyNames serves fresh codes from the cache and fetches the
// rest in a single call.
func (c *ReferenceCache) ResolveGeographyNames(ctx context.Context, codes []string) (map[string]string, error) {
	if c.ttl <= 0 {
		return c.next.ResolveGeographyNames(ctx, codes)
	}

	names := make(map[string]string, len(codes))
	var missing []string

	c.mu.Lock()
	for _, code := range lo.Uniq(codes) {
		at, ok := c.provincesAt[code]
		if ok && c.fresh(at) {
			if name, known := c.provinces[code]; known {
				names[code] = name
			}
			continue
		}
		missing = append(missing, code)
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return names, nil
	}

	fetched, err := c.next.ResolveGeographyNames(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	now := c.now()
	for _, code := range missing {
		// Unknown codes are cached as misses so they are not re-queried.
		c.provincesAt[code] = now
		if name, ok := fetched[code]; ok {
			c.provinces[code] = name
			names[code] = name
		} else {
			delete(c.provinces, code)
		}
	}
	c.mu.Unlock()

	return names, nil
}

// Invalidate drops every cached entry.
func (c *ReferenceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roster = nil
	c.hasRoster = false
	c.provinces = make(map[string]string)
	c.provincesAt = make(map[string]time.Time)
}

func (c *ReferenceCache) fresh(at time.Time) bool {
	return c.now().Sub(at) < c.ttl
}
