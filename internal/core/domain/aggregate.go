package domain

import (
	"sort"

	"github.com/samber/lo"
)

// Bucket accumulates the facts sharing one dimension value. Counts are set
// cardinalities, so a repeated (ticket, technician) pair never inflates them.
type Bucket struct {
	Key         string
	Tickets     map[string]struct{}
	Technicians map[string]struct{}
}

func newBucket(key string) *Bucket {
	return &Bucket{
		Key:         key,
		Tickets:     make(map[string]struct{}),
		Technicians: make(map[string]struct{}),
	}
}

// Add records a ticket and technician in the bucket.
func (b *Bucket) Add(ticketID, employeeID string) {
	if ticketID != "" {
		b.Tickets[ticketID] = struct{}{}
	}
	if employeeID != "" {
		b.Technicians[employeeID] = struct{}{}
	}
}

// TicketCount returns the number of distinct tickets.
func (b *Bucket) TicketCount() int {
	return len(b.Tickets)
}

// TechnicianCount returns the number of distinct technicians.
func (b *Bucket) TechnicianCount() int {
	return len(b.Technicians)
}

// BucketCount is the serializable view of a bucket.
type BucketCount struct {
	Key             string `json:"key"`
	Name            string `json:"name,omitempty"`
	TicketCount     int    `json:"ticket_count"`
	TechnicianCount int    `json:"technician_count"`
}

// BucketSet holds the buckets of one dimension in encounter order.
type BucketSet struct {
	Dimension Dimension
	order     []string
	buckets   map[string]*Bucket
}

// NewBucketSet creates an empty set for the dimension.
func NewBucketSet(d Dimension) *BucketSet {
	return &BucketSet{
		Dimension: d,
		buckets:   make(map[string]*Bucket),
	}
}

// Add folds a fact into its bucket. Facts that do not resolve the
// dimension are skipped.
func (s *BucketSet) Add(fact Fact) {
	key, ok := fact.Value(s.Dimension)
	if !ok {
		return
	}
	bucket, exists := s.buckets[key]
	if !exists {
		bucket = newBucket(key)
		s.buckets[key] = bucket
		s.order = append(s.order, key)
	}
	bucket.Add(fact.TicketID, fact.EmployeeID)
}

// Get returns the bucket for key.
func (s *BucketSet) Get(key string) (*Bucket, bool) {
	bucket, ok := s.buckets[key]
	return bucket, ok
}

// Len returns the number of buckets.
func (s *BucketSet) Len() int {
	return len(s.order)
}

// Keys returns bucket keys in encounter order.
func (s *BucketSet) Keys() []string {
	return append([]string(nil), s.order...)
}

// TicketCount returns the distinct ticket count for key, zero if absent.
func (s *BucketSet) TicketCount(key string) int {
	if bucket, ok := s.buckets[key]; ok {
		return bucket.TicketCount()
	}
	return 0
}

// Counts returns every bucket sorted by descending ticket count. Ties keep
// encounter order.
func (s *BucketSet) Counts() []BucketCount {
	counts := lo.Map(s.order, func(key string, _ int) BucketCount {
		bucket := s.buckets[key]
		return BucketCount{
			Key:             key,
			TicketCount:     bucket.TicketCount(),
			TechnicianCount: bucket.TechnicianCount(),
		}
	})
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].TicketCount > counts[j].TicketCount
	})
	return counts
}

// Aggregation is the result of folding one fact stream across every
// dimension in a single pass.
type Aggregation struct {
	Tickets        map[string]struct{}
	Technicians    map[string]struct{}
	KeyTechnicians map[string]struct{}
	byDimension    map[Dimension]*BucketSet
}

// Aggregate folds the facts into overall totals and per-dimension buckets.
func Aggregate(facts []Fact) *Aggregation {
	agg := &Aggregation{
		Tickets:        make(map[string]struct{}),
		Technicians:    make(map[string]struct{}),
		KeyTechnicians: make(map[string]struct{}),
		byDimension:    make(map[Dimension]*BucketSet, len(Dimensions)),
	}
	for _, d := range Dimensions {
		agg.byDimension[d] = NewBucketSet(d)
	}

	for _, fact := range facts {
		agg.Add(fact)
	}
	return agg
}

// Add folds one more fact into the aggregation.
func (a *Aggregation) Add(fact Fact) {
	if fact.TicketID != "" {
		a.Tickets[fact.TicketID] = struct{}{}
	}
	if fact.EmployeeID != "" {
		a.Technicians[fact.EmployeeID] = struct{}{}
		if fact.IsKeyEmployee {
			a.KeyTechnicians[fact.EmployeeID] = struct{}{}
		}
	}
	for _, set := range a.byDimension {
		set.Add(fact)
	}
}

// TicketCount returns the distinct tickets in the stream.
func (a *Aggregation) TicketCount() int {
	return len(a.Tickets)
}

// TechnicianCount returns the distinct technicians in the stream.
func (a *Aggregation) TechnicianCount() int {
	return len(a.Technicians)
}

// KeyTechnicianCount returns the distinct key technicians in the stream.
func (a *Aggregation) KeyTechnicianCount() int {
	return len(a.KeyTechnicians)
}

// HasTechnician reports whether the technician appears in the stream.
func (a *Aggregation) HasTechnician(employeeID string) bool {
	_, ok := a.Technicians[employeeID]
	return ok
}

// Dimension returns the bucket set for d.
func (a *Aggregation) Dimension(d Dimension) *BucketSet {
	if set, ok := a.byDimension[d]; ok {
		return set
	}
	return NewBucketSet(d)
}
