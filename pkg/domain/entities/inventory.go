package entities

import (
	"fmt"
	"sort"
	"time"
)

// InventoryRecord is the on-hand position of one SKU
type InventoryRecord struct {
	SKU      SKU
	ItemName string
	OnHand   Quantity
	// CommittedIncoming counts units already on order so repeated runs do not double-order.
	CommittedIncoming Quantity
	VendorID          string
}

// EffectiveStock is on-hand plus committed incoming units
func (r InventoryRecord) EffectiveStock() Quantity {
	return r.OnHand + r.CommittedIncoming
}

// InventorySnapshot is a read-only view of stock keyed by SKU
type InventorySnapshot struct {
	asOf    time.Time
	records map[SKU]InventoryRecord
}

// NewInventorySnapshot creates a validated InventorySnapshot
func NewInventorySnapshot(asOf time.Time, records []InventoryRecord) (*InventorySnapshot, error) {
	byKey := make(map[SKU]InventoryRecord, len(records))
	for _, r := range records {
		if string(r.SKU) == "" {
			return nil, fmt.Errorf("SKU cannot be empty")
		}
		if r.OnHand < 0 {
			return nil, fmt.Errorf("on-hand quantity cannot be negative for %s, got %d", r.SKU, r.OnHand)
		}
		if r.CommittedIncoming < 0 {
			return nil, fmt.Errorf("committed incoming cannot be negative for %s, got %d", r.SKU, r.CommittedIncoming)
		}
		if _, dup := byKey[r.SKU]; dup {
			return nil, fmt.Errorf("duplicate SKU %s in inventory snapshot", r.SKU)
		}
		byKey[r.SKU] = r
	}

	return &InventorySnapshot{asOf: asOf, records: byKey}, nil
}

// EmptyInventorySnapshot returns a snapshot with no stock recorded
func EmptyInventorySnapshot(asOf time.Time) *InventorySnapshot {
	return &InventorySnapshot{asOf: asOf, records: map[SKU]InventoryRecord{}}
}

// AsOf is the time the snapshot was taken
func (s *InventorySnapshot) AsOf() time.Time {
	return s.asOf
}

// Record returns the stock record for a SKU
func (s *InventorySnapshot) Record(sku SKU) (InventoryRecord, bool) {
	if s == nil {
		return InventoryRecord{}, false
	}
	r, ok := s.records[sku]
	return r, ok
}

// Len returns the number of SKUs in the snapshot
func (s *InventorySnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Records returns a copy of all records sorted by SKU
func (s *InventorySnapshot) Records() []InventoryRecord {
	if s == nil {
		return nil
	}
	out := make([]InventoryRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SKU < out[j].SKU
	})
	return out
}
