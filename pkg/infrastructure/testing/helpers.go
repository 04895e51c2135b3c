package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/infrastructure/repositories/memory"
)

// SnapshotTime is the fixed as-of time used by fixtures
var SnapshotTime = time.Date(2025, 10, 20, 6, 0, 0, 0, time.UTC)

// MustInventory builds an inventory snapshot from SKU to on-hand pairs - panics on validation error
func MustInventory(onHand map[entities.SKU]entities.Quantity) *entities.InventorySnapshot {
	records := make([]entities.InventoryRecord, 0, len(onHand))
	for sku, qty := range onHand {
		records = append(records, entities.InventoryRecord{SKU: sku, OnHand: qty})
	}
	snap, err := entities.NewInventorySnapshot(SnapshotTime, records)
	if err != nil {
		panic(err)
	}
	return snap
}

// MustStaffing builds a staffing snapshot - panics on validation error
func MustStaffing(entries ...entities.RosterEntry) *entities.StaffingSnapshot {
	snap, err := entities.NewStaffingSnapshot(SnapshotTime, entries)
	if err != nil {
		panic(err)
	}
	return snap
}

// Roster is shorthand for a RosterEntry
func Roster(role, department string, count entities.Quantity) entities.RosterEntry {
	return entities.RosterEntry{Role: role, Department: department, Count: count}
}

// StaffRule is shorthand for an on-call eligible staffing requirement
func StaffRule(role, ratio string, tier entities.PriorityTier) entities.ResourceRequirement {
	return entities.ResourceRequirement{
		Kind:             entities.Staffing,
		Name:             role,
		DisplayName:      role,
		Coefficient:      decimal.RequireFromString(ratio),
		Tier:             tier,
		OnCallAcceptable: true,
	}
}

// StockRule is shorthand for an inventory requirement
func StockRule(sku, perPatient string, tier entities.PriorityTier, leadTimeDays int, vendor string) entities.ResourceRequirement {
	return entities.ResourceRequirement{
		Kind:         entities.Inventory,
		Name:         sku,
		DisplayName:  sku,
		Coefficient:  decimal.RequireFromString(perPatient),
		LeadTimeDays: leadTimeDays,
		Tier:         tier,
		VendorID:     vendor,
	}
}

// HospitalDepartments returns the standard department priorities
func HospitalDepartments() []entities.Department {
	return []entities.Department{
		{Name: "Emergency", Priority: 1},
		{Name: "ICU", Priority: 1},
		{Name: "Surgery", Priority: 2},
		{Name: "OPD", Priority: 4},
		{Name: "Dermatology", Priority: 5},
	}
}

// DefaultMappings returns the built-in mapping repository - panics on validation error
func DefaultMappings() *memory.ResourceMappingRepository {
	repo, err := memory.NewDefaultResourceMappingRepository()
	if err != nil {
		panic(err)
	}
	return repo
}

// RespiratorySurgeStaffing is a roster where Emergency is short on respiratory
// therapists and OPD holds a surplus of 8 above the retained minimum.
func RespiratorySurgeStaffing() *entities.StaffingSnapshot {
	return MustStaffing(
		Roster("respiratory_therapist", "Emergency", 5),
		Roster("respiratory_therapist", "OPD", 9),
		Roster("respiratory_therapist", "ICU", 6),
		Roster("pulmonologist", "Emergency", 8),
		Roster("general_nurse", "Emergency", 40),
		Roster("general_nurse", "OPD", 12),
	)
}

// RespiratorySurgeInventory stocks every respiratory SKU generously except nebulizer masks
func RespiratorySurgeInventory() *entities.InventorySnapshot {
	return MustInventory(map[entities.SKU]entities.Quantity{
		"MED-NEB-001":  50,
		"MED-ALB-500":  1000,
		"MED-OXY-D":    500,
		"PPE-N95-001":  2000,
		"MED-PULOX-01": 100,
	})
}
