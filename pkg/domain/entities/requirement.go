package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ResourceRequirement is a static rule describing how much of one resource a
// single predicted patient consumes under a given condition.
type ResourceRequirement struct {
	Kind         ResourceKind
	Name         string // SKU for inventory, role for staffing
	DisplayName  string
	Coefficient  decimal.Decimal
	LeadTimeDays int
	Tier         PriorityTier
	VendorID     string
	UnitType     string
	// OnCallAcceptable allows gaps for this role to be filled from the on-call pool.
	// Ignored for inventory.
	OnCallAcceptable bool
}

// NewResourceRequirement creates a validated ResourceRequirement
func NewResourceRequirement(
	kind ResourceKind,
	name, displayName string,
	coefficient decimal.Decimal,
	leadTimeDays int,
	tier PriorityTier,
	vendorID, unitType string,
) (*ResourceRequirement, error) {
	if name == "" {
		return nil, fmt.Errorf("resource name cannot be empty")
	}
	if coefficient.IsNegative() {
		return nil, fmt.Errorf("coefficient cannot be negative for %s, got %s", name, coefficient)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative for %s, got %d", name, leadTimeDays)
	}
	if tier < TierCritical {
		return nil, fmt.Errorf("priority tier must be at least 1 for %s, got %d", name, tier)
	}
	if displayName == "" {
		displayName = name
	}

	return &ResourceRequirement{
		Kind:         kind,
		Name:         name,
		DisplayName:  displayName,
		Coefficient:  coefficient,
		LeadTimeDays: leadTimeDays,
		Tier:         tier,
		VendorID:     vendorID,
		UnitType:     unitType,
		// staffing roles default to on-call eligible; callers opt out per role
		OnCallAcceptable: kind == Staffing,
	}, nil
}

// SKU returns the requirement name as an inventory identifier
func (r ResourceRequirement) SKU() SKU {
	return SKU(r.Name)
}

// ConditionProfile groups the ordered requirements for one condition
type ConditionProfile struct {
	Condition        ConditionType
	Name             string
	Description      string
	VolumeMultiplier decimal.Decimal
	Requirements     []ResourceRequirement
}

// ByKind returns the requirements of the given kind, preserving table order
func (p ConditionProfile) ByKind(kind ResourceKind) []ResourceRequirement {
	var out []ResourceRequirement
	for _, r := range p.Requirements {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}
