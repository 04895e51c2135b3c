package entities

import (
	"fmt"
	"strings"
)

// SKU identifies a stocked inventory item
type SKU string

// Quantity represents an integer count of stock units or staff
type Quantity int64

// ResourceKind distinguishes consumable inventory from staffing requirements
type ResourceKind int

const (
	Inventory ResourceKind = iota
	Staffing
)

// String method for ResourceKind enum
func (k ResourceKind) String() string {
	switch k {
	case Inventory:
		return "Inventory"
	case Staffing:
		return "Staffing"
	default:
		return "Unknown"
	}
}

// PriorityTier ranks requirement urgency, lower is more urgent
type PriorityTier int

const (
	TierCritical PriorityTier = 1
	TierHigh     PriorityTier = 2
	TierMedium   PriorityTier = 3
	TierLow      PriorityTier = 4
)

// String returns the knowledge base label for the tier
func (p PriorityTier) String() string {
	switch p {
	case TierCritical:
		return "critical"
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	case TierLow:
		return "low"
	default:
		return fmt.Sprintf("tier-%d", int(p))
	}
}

// ParsePriorityTier converts a knowledge base label such as "critical" into a tier
func ParsePriorityTier(label string) (PriorityTier, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "critical":
		return TierCritical, nil
	case "high":
		return TierHigh, nil
	case "medium":
		return TierMedium, nil
	case "low":
		return TierLow, nil
	default:
		return 0, fmt.Errorf("unknown priority label %q", label)
	}
}
