package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Urgency represents how quickly a purchase order must be actioned
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyHigh
	UrgencyCritical
)

// String method for Urgency enum
func (u Urgency) String() string {
	switch u {
	case UrgencyCritical:
		return "CRITICAL"
	case UrgencyHigh:
		return "HIGH"
	case UrgencyNormal:
		return "NORMAL"
	default:
		return "UNKNOWN"
	}
}

// PurchaseOrderDirective instructs procurement to order stock for one SKU
type PurchaseOrderDirective struct {
	SKU             SKU
	ItemName        string
	CurrentStock    Quantity
	PredictedDemand Quantity
	Quantity        Quantity
	Urgency         Urgency
	VendorID        string
	Tier            PriorityTier
	LeadTimeDays    int
	Shortfall       decimal.Decimal
}

// NewPurchaseOrderDirective creates a validated PurchaseOrderDirective
func NewPurchaseOrderDirective(
	sku SKU,
	itemName string,
	currentStock, predictedDemand, quantity Quantity,
	urgency Urgency,
	vendorID string,
	tier PriorityTier,
	leadTimeDays int,
	shortfall decimal.Decimal,
) (*PurchaseOrderDirective, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("SKU cannot be empty")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("order quantity must be positive for %s, got %d", sku, quantity)
	}
	if currentStock < 0 {
		return nil, fmt.Errorf("current stock cannot be negative for %s, got %d", sku, currentStock)
	}

	return &PurchaseOrderDirective{
		SKU:             sku,
		ItemName:        itemName,
		CurrentStock:    currentStock,
		PredictedDemand: predictedDemand,
		Quantity:        quantity,
		Urgency:         urgency,
		VendorID:        vendorID,
		Tier:            tier,
		LeadTimeDays:    leadTimeDays,
		Shortfall:       shortfall,
	}, nil
}
