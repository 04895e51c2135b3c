package inventory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/infrastructure/logging"
)

// UrgencyPolicy is the fixed threshold table deriving order urgency from a
// requirement's priority tier and lead time.
type UrgencyPolicy struct {
	CriticalMaxTier     entities.PriorityTier
	CriticalMaxLeadDays int
	HighMaxTier         entities.PriorityTier
}

// DefaultUrgencyPolicy returns tier 1 with lead time up to 2 days as CRITICAL
// and tiers up to 2 as HIGH.
func DefaultUrgencyPolicy() UrgencyPolicy {
	return UrgencyPolicy{
		CriticalMaxTier:     entities.TierCritical,
		CriticalMaxLeadDays: 2,
		HighMaxTier:         entities.TierHigh,
	}
}

// Classify returns the urgency for a requirement
func (p UrgencyPolicy) Classify(tier entities.PriorityTier, leadTimeDays int) entities.Urgency {
	switch {
	case tier <= p.CriticalMaxTier && leadTimeDays <= p.CriticalMaxLeadDays:
		return entities.UrgencyCritical
	case tier <= p.HighMaxTier:
		return entities.UrgencyHigh
	default:
		return entities.UrgencyNormal
	}
}

// GapAnalyzer turns per-patient consumption rules into purchase order directives
type GapAnalyzer struct {
	policy              UrgencyPolicy
	missingStockDefault entities.Quantity
	logger              *zap.Logger
}

// NewGapAnalyzer creates a gap analyzer. missingStockDefault is the on-hand
// quantity assumed for SKUs absent from the snapshot.
func NewGapAnalyzer(policy UrgencyPolicy, missingStockDefault entities.Quantity, logger *zap.Logger) *GapAnalyzer {
	return &GapAnalyzer{
		policy:              policy,
		missingStockDefault: missingStockDefault,
		logger:              logging.OrNop(logger),
	}
}

// AnalysisResult holds the directives and data gaps from one analysis
type AnalysisResult struct {
	Orders   []entities.PurchaseOrderDirective
	Warnings []entities.DataGapWarning
}

// Analyze computes per-SKU shortfall against predicted demand inflated by the
// safety buffer. Orders are sorted by ascending tier, then descending
// shortfall, then SKU.
func (a *GapAnalyzer) Analyze(
	requirements []entities.ResourceRequirement,
	snapshot *entities.InventorySnapshot,
	predictedPatients int,
	safetyBuffer decimal.Decimal,
) (*AnalysisResult, error) {
	if predictedPatients < 0 {
		return nil, fmt.Errorf("predicted patients cannot be negative, got %d", predictedPatients)
	}
	if !safetyBuffer.IsPositive() {
		return nil, fmt.Errorf("safety buffer must be positive, got %s", safetyBuffer)
	}

	result := &AnalysisResult{
		Orders:   make([]entities.PurchaseOrderDirective, 0),
		Warnings: make([]entities.DataGapWarning, 0),
	}
	predicted := decimal.NewFromInt(int64(predictedPatients))

	for _, req := range requirements {
		if req.Kind != entities.Inventory {
			continue
		}

		requiredUnits := predicted.Mul(req.Coefficient)
		bufferedTarget := requiredUnits.Mul(safetyBuffer)

		record, found := snapshot.Record(req.SKU())
		if !found {
			record = entities.InventoryRecord{SKU: req.SKU(), OnHand: a.missingStockDefault}
			warning := entities.DataGapWarning{
				Kind:      entities.MissingInventory,
				Resource:  req.Name,
				Defaulted: a.missingStockDefault,
			}
			result.Warnings = append(result.Warnings, warning)
			a.logger.Warn("inventory snapshot missing SKU",
				zap.String("sku", req.Name),
				zap.Int64("assumed_on_hand", int64(a.missingStockDefault)))
		}

		effective := record.EffectiveStock()
		stockGap := decimal.NewFromInt(int64(effective)).Sub(bufferedTarget)
		if !stockGap.IsNegative() {
			continue
		}

		shortfall := stockGap.Neg()
		order, err := entities.NewPurchaseOrderDirective(
			req.SKU(),
			itemName(req, record),
			effective,
			entities.Quantity(requiredUnits.Ceil().IntPart()),
			entities.Quantity(shortfall.Ceil().IntPart()),
			a.policy.Classify(req.Tier, req.LeadTimeDays),
			vendorFor(req, record),
			req.Tier,
			req.LeadTimeDays,
			shortfall,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to build purchase order for %s: %w", req.Name, err)
		}

		a.logger.Debug("inventory shortfall",
			zap.String("sku", req.Name),
			zap.String("required_units", requiredUnits.String()),
			zap.Int64("effective_stock", int64(effective)),
			zap.Int64("order_qty", int64(order.Quantity)),
			zap.String("urgency", order.Urgency.String()))

		result.Orders = append(result.Orders, *order)
	}

	SortOrders(result.Orders)
	return result, nil
}

// SortOrders applies the deterministic purchase order ordering in place
func SortOrders(orders []entities.PurchaseOrderDirective) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Tier != orders[j].Tier {
			return orders[i].Tier < orders[j].Tier
		}
		if c := orders[i].Shortfall.Cmp(orders[j].Shortfall); c != 0 {
			return c > 0
		}
		return orders[i].SKU < orders[j].SKU
	})
}

func itemName(req entities.ResourceRequirement, record entities.InventoryRecord) string {
	if req.DisplayName != "" && req.DisplayName != req.Name {
		return req.DisplayName
	}
	if record.ItemName != "" {
		return record.ItemName
	}
	return req.Name
}

// vendorFor takes the snapshot's vendor; the knowledge-base vendor covers SKUs the snapshot lacks
func vendorFor(req entities.ResourceRequirement, record entities.InventoryRecord) string {
	if record.VendorID != "" {
		return record.VendorID
	}
	return req.VendorID
}
