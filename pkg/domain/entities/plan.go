package entities

import (
	"time"

	"github.com/google/uuid"
)

// AllocationPlan is the single output of an allocation run. It is built once
// and never modified afterwards.
type AllocationPlan struct {
	ID                 uuid.UUID
	Date               time.Time
	Condition          ConditionType
	TargetDepartment   string
	PredictedPatients  int
	ForecastConfidence float64
	PurchaseOrders     []PurchaseOrderDirective
	StaffingDirectives []StaffingDirective
	Advisories         []string
	Warnings           []DataGapWarning
	RoleOutcomes       []RoleOutcome
	Escalations        []EscalationExhaustedInfo
	GeneratedAt        time.Time
}

// DirectiveCount returns the number of purchase order and staffing directives
func (p *AllocationPlan) DirectiveCount() int {
	return len(p.PurchaseOrders) + len(p.StaffingDirectives)
}

// HasCriticalOrder reports whether any purchase order is CRITICAL
func (p *AllocationPlan) HasCriticalOrder() bool {
	for _, po := range p.PurchaseOrders {
		if po.Urgency == UrgencyCritical {
			return true
		}
	}
	return false
}

// TotalUnitsOrdered sums the quantity across all purchase orders
func (p *AllocationPlan) TotalUnitsOrdered() Quantity {
	var total Quantity
	for _, po := range p.PurchaseOrders {
		total += po.Quantity
	}
	return total
}

// StaffRequested sums directive counts per staffing action
func (p *AllocationPlan) StaffRequested() map[StaffingAction]Quantity {
	totals := make(map[StaffingAction]Quantity)
	for _, d := range p.StaffingDirectives {
		totals[d.Action] += d.Count
	}
	return totals
}
