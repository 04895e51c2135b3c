package events

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

const (
	PlanBuiltEvent               = "plan.built"
	PurchaseOrderIssuedEvent     = "purchase_order.issued"
	StaffingDirectiveIssuedEvent = "staffing.directive_issued"
	EscalationExhaustedEvent     = "escalation.exhausted"
	DataGapDetectedEvent         = "data_gap.detected"
)

type PlanBuilt struct {
	PlanID             string    `json:"plan_id"`
	Date               string    `json:"date"`
	Condition          string    `json:"condition"`
	TargetDepartment   string    `json:"target_department"`
	PredictedPatients  int       `json:"predicted_patients"`
	ForecastConfidence float64   `json:"forecast_confidence"`
	PurchaseOrders     int       `json:"purchase_orders"`
	StaffingDirectives int       `json:"staffing_directives"`
	Advisories         []string  `json:"advisories"`
	GeneratedAt        time.Time `json:"generated_at"`
}

type PurchaseOrderIssued struct {
	PlanID          string `json:"plan_id"`
	SKU             string `json:"sku"`
	ItemName        string `json:"item_name"`
	Quantity        int64  `json:"quantity"`
	Urgency         string `json:"urgency"`
	VendorID        string `json:"vendor_id"`
	CurrentStock    int64  `json:"current_stock"`
	PredictedDemand int64  `json:"predicted_demand"`
}

type StaffingDirectiveIssued struct {
	PlanID           string `json:"plan_id"`
	Role             string `json:"role"`
	Action           string `json:"action"`
	SourceDepartment string `json:"source_department,omitempty"`
	TargetDepartment string `json:"target_department"`
	Count            int64  `json:"count"`
}

type EscalationExhausted struct {
	PlanID     string `json:"plan_id"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

type DataGapDetected struct {
	PlanID     string `json:"plan_id"`
	Kind       string `json:"kind"`
	Resource   string `json:"resource"`
	Department string `json:"department,omitempty"`
	Defaulted  int64  `json:"defaulted"`
}

// PlanStreamID names the stream that carries one plan's events
func PlanStreamID(plan *entities.AllocationPlan) string {
	return "plan-" + plan.ID.String()
}

// PlanEvents expands a plan into its events: the plan summary first, then
// one event per directive, escalation and data gap in plan order
func PlanEvents(plan *entities.AllocationPlan) []Event {
	stream := PlanStreamID(plan)
	planID := plan.ID.String()

	events := []Event{NewEvent(PlanBuiltEvent, stream, PlanBuilt{
		PlanID:             planID,
		Date:               plan.Date.Format("2006-01-02"),
		Condition:          string(plan.Condition),
		TargetDepartment:   plan.TargetDepartment,
		PredictedPatients:  plan.PredictedPatients,
		ForecastConfidence: plan.ForecastConfidence,
		PurchaseOrders:     len(plan.PurchaseOrders),
		StaffingDirectives: len(plan.StaffingDirectives),
		Advisories:         plan.Advisories,
		GeneratedAt:        plan.GeneratedAt,
	})}

	for _, po := range plan.PurchaseOrders {
		events = append(events, NewEvent(PurchaseOrderIssuedEvent, stream, PurchaseOrderIssued{
			PlanID:          planID,
			SKU:             string(po.SKU),
			ItemName:        po.ItemName,
			Quantity:        int64(po.Quantity),
			Urgency:         po.Urgency.String(),
			VendorID:        po.VendorID,
			CurrentStock:    int64(po.CurrentStock),
			PredictedDemand: int64(po.PredictedDemand),
		}))
	}

	for _, d := range plan.StaffingDirectives {
		events = append(events, NewEvent(StaffingDirectiveIssuedEvent, stream, StaffingDirectiveIssued{
			PlanID:           planID,
			Role:             d.Role,
			Action:           d.Action.String(),
			SourceDepartment: d.SourceDepartment,
			TargetDepartment: d.TargetDepartment,
			Count:            int64(d.Count),
		}))
	}

	for _, e := range plan.Escalations {
		events = append(events, NewEvent(EscalationExhaustedEvent, stream, EscalationExhausted{
			PlanID:     planID,
			Role:       e.Role,
			Department: e.Department,
			Count:      int64(e.Count),
		}))
	}

	for _, w := range plan.Warnings {
		events = append(events, NewEvent(DataGapDetectedEvent, stream, DataGapDetected{
			PlanID:     planID,
			Kind:       w.Kind.String(),
			Resource:   w.Resource,
			Department: w.Department,
			Defaulted:  int64(w.Defaulted),
		}))
	}

	return events
}

// PublishPlan publishes every event of the plan, stopping at the first failure
func PublishPlan(ctx context.Context, publisher Publisher, plan *entities.AllocationPlan) (int, error) {
	published := 0
	for _, event := range PlanEvents(plan) {
		if err := publisher.Publish(ctx, event); err != nil {
			return published, fmt.Errorf("failed to publish %s for plan %s: %w", event.Type(), plan.ID, err)
		}
		published++
	}
	return published, nil
}
