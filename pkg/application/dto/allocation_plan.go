package dto

import (
	"encoding/json"
	"io"
	"math"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// ActionGeneratePO is the only inventory action
const ActionGeneratePO = "GENERATE_PO"

// AllocationPlanDocument is the wire form of an allocation plan consumed by
// reporting and dashboards
type AllocationPlanDocument struct {
	Date                  string            `json:"date"`
	SurgeContext          string            `json:"surge_context"`
	PredictedPatientCount int               `json:"predicted_patient_count"`
	ForecastConfidence    float64           `json:"forecast_confidence"`
	InventoryActions      []InventoryAction `json:"inventory_actions"`
	StaffingActions       []StaffingAction  `json:"staffing_actions"`
	OperationalAdvisories []string          `json:"operational_advisories"`
}

// InventoryAction is one purchase order line
type InventoryAction struct {
	ItemName        string `json:"item_name"`
	CurrentStock    int64  `json:"current_stock"`
	PredictedDemand int64  `json:"predicted_demand"`
	Action          string `json:"action"`
	Quantity        int64  `json:"quantity"`
	Priority        string `json:"priority"`
	VendorID        string `json:"vendor_id"`
}

// StaffingAction is one staffing directive line. SourceDept is only set for reallocations.
type StaffingAction struct {
	Role               string `json:"role"`
	CurrentRosterCount int64  `json:"current_roster_count"`
	RequiredCount      int64  `json:"required_count"`
	Action             string `json:"action"`
	SourceDept         string `json:"source_dept,omitempty"`
	TargetDept         string `json:"target_dept"`
	Count              int64  `json:"count"`
}

// FromPlan converts a plan into its wire document. Lists are never nil.
func FromPlan(plan *entities.AllocationPlan) *AllocationPlanDocument {
	doc := &AllocationPlanDocument{
		Date:                  plan.Date.Format("2006-01-02"),
		SurgeContext:          plan.Condition.WireName(),
		PredictedPatientCount: plan.PredictedPatients,
		ForecastConfidence:    math.Round(plan.ForecastConfidence*1000) / 1000,
		InventoryActions:      make([]InventoryAction, 0, len(plan.PurchaseOrders)),
		StaffingActions:       make([]StaffingAction, 0, len(plan.StaffingDirectives)),
		OperationalAdvisories: make([]string, 0, len(plan.Advisories)),
	}

	for _, po := range plan.PurchaseOrders {
		doc.InventoryActions = append(doc.InventoryActions, InventoryAction{
			ItemName:        po.ItemName,
			CurrentStock:    int64(po.CurrentStock),
			PredictedDemand: int64(po.PredictedDemand),
			Action:          ActionGeneratePO,
			Quantity:        int64(po.Quantity),
			Priority:        po.Urgency.String(),
			VendorID:        po.VendorID,
		})
	}

	for _, d := range plan.StaffingDirectives {
		doc.StaffingActions = append(doc.StaffingActions, StaffingAction{
			Role:               d.Role,
			CurrentRosterCount: int64(d.CurrentRosterCount),
			RequiredCount:      int64(d.RequiredCount),
			Action:             d.Action.String(),
			SourceDept:         d.SourceDepartment,
			TargetDept:         d.TargetDepartment,
			Count:              int64(d.Count),
		})
	}

	doc.OperationalAdvisories = append(doc.OperationalAdvisories, plan.Advisories...)
	return doc
}

// WriteJSON writes the document as indented JSON
func (d *AllocationPlanDocument) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}
