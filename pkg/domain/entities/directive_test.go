package entities

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestStaffingDirective_Validation(t *testing.T) {
	d, err := NewStaffingDirective("respiratory_therapist", 5, 15, Reallocate, "OPD", "Emergency", 8)
	if err != nil {
		t.Fatalf("Expected valid directive creation to succeed: %v", err)
	}
	if d.Action.String() != "REALLOCATE" {
		t.Errorf("Expected REALLOCATE, got %s", d.Action)
	}

	testCases := []struct {
		name        string
		action      StaffingAction
		source      string
		count       Quantity
		expectError string
	}{
		{"zero count", OnCall, "", 0, "directive count must be positive"},
		{"reallocate without source", Reallocate, "", 2, "requires a source department"},
		{"on call with source", OnCall, "OPD", 2, "cannot name a source department"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewStaffingDirective("role", 0, 5, tc.action, tc.source, "Emergency", tc.count)
			if err == nil || !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing %q, got %v", tc.expectError, err)
			}
		})
	}
}

func TestPurchaseOrderDirective_Validation(t *testing.T) {
	po, err := NewPurchaseOrderDirective("MED-NEB-001", "Nebulizer Masks", 50, 300, 310, UrgencyCritical, "MEDEQUIP_A", TierCritical, 1, decimal.NewFromInt(310))
	if err != nil {
		t.Fatalf("Expected valid purchase order creation to succeed: %v", err)
	}
	if po.Urgency.String() != "CRITICAL" {
		t.Errorf("Expected CRITICAL, got %s", po.Urgency)
	}

	if _, err := NewPurchaseOrderDirective("X", "", 0, 0, 0, UrgencyNormal, "", TierLow, 0, decimal.Zero); err == nil {
		t.Error("Expected error for zero quantity")
	}
}

func TestAllocationPlan_Summaries(t *testing.T) {
	plan := &AllocationPlan{
		PurchaseOrders: []PurchaseOrderDirective{
			{SKU: "A", Quantity: 10, Urgency: UrgencyHigh},
			{SKU: "B", Quantity: 5, Urgency: UrgencyCritical},
		},
		StaffingDirectives: []StaffingDirective{
			{Role: "r", Action: Reallocate, Count: 3},
			{Role: "r", Action: OnCall, Count: 2},
			{Role: "s", Action: OnCall, Count: 1},
		},
	}

	if plan.DirectiveCount() != 5 {
		t.Errorf("Expected 5 directives, got %d", plan.DirectiveCount())
	}
	if !plan.HasCriticalOrder() {
		t.Error("Expected critical order to be detected")
	}
	if plan.TotalUnitsOrdered() != 15 {
		t.Errorf("Expected 15 units ordered, got %d", plan.TotalUnitsOrdered())
	}
	if plan.StaffRequested()[OnCall] != 3 {
		t.Errorf("Expected 3 on-call staff, got %d", plan.StaffRequested()[OnCall])
	}

	outcome := RoleOutcome{Levels: []StaffingAction{Reallocate, AgencyRequest}}
	if !outcome.UsedAgency() {
		t.Error("Expected outcome to report agency use")
	}
}
