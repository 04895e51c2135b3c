package orchestration

import (
	"context"
	"fmt"
	"testing"

	"github.com/vsinha/surgealloc/pkg/application/services/inventory"
	"github.com/vsinha/surgealloc/pkg/application/services/staffing"
	"github.com/vsinha/surgealloc/pkg/domain/entities"
	testhelpers "github.com/vsinha/surgealloc/pkg/infrastructure/testing"
)

func newBenchmarkOrchestrator() *AllocationOrchestrator {
	return NewAllocationOrchestrator(
		testhelpers.DefaultMappings(),
		inventory.NewGapAnalyzer(inventory.DefaultUrgencyPolicy(), 0, nil),
		staffing.NewOptimizer(staffing.DefaultPolicy(testhelpers.HospitalDepartments()), nil),
		DefaultSettings(),
		nil,
	)
}

func BenchmarkBuildPlan_RespiratorySurge(b *testing.B) {
	ctx := context.Background()
	o := newBenchmarkOrchestrator()
	req := respiratoryRequest(150)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := o.BuildPlan(ctx, req); err != nil {
			b.Fatalf("BuildPlan failed: %v", err)
		}
	}
}

func BenchmarkBuildPlan_LargeRoster(b *testing.B) {
	ctx := context.Background()
	o := newBenchmarkOrchestrator()

	// many small departments to donate from
	entries := []entities.RosterEntry{testhelpers.Roster("general_nurse", "Emergency", 10)}
	for i := 0; i < 500; i++ {
		entries = append(entries, testhelpers.Roster("general_nurse", fmt.Sprintf("Clinic-%03d", i), 3))
	}
	req := PlanRequest{
		PredictedPatients:  2000,
		Condition:          entities.GeneralSurge,
		TargetDepartment:   "Emergency",
		Staffing:           testhelpers.MustStaffing(entries...),
		ForecastConfidence: 0.8,
		Date:               planDate,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := o.BuildPlan(ctx, req); err != nil {
			b.Fatalf("BuildPlan failed: %v", err)
		}
	}
}
