package orchestration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vsinha/surgealloc/pkg/application/services/inventory"
	"github.com/vsinha/surgealloc/pkg/application/services/staffing"
	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/domain/repositories"
	"github.com/vsinha/surgealloc/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/surgealloc/pkg/infrastructure/testing"
)

var planDate = time.Date(2025, 10, 21, 0, 0, 0, 0, time.UTC)

func newOrchestrator(t *testing.T, mappings repositories.ResourceMappingRepository, logger *zap.Logger) *AllocationOrchestrator {
	t.Helper()
	o := NewAllocationOrchestrator(
		mappings,
		inventory.NewGapAnalyzer(inventory.DefaultUrgencyPolicy(), 0, logger),
		staffing.NewOptimizer(staffing.DefaultPolicy(testhelpers.HospitalDepartments()), logger),
		DefaultSettings(),
		logger,
	)
	o.now = func() time.Time { return planDate.Add(6 * time.Hour) }
	return o
}

func respiratoryRequest(predicted int) PlanRequest {
	return PlanRequest{
		PredictedPatients:  predicted,
		Condition:          entities.RespiratorySurge,
		TargetDepartment:   "Emergency",
		Inventory:          testhelpers.RespiratorySurgeInventory(),
		Staffing:           testhelpers.RespiratorySurgeStaffing(),
		ForecastConfidence: 0.85,
		Date:               planDate,
	}
}

func countPrefix(advisories []string, prefix string) int {
	n := 0
	for _, a := range advisories {
		if strings.HasPrefix(a, prefix) {
			n++
		}
	}
	return n
}

func TestBuildPlan_RespiratorySurge(t *testing.T) {
	o := newOrchestrator(t, testhelpers.DefaultMappings(), nil)

	plan, err := o.BuildPlan(context.Background(), respiratoryRequest(150))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, plan.ID)
	assert.Equal(t, planDate, plan.Date)
	assert.Equal(t, entities.RespiratorySurge, plan.Condition)
	assert.Equal(t, 150, plan.PredictedPatients)

	require.Len(t, plan.PurchaseOrders, 1)
	po := plan.PurchaseOrders[0]
	assert.Equal(t, entities.SKU("MED-NEB-001"), po.SKU)
	assert.EqualValues(t, 310, po.Quantity)
	assert.Equal(t, entities.UrgencyCritical, po.Urgency)

	type row struct {
		Action entities.StaffingAction
		Source string
		Count  entities.Quantity
	}
	var got []row
	for _, d := range plan.StaffingDirectives {
		assert.Equal(t, "respiratory_therapist", d.Role)
		assert.Equal(t, "Emergency", d.TargetDepartment)
		got = append(got, row{d.Action, d.SourceDepartment, d.Count})
	}
	// respiratory therapists are not on-call eligible in the built-in knowledge base
	want := []row{
		{entities.Reallocate, "OPD", 8},
		{entities.AgencyRequest, "", 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("staffing directives mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, plan.Advisories, 2)
	assert.True(t, strings.HasPrefix(plan.Advisories[0], ElectiveDeferralAdvisory))
	assert.True(t, strings.HasPrefix(plan.Advisories[1], AgencyStaffingAdvisory))
	assert.Contains(t, plan.Advisories[1], "respiratory_therapist")
	assert.Empty(t, plan.Warnings)
}

func TestBuildPlan_OnCallEligibleRoleFromOverride(t *testing.T) {
	profile := entities.ConditionProfile{
		Condition: entities.RespiratorySurge,
		Name:      "Respiratory Surge",
		Requirements: []entities.ResourceRequirement{
			testhelpers.StaffRule("respiratory_therapist", "0.1", entities.TierCritical),
		},
	}
	repo, err := memory.NewResourceMappingRepository([]entities.ConditionProfile{profile})
	require.NoError(t, err)
	o := newOrchestrator(t, repo, nil)

	plan, err := o.BuildPlan(context.Background(), respiratoryRequest(150))
	require.NoError(t, err)

	require.Len(t, plan.StaffingDirectives, 2)
	assert.Equal(t, entities.Reallocate, plan.StaffingDirectives[0].Action)
	assert.EqualValues(t, 8, plan.StaffingDirectives[0].Count)
	assert.Equal(t, entities.OnCall, plan.StaffingDirectives[1].Action)
	assert.EqualValues(t, 2, plan.StaffingDirectives[1].Count)
	assert.Zero(t, countPrefix(plan.Advisories, AgencyStaffingAdvisory))
}

func TestBuildPlan_ZeroPatientsProducesEmptyPlan(t *testing.T) {
	o := newOrchestrator(t, testhelpers.DefaultMappings(), nil)

	req := respiratoryRequest(0)
	req.ForecastConfidence = 0.2
	plan, err := o.BuildPlan(context.Background(), req)
	require.NoError(t, err)

	assert.NotNil(t, plan.PurchaseOrders)
	assert.NotNil(t, plan.StaffingDirectives)
	assert.NotNil(t, plan.Advisories)
	assert.Empty(t, plan.PurchaseOrders)
	assert.Empty(t, plan.StaffingDirectives)
	assert.Empty(t, plan.Advisories)
}

func TestBuildPlan_CriticalOrderTriggersDeferralOnce(t *testing.T) {
	profile := entities.ConditionProfile{
		Condition: entities.BurnTrauma,
		Name:      "Burn Trauma Surge",
		Requirements: []entities.ResourceRequirement{
			testhelpers.StockRule("MED-GAU-44", "20", entities.TierCritical, 1, "SURGICAL_SUPPLY"),
			testhelpers.StockRule("MED-LR-1000", "3", entities.TierCritical, 1, "PHARMA_CORP_B"),
		},
	}
	repo, err := memory.NewResourceMappingRepository([]entities.ConditionProfile{profile})
	require.NoError(t, err)
	o := newOrchestrator(t, repo, nil)

	plan, err := o.BuildPlan(context.Background(), PlanRequest{
		PredictedPatients:  40,
		Condition:          entities.BurnTrauma,
		TargetDepartment:   "Emergency",
		ForecastConfidence: 0.9,
		Date:               planDate,
	})
	require.NoError(t, err)

	require.Len(t, plan.PurchaseOrders, 2)
	assert.True(t, plan.HasCriticalOrder())
	assert.Equal(t, 1, countPrefix(plan.Advisories, ElectiveDeferralAdvisory))
	assert.Len(t, plan.Advisories, 1)
	assert.Len(t, plan.Warnings, 2, "both SKUs are absent from the nil snapshot")
}

func TestBuildPlan_StaffGapAndAgencyAdvisories(t *testing.T) {
	profile := entities.ConditionProfile{
		Condition: entities.DengueOutbreak,
		Name:      "Dengue Outbreak",
		Requirements: []entities.ResourceRequirement{
			testhelpers.StaffRule("phlebotomist", "0.1", entities.TierHigh),
		},
	}
	repo, err := memory.NewResourceMappingRepository([]entities.ConditionProfile{profile})
	require.NoError(t, err)
	o := newOrchestrator(t, repo, nil)

	plan, err := o.BuildPlan(context.Background(), PlanRequest{
		PredictedPatients:  100,
		Condition:          entities.DengueOutbreak,
		TargetDepartment:   "Emergency",
		Staffing:           testhelpers.MustStaffing(),
		ForecastConfidence: 0.9,
		Date:               planDate,
	})
	require.NoError(t, err)

	assert.Empty(t, plan.PurchaseOrders)
	require.Len(t, plan.StaffingDirectives, 2)
	assert.Equal(t, entities.OnCall, plan.StaffingDirectives[0].Action)
	assert.EqualValues(t, 5, plan.StaffingDirectives[0].Count)
	assert.Equal(t, entities.AgencyRequest, plan.StaffingDirectives[1].Action)
	assert.EqualValues(t, 5, plan.StaffingDirectives[1].Count)

	require.Len(t, plan.Advisories, 2)
	assert.True(t, strings.HasPrefix(plan.Advisories[0], ElectiveDeferralAdvisory))
	assert.True(t, strings.HasPrefix(plan.Advisories[1], AgencyStaffingAdvisory))
	assert.Contains(t, plan.Advisories[1], "phlebotomist")
	require.Len(t, plan.Escalations, 1)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, entities.MissingRoster, plan.Warnings[0].Kind)
}

func TestBuildPlan_SmallStaffGapDoesNotDefer(t *testing.T) {
	profile := entities.ConditionProfile{
		Condition: entities.GeneralSurge,
		Name:      "General Surge",
		Requirements: []entities.ResourceRequirement{
			testhelpers.StaffRule("general_nurse", "0.2", entities.TierHigh),
		},
	}
	repo, err := memory.NewResourceMappingRepository([]entities.ConditionProfile{profile})
	require.NoError(t, err)
	o := newOrchestrator(t, repo, nil)

	// required 22 against 20 rostered: gap 2 is within 25% of 20
	plan, err := o.BuildPlan(context.Background(), PlanRequest{
		PredictedPatients:  110,
		Condition:          entities.GeneralSurge,
		TargetDepartment:   "Emergency",
		Staffing:           testhelpers.MustStaffing(testhelpers.Roster("general_nurse", "Emergency", 20)),
		ForecastConfidence: 0.9,
		Date:               planDate,
	})
	require.NoError(t, err)

	require.Len(t, plan.StaffingDirectives, 1)
	assert.Equal(t, entities.OnCall, plan.StaffingDirectives[0].Action)
	assert.Empty(t, plan.Advisories)
}

func TestBuildPlan_LeadTimeAndLowConfidenceAdvisories(t *testing.T) {
	o := newOrchestrator(t, testhelpers.DefaultMappings(), nil)

	req := respiratoryRequest(10)
	req.Inventory = nil
	req.ForecastConfidence = 0.4
	req.HorizonDays = 1
	plan, err := o.BuildPlan(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, plan.PurchaseOrders, 5)
	// albuterol, oxygen and pulse oximeters all take longer than one day
	assert.Equal(t, 3, countPrefix(plan.Advisories, LeadTimeAdvisory))
	last := plan.Advisories[len(plan.Advisories)-1]
	assert.True(t, strings.HasPrefix(last, LowConfidenceAdvisory))
	assert.Contains(t, last, "0.40")

	req.HorizonDays = 0
	plan, err = o.BuildPlan(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, countPrefix(plan.Advisories, LeadTimeAdvisory))
}

func TestBuildPlan_InvalidRequests(t *testing.T) {
	o := newOrchestrator(t, testhelpers.DefaultMappings(), nil)

	testCases := []struct {
		name   string
		mutate func(*PlanRequest)
	}{
		{"negative patients", func(r *PlanRequest) { r.PredictedPatients = -1 }},
		{"confidence above one", func(r *PlanRequest) { r.ForecastConfidence = 1.5 }},
		{"confidence below zero", func(r *PlanRequest) { r.ForecastConfidence = -0.1 }},
		{"blank department", func(r *PlanRequest) { r.TargetDepartment = "  " }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := respiratoryRequest(10)
			tc.mutate(&req)
			plan, err := o.BuildPlan(context.Background(), req)
			assert.Nil(t, plan)
			assert.True(t, entities.IsConfigurationError(err))
			assert.ErrorIs(t, err, entities.ErrInvalidInput)
		})
	}
}

func TestBuildPlan_MissingMappingAborts(t *testing.T) {
	repo, err := memory.NewResourceMappingRepository([]entities.ConditionProfile{
		{
			Condition:    entities.GeneralSurge,
			Name:         "General Surge",
			Requirements: []entities.ResourceRequirement{testhelpers.StaffRule("general_nurse", "0.2", entities.TierHigh)},
		},
	})
	require.NoError(t, err)
	o := newOrchestrator(t, repo, nil)

	plan, err := o.BuildPlan(context.Background(), respiratoryRequest(10))
	assert.Nil(t, plan)
	assert.True(t, entities.IsConfigurationError(err))
	assert.ErrorIs(t, err, entities.ErrMissingMapping)

	req := respiratoryRequest(10)
	req.Condition = "VOLCANO"
	_, err = o.BuildPlan(context.Background(), req)
	assert.ErrorIs(t, err, entities.ErrUnknownCondition)
}

func TestBuildPlan_CancelledContext(t *testing.T) {
	o := newOrchestrator(t, testhelpers.DefaultMappings(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.BuildPlan(ctx, respiratoryRequest(10))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBuildPlan_Deterministic(t *testing.T) {
	o := newOrchestrator(t, testhelpers.DefaultMappings(), nil)

	first, err := o.BuildPlan(context.Background(), respiratoryRequest(220))
	require.NoError(t, err)
	second, err := o.BuildPlan(context.Background(), respiratoryRequest(220))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	first.ID, second.ID = uuid.Nil, uuid.Nil
	assert.Equal(t, first, second)
}

func TestBuildPlan_LogsSummary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	o := newOrchestrator(t, testhelpers.DefaultMappings(), zap.New(core))

	_, err := o.BuildPlan(context.Background(), respiratoryRequest(150))
	require.NoError(t, err)

	entries := logs.FilterMessage("allocation plan built").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "RESPIRATORY_SURGE", entries[0].ContextMap()["condition"])
	assert.EqualValues(t, 1, entries[0].ContextMap()["purchase_orders"])
}
