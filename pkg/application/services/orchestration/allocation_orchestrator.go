package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/surgealloc/pkg/application/services/inventory"
	"github.com/vsinha/surgealloc/pkg/application/services/staffing"
	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/domain/repositories"
	"github.com/vsinha/surgealloc/pkg/infrastructure/logging"
)

// Advisory prefixes, stable for downstream consumers
const (
	ElectiveDeferralAdvisory = "ELECTIVE DEFERRAL"
	AgencyStaffingAdvisory   = "AGENCY STAFFING"
	LeadTimeAdvisory         = "LEAD TIME"
	LowConfidenceAdvisory    = "LOW CONFIDENCE"
)

// Settings are the plan-level thresholds
type Settings struct {
	SafetyBuffer           decimal.Decimal
	StaffGapThreshold      decimal.Decimal
	LowConfidenceThreshold float64
}

// DefaultSettings uses a 1.2 safety buffer, a 25% staff gap threshold and 0.6 confidence
func DefaultSettings() Settings {
	return Settings{
		SafetyBuffer:           decimal.RequireFromString("1.2"),
		StaffGapThreshold:      decimal.RequireFromString("0.25"),
		LowConfidenceThreshold: 0.6,
	}
}

// PlanRequest is the input to one allocation run
type PlanRequest struct {
	PredictedPatients  int
	Condition          entities.ConditionType
	TargetDepartment   string
	Inventory          *entities.InventorySnapshot
	Staffing           *entities.StaffingSnapshot
	ForecastConfidence float64
	Date               time.Time
	// HorizonDays enables lead-time advisories when positive
	HorizonDays int
}

// AllocationOrchestrator coordinates the mapping lookup, inventory analysis
// and staffing optimization into a single plan
type AllocationOrchestrator struct {
	mappings  repositories.ResourceMappingRepository
	analyzer  *inventory.GapAnalyzer
	optimizer *staffing.Optimizer
	settings  Settings
	logger    *zap.Logger
	now       func() time.Time
}

// NewAllocationOrchestrator creates a new allocation orchestrator
func NewAllocationOrchestrator(
	mappings repositories.ResourceMappingRepository,
	analyzer *inventory.GapAnalyzer,
	optimizer *staffing.Optimizer,
	settings Settings,
	logger *zap.Logger,
) *AllocationOrchestrator {
	return &AllocationOrchestrator{
		mappings:  mappings,
		analyzer:  analyzer,
		optimizer: optimizer,
		settings:  settings,
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// BuildPlan produces an allocation plan. Configuration errors abort the run
// and no partial plan is returned; missing snapshot rows only add warnings.
func (o *AllocationOrchestrator) BuildPlan(ctx context.Context, req PlanRequest) (*entities.AllocationPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// Step 1: Resolve the condition's requirements
	profile, err := o.mappings.Profile(req.Condition)
	if err != nil {
		return nil, err
	}
	stockRules := profile.ByKind(entities.Inventory)
	staffRules := profile.ByKind(entities.Staffing)

	inventorySnapshot := req.Inventory
	if inventorySnapshot == nil {
		inventorySnapshot = entities.EmptyInventorySnapshot(req.Date)
	}
	staffingSnapshot := req.Staffing
	if staffingSnapshot == nil {
		staffingSnapshot = entities.EmptyStaffingSnapshot(req.Date)
	}

	// Step 2: Inventory gaps and staffing escalation run independently
	analysis, err := o.analyzer.Analyze(stockRules, inventorySnapshot, req.PredictedPatients, o.settings.SafetyBuffer)
	if err != nil {
		return nil, entities.NewConfigurationError("analyze inventory", err)
	}
	staff, err := o.optimizer.Optimize(staffRules, staffingSnapshot, req.TargetDepartment, req.PredictedPatients)
	if err != nil {
		return nil, entities.NewConfigurationError("optimize staffing", err)
	}

	// Step 3: Assemble the plan
	generatedAt := o.now().UTC()
	date := req.Date
	if date.IsZero() {
		date = generatedAt
	}

	plan := &entities.AllocationPlan{
		ID:                 uuid.New(),
		Date:               time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Condition:          profile.Condition,
		TargetDepartment:   req.TargetDepartment,
		PredictedPatients:  req.PredictedPatients,
		ForecastConfidence: req.ForecastConfidence,
		PurchaseOrders:     analysis.Orders,
		StaffingDirectives: staff.Directives,
		Warnings:           append(analysis.Warnings, staff.Warnings...),
		RoleOutcomes:       staff.Outcomes,
		Escalations:        staff.Escalations,
		GeneratedAt:        generatedAt,
	}
	plan.Advisories = o.advisories(plan, staff, req.HorizonDays)

	o.logger.Info("allocation plan built",
		zap.String("plan_id", plan.ID.String()),
		zap.String("condition", string(plan.Condition)),
		zap.String("target_department", plan.TargetDepartment),
		zap.Int("predicted_patients", plan.PredictedPatients),
		zap.Int("purchase_orders", len(plan.PurchaseOrders)),
		zap.Int("staffing_directives", len(plan.StaffingDirectives)),
		zap.Int("advisories", len(plan.Advisories)),
		zap.Int("data_gaps", len(plan.Warnings)),
	)

	return plan, nil
}

func validateRequest(req PlanRequest) error {
	if req.PredictedPatients < 0 {
		return entities.NewConfigurationError("validate request",
			fmt.Errorf("%w: predicted patients cannot be negative, got %d", entities.ErrInvalidInput, req.PredictedPatients))
	}
	if req.ForecastConfidence < 0 || req.ForecastConfidence > 1 {
		return entities.NewConfigurationError("validate request",
			fmt.Errorf("%w: forecast confidence must be within [0, 1], got %g", entities.ErrInvalidInput, req.ForecastConfidence))
	}
	if strings.TrimSpace(req.TargetDepartment) == "" {
		return entities.NewConfigurationError("validate request",
			fmt.Errorf("%w: target department cannot be empty", entities.ErrInvalidInput))
	}
	return nil
}

// advisories derives the operational advisories in a fixed order
func (o *AllocationOrchestrator) advisories(plan *entities.AllocationPlan, staff *staffing.Result, horizonDays int) []string {
	advisories := make([]string, 0)
	if plan.DirectiveCount() == 0 {
		return advisories
	}

	if o.staffGapExceeded(staff) || plan.HasCriticalOrder() {
		advisories = append(advisories, fmt.Sprintf(
			"%s: postpone non-urgent elective procedures in %s to free capacity for the %s",
			ElectiveDeferralAdvisory, plan.TargetDepartment, strings.ToLower(strings.ReplaceAll(string(plan.Condition), "_", " "))))
	}

	var agencyRoles []string
	for _, outcome := range staff.Outcomes {
		if outcome.UsedAgency() {
			agencyRoles = append(agencyRoles, outcome.Role)
		}
	}
	if len(agencyRoles) > 0 {
		advisories = append(advisories, fmt.Sprintf(
			"%s: reallocation and on-call pools exhausted for %s; confirm agency contracts today",
			AgencyStaffingAdvisory, strings.Join(agencyRoles, ", ")))
	}

	if horizonDays > 0 {
		for _, po := range plan.PurchaseOrders {
			if po.LeadTimeDays > horizonDays {
				advisories = append(advisories, fmt.Sprintf(
					"%s: %s (%s) needs %d days but the surge peaks in %d; arrange an emergency loan from a partner hospital",
					LeadTimeAdvisory, po.ItemName, po.SKU, po.LeadTimeDays, horizonDays))
			}
		}
	}

	if plan.ForecastConfidence < o.settings.LowConfidenceThreshold {
		advisories = append(advisories, fmt.Sprintf(
			"%s: forecast confidence %.2f is below %.2f; review directives before issuing",
			LowConfidenceAdvisory, plan.ForecastConfidence, o.settings.LowConfidenceThreshold))
	}

	return advisories
}

// staffGapExceeded compares the pre-mitigation gap to the threshold share of
// the current roster. An empty roster with any gap always exceeds.
func (o *AllocationOrchestrator) staffGapExceeded(staff *staffing.Result) bool {
	gap := staff.TotalGap()
	if gap == 0 {
		return false
	}
	current := staff.TotalCurrent()
	if current == 0 {
		return true
	}
	limit := decimal.NewFromInt(int64(current)).Mul(o.settings.StaffGapThreshold)
	return decimal.NewFromInt(int64(gap)).GreaterThan(limit)
}
