package staffing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/surgealloc/pkg/application/services/shared"
	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/infrastructure/logging"
)

// Policy holds the department and pool settings that shape escalation
type Policy struct {
	Departments       []entities.Department
	DefaultPriority   int
	MinRetained       entities.Quantity
	OnCallPool        map[string]entities.Quantity
	DefaultOnCallPool entities.Quantity
}

// DefaultPolicy keeps one staff member per department and leaves unknown
// departments at priority 3.
func DefaultPolicy(departments []entities.Department) Policy {
	return Policy{
		Departments:       departments,
		DefaultPriority:   3,
		MinRetained:       1,
		OnCallPool:        map[string]entities.Quantity{},
		DefaultOnCallPool: 5,
	}
}

// Optimizer resolves staffing gaps through a fixed escalation chain
type Optimizer struct {
	policy Policy
	chain  []EscalationStrategy
	logger *zap.Logger
}

// NewOptimizer creates an optimizer. With no chain the default
// reallocate, on-call, agency order is used.
func NewOptimizer(policy Policy, logger *zap.Logger, chain ...EscalationStrategy) *Optimizer {
	if len(chain) == 0 {
		chain = DefaultEscalationChain()
	}
	return &Optimizer{
		policy: policy,
		chain:  chain,
		logger: logging.OrNop(logger),
	}
}

// Result holds everything produced by one optimization run
type Result struct {
	Directives  []entities.StaffingDirective
	Outcomes    []entities.RoleOutcome
	Warnings    []entities.DataGapWarning
	Escalations []entities.EscalationExhaustedInfo
}

// TotalGap is the pre-mitigation shortfall summed across roles
func (r *Result) TotalGap() entities.Quantity {
	var total entities.Quantity
	for _, o := range r.Outcomes {
		total += o.Gap
	}
	return total
}

// TotalCurrent is the target department roster summed across mapped roles
func (r *Result) TotalCurrent() entities.Quantity {
	var total entities.Quantity
	for _, o := range r.Outcomes {
		total += o.Current
	}
	return total
}

// Optimize computes per-role staffing directives for the target department.
// Roles are processed by ascending tier then table order, so more urgent roles
// draw on shared surplus and the on-call pool first.
func (o *Optimizer) Optimize(
	requirements []entities.ResourceRequirement,
	snapshot *entities.StaffingSnapshot,
	targetDepartment string,
	predictedPatients int,
) (*Result, error) {
	if predictedPatients < 0 {
		return nil, fmt.Errorf("predicted patients cannot be negative, got %d", predictedPatients)
	}
	if targetDepartment == "" {
		return nil, fmt.Errorf("target department cannot be empty")
	}

	pool := o.newPool(snapshot)
	targetPriority := pool.Priority(targetDepartment)
	predicted := decimal.NewFromInt(int64(predictedPatients))

	result := &Result{
		Directives:  make([]entities.StaffingDirective, 0),
		Outcomes:    make([]entities.RoleOutcome, 0),
		Warnings:    make([]entities.DataGapWarning, 0),
		Escalations: make([]entities.EscalationExhaustedInfo, 0),
	}

	for _, req := range orderedStaffing(requirements) {
		required := entities.Quantity(predicted.Mul(req.Coefficient).Ceil().IntPart())

		current, found := snapshot.Count(req.Name, targetDepartment)
		if !found {
			result.Warnings = append(result.Warnings, entities.DataGapWarning{
				Kind:       entities.MissingRoster,
				Resource:   req.Name,
				Department: targetDepartment,
			})
			o.logger.Warn("staffing snapshot missing role in target department",
				zap.String("role", req.Name),
				zap.String("department", targetDepartment))
		}

		outcome := entities.RoleOutcome{
			Role:       req.Name,
			Tier:       req.Tier,
			Required:   required,
			Current:    current,
			FinalState: entities.Resolved,
		}

		gap := required - current
		if gap <= 0 {
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}
		outcome.Gap = gap
		outcome.FinalState = entities.NeedsStaff

		gapReq := GapRequest{
			Role:             req.Name,
			TargetDepartment: targetDepartment,
			TargetPriority:   targetPriority,
			Current:          current,
			Required:         required,
			OnCallAcceptable: req.OnCallAcceptable,
		}

		remaining := gap
		for _, strategy := range o.chain {
			if remaining <= 0 {
				break
			}
			steps, residual := strategy.Attempt(gapReq, remaining, pool)
			if len(steps) > 0 {
				outcome.FinalState = strategy.State()
			}
			for _, step := range steps {
				directive, err := entities.NewStaffingDirective(
					req.Name, current, required, step.Action, step.Source, targetDepartment, step.Count,
				)
				if err != nil {
					return nil, fmt.Errorf("failed to build staffing directive for %s: %w", req.Name, err)
				}
				result.Directives = append(result.Directives, *directive)
				outcome.Levels = append(outcome.Levels, step.Action)

				if step.Action == entities.AgencyRequest {
					info := entities.EscalationExhaustedInfo{Role: req.Name, Department: targetDepartment, Count: step.Count}
					result.Escalations = append(result.Escalations, info)
					o.logger.Info("staffing escalation reached agency level",
						zap.String("role", req.Name),
						zap.String("department", targetDepartment),
						zap.Int64("count", int64(step.Count)))
				}
			}
			remaining = residual
		}

		if remaining <= 0 {
			outcome.FinalState = entities.Resolved
		} else {
			outcome.Unfilled = remaining
			o.logger.Warn("staffing gap left open after escalation chain",
				zap.String("role", req.Name),
				zap.Int64("unfilled", int64(remaining)))
		}

		o.logger.Debug("staffing gap resolved",
			zap.String("role", req.Name),
			zap.Int64("required", int64(required)),
			zap.Int64("current", int64(current)),
			zap.Int64("gap", int64(gap)),
			zap.String("state", outcome.FinalState.String()))

		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

func (o *Optimizer) newPool(snapshot *entities.StaffingSnapshot) *ResourcePool {
	priorities := make(map[string]int, len(o.policy.Departments))
	for _, d := range o.policy.Departments {
		priorities[d.Name] = d.Priority
	}
	onCall := make(map[string]entities.Quantity, len(o.policy.OnCallPool))
	for role, n := range o.policy.OnCallPool {
		onCall[role] = n
	}
	return &ResourcePool{
		Ledger:          shared.NewRosterLedgerFromSnapshot(snapshot),
		priorities:      priorities,
		defaultPriority: o.policy.DefaultPriority,
		minRetained:     o.policy.MinRetained,
		onCall:          onCall,
		defaultOnCall:   o.policy.DefaultOnCallPool,
	}
}

// orderedStaffing keeps staffing rules sorted by tier, preserving table order within a tier
func orderedStaffing(requirements []entities.ResourceRequirement) []entities.ResourceRequirement {
	var out []entities.ResourceRequirement
	for _, r := range requirements {
		if r.Kind == entities.Staffing {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tier < out[j].Tier
	})
	return out
}
