package staffing

import (
	"github.com/vsinha/surgealloc/pkg/application/services/shared"
	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// GapRequest describes an open staffing gap for one role in the target department
type GapRequest struct {
	Role             string
	TargetDepartment string
	TargetPriority   int
	Current          entities.Quantity
	Required         entities.Quantity
	OnCallAcceptable bool
}

// Step is one unit of escalation output; it becomes a StaffingDirective
type Step struct {
	Action entities.StaffingAction
	Source string
	Count  entities.Quantity
}

// EscalationStrategy attempts to close part of a gap and returns the residual.
// Strategies run in a fixed order; each sees only what earlier ones left open.
type EscalationStrategy interface {
	State() entities.EscalationState
	Attempt(req GapRequest, remaining entities.Quantity, pool *ResourcePool) ([]Step, entities.Quantity)
}

// DefaultEscalationChain returns reallocate, then on-call, then agency
func DefaultEscalationChain() []EscalationStrategy {
	return []EscalationStrategy{
		ReallocateStrategy{},
		OnCallStrategy{},
		AgencyStrategy{},
	}
}

// ResourcePool is the mutable per-run view of staff that can still be drawn on
type ResourcePool struct {
	Ledger          shared.RosterLedger
	priorities      map[string]int
	defaultPriority int
	minRetained     entities.Quantity
	onCall          map[string]entities.Quantity
	defaultOnCall   entities.Quantity
}

// Priority returns a department's priority number, or the default when unconfigured
func (p *ResourcePool) Priority(department string) int {
	if pr, ok := p.priorities[department]; ok {
		return pr
	}
	return p.defaultPriority
}

// OnCallAvailable is the on-call headcount still unused for a role
func (p *ResourcePool) OnCallAvailable(role string) entities.Quantity {
	if n, ok := p.onCall[role]; ok {
		return n
	}
	return p.defaultOnCall
}

func (p *ResourcePool) useOnCall(role string, n entities.Quantity) {
	p.onCall[role] = p.OnCallAvailable(role) - n
}

// ReallocateStrategy moves surplus staff from less critical departments
type ReallocateStrategy struct{}

func (ReallocateStrategy) State() entities.EscalationState {
	return entities.Reallocating
}

func (ReallocateStrategy) Attempt(req GapRequest, remaining entities.Quantity, pool *ResourcePool) ([]Step, entities.Quantity) {
	var candidates []shared.DonorCandidate
	for _, dept := range pool.Ledger.Departments(req.Role) {
		candidates = append(candidates, shared.DonorCandidate{
			Department: dept,
			Priority:   pool.Priority(dept),
			Surplus:    pool.Ledger.Surplus(req.Role, dept, pool.minRetained),
		})
	}

	var steps []Step
	for _, donor := range shared.RankDonors(shared.EligibleDonors(candidates, req.TargetDepartment, req.TargetPriority)) {
		if remaining <= 0 {
			break
		}
		move := min(donor.Surplus, remaining)
		if err := pool.Ledger.Release(req.Role, donor.Department, move); err != nil {
			continue
		}
		steps = append(steps, Step{Action: entities.Reallocate, Source: donor.Department, Count: move})
		remaining -= move
	}
	return steps, remaining
}

// OnCallStrategy activates off-duty staff up to the configured pool size.
// Roles not marked on-call acceptable pass through untouched.
type OnCallStrategy struct{}

func (OnCallStrategy) State() entities.EscalationState {
	return entities.OnCallActivation
}

func (OnCallStrategy) Attempt(req GapRequest, remaining entities.Quantity, pool *ResourcePool) ([]Step, entities.Quantity) {
	if !req.OnCallAcceptable {
		return nil, remaining
	}
	n := min(pool.OnCallAvailable(req.Role), remaining)
	if n <= 0 {
		return nil, remaining
	}
	pool.useOnCall(req.Role, n)
	return []Step{{Action: entities.OnCall, Count: n}}, remaining - n
}

// AgencyStrategy requests the residual from external agencies. It always succeeds.
type AgencyStrategy struct{}

func (AgencyStrategy) State() entities.EscalationState {
	return entities.Agency
}

func (AgencyStrategy) Attempt(req GapRequest, remaining entities.Quantity, pool *ResourcePool) ([]Step, entities.Quantity) {
	if remaining <= 0 {
		return nil, 0
	}
	return []Step{{Action: entities.AgencyRequest, Count: remaining}}, 0
}
