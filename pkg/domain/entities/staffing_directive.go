package entities

import "fmt"

// StaffingAction is the escalation level chosen to close a staffing gap
type StaffingAction int

const (
	Reallocate StaffingAction = iota
	OnCall
	AgencyRequest
)

// String method for StaffingAction enum
func (a StaffingAction) String() string {
	switch a {
	case Reallocate:
		return "REALLOCATE"
	case OnCall:
		return "ON_CALL"
	case AgencyRequest:
		return "AGENCY_REQUEST"
	default:
		return "UNKNOWN"
	}
}

// EscalationState tracks a role requirement through the escalation ladder
type EscalationState int

const (
	NeedsStaff EscalationState = iota
	Reallocating
	OnCallActivation
	Agency
	Resolved
)

// String method for EscalationState enum
func (s EscalationState) String() string {
	switch s {
	case NeedsStaff:
		return "NEEDS_STAFF"
	case Reallocating:
		return "REALLOCATING"
	case OnCallActivation:
		return "ON_CALL"
	case Agency:
		return "AGENCY"
	case Resolved:
		return "RESOLVED"
	default:
		return "UNKNOWN"
	}
}

// StaffingDirective instructs operations to move or request staff for one role
type StaffingDirective struct {
	Role               string
	CurrentRosterCount Quantity
	RequiredCount      Quantity
	Action             StaffingAction
	SourceDepartment   string
	TargetDepartment   string
	Count              Quantity
}

// NewStaffingDirective creates a validated StaffingDirective
func NewStaffingDirective(
	role string,
	current, required Quantity,
	action StaffingAction,
	sourceDepartment, targetDepartment string,
	count Quantity,
) (*StaffingDirective, error) {
	if role == "" {
		return nil, fmt.Errorf("role cannot be empty")
	}
	if count <= 0 {
		return nil, fmt.Errorf("directive count must be positive for %s, got %d", role, count)
	}
	if required < current {
		return nil, fmt.Errorf("required count %d below current roster %d for %s", required, current, role)
	}
	if action == Reallocate && sourceDepartment == "" {
		return nil, fmt.Errorf("reallocation for %s requires a source department", role)
	}
	if action != Reallocate && sourceDepartment != "" {
		return nil, fmt.Errorf("%s directive for %s cannot name a source department", action, role)
	}
	if targetDepartment == "" {
		return nil, fmt.Errorf("target department cannot be empty for %s", role)
	}

	return &StaffingDirective{
		Role:               role,
		CurrentRosterCount: current,
		RequiredCount:      required,
		Action:             action,
		SourceDepartment:   sourceDepartment,
		TargetDepartment:   targetDepartment,
		Count:              count,
	}, nil
}

// RoleOutcome summarises how one role requirement was resolved
type RoleOutcome struct {
	Role       string
	Tier       PriorityTier
	Required   Quantity
	Current    Quantity
	Gap        Quantity
	Unfilled   Quantity
	FinalState EscalationState
	Levels     []StaffingAction
}

// UsedAgency reports whether the role escalated to agency staff
func (o RoleOutcome) UsedAgency() bool {
	for _, l := range o.Levels {
		if l == AgencyRequest {
			return true
		}
	}
	return false
}
