package shared

import (
	"fmt"
	"sort"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// ReleaseContext tracks how many staff of one role a department has given up during a run
type ReleaseContext struct {
	Rostered entities.Quantity
	Released entities.Quantity
}

// Remaining is the rostered count still in the department
func (c *ReleaseContext) Remaining() entities.Quantity {
	return c.Rostered - c.Released
}

// RosterLedger is a per-run working copy of the roster keyed by role and department.
// The source snapshot is never modified.
type RosterLedger map[entities.RosterKey]*ReleaseContext

// NewRosterLedger creates an empty ledger
func NewRosterLedger() RosterLedger {
	return make(RosterLedger)
}

// NewRosterLedgerFromSnapshot seeds a ledger with every roster row of the snapshot
func NewRosterLedgerFromSnapshot(snapshot *entities.StaffingSnapshot) RosterLedger {
	ledger := make(RosterLedger)
	for _, entry := range snapshot.Entries() {
		ledger.Set(entry.Role, entry.Department, &ReleaseContext{Rostered: entry.Count})
	}
	return ledger
}

// Get retrieves the release context for a role and department
func (rl RosterLedger) Get(role, department string) *ReleaseContext {
	return rl[rosterKey(role, department)]
}

// Set stores the release context for a role and department
func (rl RosterLedger) Set(role, department string, context *ReleaseContext) {
	rl[rosterKey(role, department)] = context
}

// Has checks if the ledger knows a role and department
func (rl RosterLedger) Has(role, department string) bool {
	_, exists := rl[rosterKey(role, department)]
	return exists
}

// Surplus is what a department can still give up while keeping minRetained on roster
func (rl RosterLedger) Surplus(role, department string, minRetained entities.Quantity) entities.Quantity {
	ctx := rl.Get(role, department)
	if ctx == nil {
		return 0
	}
	surplus := ctx.Remaining() - minRetained
	if surplus < 0 {
		return 0
	}
	return surplus
}

// Release records that count staff of role left department
func (rl RosterLedger) Release(role, department string, count entities.Quantity) error {
	ctx := rl.Get(role, department)
	if ctx == nil {
		return fmt.Errorf("no roster entry for %s in %s", role, department)
	}
	if count <= 0 {
		return fmt.Errorf("release count must be positive, got %d", count)
	}
	if count > ctx.Remaining() {
		return fmt.Errorf("cannot release %d %s from %s, only %d remaining", count, role, department, ctx.Remaining())
	}
	ctx.Released += count
	return nil
}

// Departments returns the departments rostering a role, sorted by name
func (rl RosterLedger) Departments(role string) []string {
	var out []string
	for key := range rl {
		if key.Role == role {
			out = append(out, key.Department)
		}
	}
	sort.Strings(out)
	return out
}

// Size returns the number of role/department rows
func (rl RosterLedger) Size() int {
	return len(rl)
}

// TotalReleased returns the number of staff moved out across the ledger
func (rl RosterLedger) TotalReleased() entities.Quantity {
	var total entities.Quantity
	for _, ctx := range rl {
		total += ctx.Released
	}
	return total
}

func rosterKey(role, department string) entities.RosterKey {
	return entities.RosterKey{Role: role, Department: department}
}

// String returns a string representation of the ledger for debugging
func (rl RosterLedger) String() string {
	if len(rl) == 0 {
		return "RosterLedger{empty}"
	}

	keys := make([]entities.RosterKey, 0, len(rl))
	for key := range rl {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Role != keys[j].Role {
			return keys[i].Role < keys[j].Role
		}
		return keys[i].Department < keys[j].Department
	})

	result := fmt.Sprintf("RosterLedger{%d entries:\n", len(rl))
	for _, key := range keys {
		ctx := rl[key]
		result += fmt.Sprintf("  %s@%s: rostered=%d, released=%d\n", key.Role, key.Department, ctx.Rostered, ctx.Released)
	}
	result += "}"
	return result
}
