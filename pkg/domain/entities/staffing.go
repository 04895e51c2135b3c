package entities

import (
	"fmt"
	"sort"
	"time"
)

// RosterKey identifies a role within a department
type RosterKey struct {
	Role       string
	Department string
}

// RosterEntry is one row of the staffing roster
type RosterEntry struct {
	Role       string
	Department string
	Count      Quantity
}

// Department carries the criticality ranking used to protect departments
// from being stripped of staff. Lower priority numbers are more critical.
type Department struct {
	Name     string
	Priority int
}

// StaffingSnapshot is a read-only view of rostered staff keyed by (role, department)
type StaffingSnapshot struct {
	asOf   time.Time
	counts map[RosterKey]Quantity
}

// NewStaffingSnapshot creates a validated StaffingSnapshot. Rows for the same
// role and department are summed.
func NewStaffingSnapshot(asOf time.Time, entries []RosterEntry) (*StaffingSnapshot, error) {
	counts := make(map[RosterKey]Quantity, len(entries))
	for _, e := range entries {
		if e.Role == "" {
			return nil, fmt.Errorf("role cannot be empty")
		}
		if e.Department == "" {
			return nil, fmt.Errorf("department cannot be empty for role %s", e.Role)
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("rostered count cannot be negative for %s/%s, got %d", e.Role, e.Department, e.Count)
		}
		counts[RosterKey{Role: e.Role, Department: e.Department}] += e.Count
	}

	return &StaffingSnapshot{asOf: asOf, counts: counts}, nil
}

// EmptyStaffingSnapshot returns a snapshot with nobody rostered
func EmptyStaffingSnapshot(asOf time.Time) *StaffingSnapshot {
	return &StaffingSnapshot{asOf: asOf, counts: map[RosterKey]Quantity{}}
}

// AsOf is the time the snapshot was taken
func (s *StaffingSnapshot) AsOf() time.Time {
	return s.asOf
}

// Count returns the rostered count for a role in a department
func (s *StaffingSnapshot) Count(role, department string) (Quantity, bool) {
	if s == nil {
		return 0, false
	}
	c, ok := s.counts[RosterKey{Role: role, Department: department}]
	return c, ok
}

// Departments returns every department in the snapshot, sorted by name
func (s *StaffingSnapshot) Departments() []string {
	if s == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for key := range s.counts {
		if !seen[key.Department] {
			seen[key.Department] = true
			out = append(out, key.Department)
		}
	}
	sort.Strings(out)
	return out
}

// Entries returns a copy of the roster sorted by role then department
func (s *StaffingSnapshot) Entries() []RosterEntry {
	if s == nil {
		return nil
	}
	out := make([]RosterEntry, 0, len(s.counts))
	for key, count := range s.counts {
		out = append(out, RosterEntry{Role: key.Role, Department: key.Department, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Department < out[j].Department
	})
	return out
}

// Len returns the number of (role, department) rows
func (s *StaffingSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.counts)
}
