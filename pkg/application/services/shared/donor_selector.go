package shared

import (
	"sort"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// DonorCandidate is a department that could give up staff of one role
type DonorCandidate struct {
	Department string
	Priority   int
	Surplus    entities.Quantity
}

// RankDonors orders candidates least critical first (highest priority number).
// Equal priority prefers the larger surplus, then the department name.
func RankDonors(candidates []DonorCandidate) []DonorCandidate {
	ranked := make([]DonorCandidate, len(candidates))
	copy(ranked, candidates)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		if ranked[i].Surplus != ranked[j].Surplus {
			return ranked[i].Surplus > ranked[j].Surplus
		}
		return ranked[i].Department < ranked[j].Department
	})
	return ranked
}

// SelectBestDonor returns the first donor by RankDonors order, or nil
func SelectBestDonor(candidates []DonorCandidate) *DonorCandidate {
	if len(candidates) == 0 {
		return nil
	}
	best := RankDonors(candidates)[0]
	return &best
}

// EligibleDonors filters out departments that may not donate to a target of the given
// priority. A department is protected when its priority number is less than or equal
// to the target's, or when it has no surplus.
func EligibleDonors(candidates []DonorCandidate, targetDepartment string, targetPriority int) []DonorCandidate {
	var out []DonorCandidate
	for _, c := range candidates {
		if c.Department == targetDepartment || c.Priority <= targetPriority || c.Surplus <= 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}
