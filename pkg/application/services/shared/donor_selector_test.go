package shared

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRankDonors_LeastCriticalFirst(t *testing.T) {
	candidates := []DonorCandidate{
		{Department: "Surgery", Priority: 2, Surplus: 10},
		{Department: "Dermatology", Priority: 5, Surplus: 1},
		{Department: "OPD", Priority: 4, Surplus: 8},
	}

	ranked := RankDonors(candidates)
	got := []string{ranked[0].Department, ranked[1].Department, ranked[2].Department}
	want := []string{"Dermatology", "OPD", "Surgery"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RankDonors order mismatch (-want +got):\n%s", diff)
	}

	if candidates[0].Department != "Surgery" {
		t.Error("Expected input slice to be left untouched")
	}
}

func TestRankDonors_TieBreakOnSurplus(t *testing.T) {
	candidates := []DonorCandidate{
		{Department: "Radiology", Priority: 4, Surplus: 2},
		{Department: "OPD", Priority: 4, Surplus: 6},
		{Department: "Billing", Priority: 4, Surplus: 6},
	}

	ranked := RankDonors(candidates)
	got := []string{ranked[0].Department, ranked[1].Department, ranked[2].Department}
	want := []string{"Billing", "OPD", "Radiology"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tie-break mismatch (-want +got):\n%s", diff)
	}

	best := SelectBestDonor(candidates)
	if best == nil || best.Department != "Billing" {
		t.Errorf("Expected Billing as best donor, got %v", best)
	}
	if SelectBestDonor(nil) != nil {
		t.Error("Expected nil for no candidates")
	}
}

func TestEligibleDonors_NeverRobsMoreCritical(t *testing.T) {
	candidates := []DonorCandidate{
		{Department: "Emergency", Priority: 1, Surplus: 20},
		{Department: "ICU", Priority: 1, Surplus: 5},
		{Department: "Surgery", Priority: 2, Surplus: 5},
		{Department: "OPD", Priority: 4, Surplus: 0},
		{Department: "Dermatology", Priority: 5, Surplus: 3},
	}

	eligible := EligibleDonors(candidates, "Surgery", 2)
	if len(eligible) != 1 || eligible[0].Department != "Dermatology" {
		t.Errorf("Expected only Dermatology, got %v", eligible)
	}

	eligible = EligibleDonors(candidates, "Emergency", 1)
	for _, c := range eligible {
		if c.Priority <= 1 {
			t.Errorf("Department %s with priority %d must be protected", c.Department, c.Priority)
		}
	}
}
