package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// MappingValidator checks a resource mapping table before it is accepted
type MappingValidator struct {
	requireGeneral bool
}

// NewMappingValidator creates a validator. When requireGeneral is set the
// table must contain a GENERAL_SURGE profile to fall back to.
func NewMappingValidator(requireGeneral bool) *MappingValidator {
	return &MappingValidator{requireGeneral: requireGeneral}
}

// ValidationResult contains the results of mapping validation
type ValidationResult struct {
	DuplicateResources []string
	UnknownConditions  []entities.ConditionType
	Errors             []string
}

// Valid reports whether no errors were found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Err converts a failed result into a ConfigurationError
func (r *ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return entities.NewConfigurationError(
		"validate mapping",
		fmt.Errorf("%w: %s", entities.ErrInvalidMapping, strings.Join(r.Errors, "; ")),
	)
}

// Validate performs validation on a full set of condition profiles
func (v *MappingValidator) Validate(profiles []entities.ConditionProfile) *ValidationResult {
	result := &ValidationResult{
		DuplicateResources: make([]string, 0),
		UnknownConditions:  make([]entities.ConditionType, 0),
		Errors:             make([]string, 0),
	}

	seenConditions := make(map[entities.ConditionType]bool)
	for _, profile := range profiles {
		if !profile.Condition.Valid() {
			result.UnknownConditions = append(result.UnknownConditions, profile.Condition)
			result.Errors = append(result.Errors, fmt.Sprintf("unknown condition %q", profile.Condition))
			continue
		}
		if seenConditions[profile.Condition] {
			result.Errors = append(result.Errors, fmt.Sprintf("condition %s defined more than once", profile.Condition))
			continue
		}
		seenConditions[profile.Condition] = true

		if len(profile.Requirements) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("condition %s has no requirements", profile.Condition))
		}
		v.validateRequirements(profile, result)
	}

	if v.requireGeneral && !seenConditions[entities.GeneralSurge] {
		result.Errors = append(result.Errors, "general fallback enabled but no GENERAL_SURGE profile defined")
	}

	return result
}

// validateRequirements checks one profile's rules
func (v *MappingValidator) validateRequirements(profile entities.ConditionProfile, result *ValidationResult) {
	seen := make(map[string]bool)
	for _, req := range profile.Requirements {
		key := fmt.Sprintf("%s|%s", req.Kind, req.Name)
		if seen[key] {
			result.DuplicateResources = append(result.DuplicateResources, fmt.Sprintf("%s:%s", profile.Condition, req.Name))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: duplicate %s requirement %s", profile.Condition, strings.ToLower(req.Kind.String()), req.Name))
			continue
		}
		seen[key] = true

		if _, err := entities.NewResourceRequirement(
			req.Kind, req.Name, req.DisplayName, req.Coefficient, req.LeadTimeDays, req.Tier, req.VendorID, req.UnitType,
		); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", profile.Condition, err))
		}
	}
}

// ValidateProfiles is a convenience wrapper returning a ConfigurationError on failure
func ValidateProfiles(profiles []entities.ConditionProfile, requireGeneral bool) error {
	result := NewMappingValidator(requireGeneral).Validate(profiles)
	if err := result.Err(); err != nil {
		return err
	}
	return nil
}

// IsInvalidMapping reports whether err came from mapping validation
func IsInvalidMapping(err error) bool {
	return errors.Is(err, entities.ErrInvalidMapping)
}
