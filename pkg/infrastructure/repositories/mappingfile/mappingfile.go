// Package mappingfile reads condition profiles from a YAML knowledge base file.
package mappingfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// Document is the top-level layout of a knowledge base file
type Document struct {
	Conditions []ConditionEntry `yaml:"conditions"`
}

// ConditionEntry describes one condition profile
type ConditionEntry struct {
	Condition        string           `yaml:"condition"`
	Name             string           `yaml:"name,omitempty"`
	Description      string           `yaml:"description,omitempty"`
	VolumeMultiplier string           `yaml:"volume_multiplier,omitempty"`
	Staffing         []StaffingEntry  `yaml:"staffing"`
	Inventory        []InventoryEntry `yaml:"inventory"`
}

// StaffingEntry is a staff-per-patient rule
type StaffingEntry struct {
	Role     string `yaml:"role"`
	Ratio    string `yaml:"ratio"`
	Priority string `yaml:"priority"`
	// OnCallAcceptable defaults to true when omitted
	OnCallAcceptable *bool `yaml:"on_call_acceptable,omitempty"`
}

// InventoryEntry is a units-per-patient rule
type InventoryEntry struct {
	SKU             string `yaml:"sku"`
	ItemName        string `yaml:"item_name"`
	UnitsPerPatient string `yaml:"units_per_patient"`
	UnitType        string `yaml:"unit_type,omitempty"`
	Priority        string `yaml:"priority"`
	LeadTimeDays    int    `yaml:"lead_time_days"`
	VendorID        string `yaml:"vendor_id"`
}

// Load reads and parses a knowledge base file
func Load(path string) ([]entities.ConditionProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}
	profiles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}
	return profiles, nil
}

// Parse decodes knowledge base YAML into condition profiles. Staffing rules
// precede inventory rules within each profile.
func Parse(data []byte) ([]entities.ConditionProfile, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, entities.NewConfigurationError("parse knowledge base", fmt.Errorf("%w: %v", entities.ErrInvalidMapping, err))
	}

	profiles := make([]entities.ConditionProfile, 0, len(doc.Conditions))
	for i, entry := range doc.Conditions {
		profile, err := entry.toProfile()
		if err != nil {
			return nil, entities.NewConfigurationError(
				"parse knowledge base",
				fmt.Errorf("%w: condition entry %d: %v", entities.ErrInvalidMapping, i+1, err),
			)
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// Merge overlays file profiles onto base profiles. A condition present in
// overrides replaces the base profile entirely; base order is preserved and
// new conditions are appended.
func Merge(base, overrides []entities.ConditionProfile) []entities.ConditionProfile {
	byCondition := make(map[entities.ConditionType]entities.ConditionProfile, len(overrides))
	for _, p := range overrides {
		byCondition[p.Condition] = p
	}

	merged := make([]entities.ConditionProfile, 0, len(base)+len(overrides))
	used := make(map[entities.ConditionType]bool)
	for _, p := range base {
		if o, ok := byCondition[p.Condition]; ok {
			merged = append(merged, o)
			used[p.Condition] = true
			continue
		}
		merged = append(merged, p)
	}
	for _, o := range overrides {
		if !used[o.Condition] {
			merged = append(merged, o)
			used[o.Condition] = true
		}
	}
	return merged
}

func (e ConditionEntry) toProfile() (entities.ConditionProfile, error) {
	condition, err := entities.ParseConditionType(e.Condition)
	if err != nil {
		return entities.ConditionProfile{}, err
	}

	multiplier := decimal.NewFromInt(1)
	if e.VolumeMultiplier != "" {
		multiplier, err = decimal.NewFromString(e.VolumeMultiplier)
		if err != nil {
			return entities.ConditionProfile{}, fmt.Errorf("volume_multiplier: %w", err)
		}
	}

	profile := entities.ConditionProfile{
		Condition:        condition,
		Name:             e.Name,
		Description:      e.Description,
		VolumeMultiplier: multiplier,
	}

	for _, s := range e.Staffing {
		ratio, err := decimal.NewFromString(s.Ratio)
		if err != nil {
			return entities.ConditionProfile{}, fmt.Errorf("role %s ratio: %w", s.Role, err)
		}
		tier, err := parseTier(s.Priority)
		if err != nil {
			return entities.ConditionProfile{}, fmt.Errorf("role %s: %w", s.Role, err)
		}
		req, err := entities.NewResourceRequirement(entities.Staffing, s.Role, s.Role, ratio, 0, tier, "", "staff")
		if err != nil {
			return entities.ConditionProfile{}, err
		}
		if s.OnCallAcceptable != nil {
			req.OnCallAcceptable = *s.OnCallAcceptable
		}
		profile.Requirements = append(profile.Requirements, *req)
	}

	for _, inv := range e.Inventory {
		perPatient, err := decimal.NewFromString(inv.UnitsPerPatient)
		if err != nil {
			return entities.ConditionProfile{}, fmt.Errorf("sku %s units_per_patient: %w", inv.SKU, err)
		}
		tier, err := parseTier(inv.Priority)
		if err != nil {
			return entities.ConditionProfile{}, fmt.Errorf("sku %s: %w", inv.SKU, err)
		}
		req, err := entities.NewResourceRequirement(
			entities.Inventory, inv.SKU, inv.ItemName, perPatient, inv.LeadTimeDays, tier, inv.VendorID, inv.UnitType,
		)
		if err != nil {
			return entities.ConditionProfile{}, err
		}
		profile.Requirements = append(profile.Requirements, *req)
	}

	return profile, nil
}

// parseTier accepts either a label ("critical") or a tier number ("1")
func parseTier(value string) (entities.PriorityTier, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return entities.PriorityTier(n), nil
	}
	return entities.ParsePriorityTier(value)
}
