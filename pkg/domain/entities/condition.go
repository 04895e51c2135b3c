package entities

import (
	"fmt"
	"strings"
)

// ConditionType selects which resource mapping profile applies to a surge
type ConditionType string

const (
	RespiratorySurge ConditionType = "RESPIRATORY_SURGE"
	BurnTrauma       ConditionType = "BURN_TRAUMA"
	DengueOutbreak   ConditionType = "DENGUE_OUTBREAK"
	GeneralSurge     ConditionType = "GENERAL_SURGE"
)

// AllConditionTypes lists every known condition in canonical order
func AllConditionTypes() []ConditionType {
	return []ConditionType{RespiratorySurge, BurnTrauma, DengueOutbreak, GeneralSurge}
}

var conditionAliases = map[string]ConditionType{
	"RESPIRATORY": RespiratorySurge,
	"BURN":        BurnTrauma,
	"TRAUMA":      BurnTrauma,
	"DENGUE":      DengueOutbreak,
	"GENERAL":     GeneralSurge,
}

// ParseConditionType accepts the canonical name in any case or a short alias
// such as "respiratory". Unknown values produce a ConfigurationError.
func ParseConditionType(value string) (ConditionType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "_")

	for _, c := range AllConditionTypes() {
		if string(c) == normalized {
			return c, nil
		}
	}
	if c, ok := conditionAliases[normalized]; ok {
		return c, nil
	}

	return "", NewConfigurationError("parse condition", fmt.Errorf("%w: %q", ErrUnknownCondition, value))
}

// Valid reports whether c is one of the known condition types
func (c ConditionType) Valid() bool {
	for _, known := range AllConditionTypes() {
		if c == known {
			return true
		}
	}
	return false
}

// WireName is the lower-case form used in plan documents, e.g. "respiratory_surge"
func (c ConditionType) WireName() string {
	return strings.ToLower(string(c))
}
