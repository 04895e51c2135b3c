package entities

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCondition = errors.New("unknown condition type")
	ErrMissingMapping   = errors.New("missing resource mapping")
	ErrInvalidInput     = errors.New("invalid allocation input")
	ErrInvalidMapping   = errors.New("invalid resource mapping")
)

// ConfigurationError is fatal: plan construction stops and no partial plan is returned
type ConfigurationError struct {
	Op  string
	Err error
}

// NewConfigurationError wraps err as a ConfigurationError for operation op
func NewConfigurationError(op string, err error) *ConfigurationError {
	return &ConfigurationError{Op: op, Err: err}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %v", e.Op, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// DataGapKind says which snapshot was missing a row
type DataGapKind int

const (
	MissingInventory DataGapKind = iota
	MissingRoster
)

// String method for DataGapKind enum
func (k DataGapKind) String() string {
	switch k {
	case MissingInventory:
		return "inventory"
	case MissingRoster:
		return "roster"
	default:
		return "unknown"
	}
}

// DataGapWarning records a snapshot row that was absent and defaulted
type DataGapWarning struct {
	Kind       DataGapKind
	Resource   string
	Department string
	Defaulted  Quantity
}

func (w DataGapWarning) String() string {
	if w.Kind == MissingRoster {
		return fmt.Sprintf("no roster row for %s in %s, assuming %d", w.Resource, w.Department, w.Defaulted)
	}
	return fmt.Sprintf("no inventory row for %s, assuming %d on hand", w.Resource, w.Defaulted)
}

// EscalationExhaustedInfo notes that a role fell through to agency staffing.
// This is expected under severe surge and is not an error.
type EscalationExhaustedInfo struct {
	Role       string
	Department string
	Count      Quantity
}

func (i EscalationExhaustedInfo) String() string {
	return fmt.Sprintf("escalation for %s in %s reached agency level, requesting %d", i.Role, i.Department, i.Count)
}
