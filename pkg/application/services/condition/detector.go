package condition

import (
	"strings"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// Signals are the environmental observations used to guess the surge type
type Signals struct {
	AQI           float64
	EventType     string
	Season        string
	EpidemicAlert int
	Disease       string
}

// Detector maps environmental signals to a condition type
type Detector struct {
	AQIThreshold   float64
	FestivalEvents []string
	DengueNames    []string
}

// NewDetector returns a detector with the standard thresholds
func NewDetector() *Detector {
	return &Detector{
		AQIThreshold:   150,
		FestivalEvents: []string{"festival", "diwali", "holi"},
		DengueNames:    []string{"dengue", "dengue fever"},
	}
}

// Detect checks, in order: poor air quality, festival burn risk, then monsoon
// dengue alerts. Anything else is a general surge.
func (d *Detector) Detect(s Signals) entities.ConditionType {
	if s.AQI > d.AQIThreshold {
		return entities.RespiratorySurge
	}
	if contains(d.FestivalEvents, s.EventType) {
		return entities.BurnTrauma
	}
	if strings.EqualFold(strings.TrimSpace(s.Season), "monsoon") && s.EpidemicAlert > 0 && contains(d.DengueNames, s.Disease) {
		return entities.DengueOutbreak
	}
	return entities.GeneralSurge
}

func contains(values []string, v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
