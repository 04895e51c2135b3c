package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
)

// DefaultModels are the forecasting models whose outputs are combined
var DefaultModels = []string{"lightgbm", "xgboost", "random_forest"}

// Consensus is the combined forecast across models
type Consensus struct {
	Models     []string
	Points     []entities.ForecastPoint
	Confidence float64
}

// BuildConsensus averages model forecasts day by day. The confidence interval
// is the widest across models, and confidence is 1 / (1 + mean CI width / mean forecast).
func BuildConsensus(series []entities.ForecastSeries) (*Consensus, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no forecast series provided")
	}

	horizon := len(series[0].Points)
	if horizon == 0 {
		return nil, fmt.Errorf("forecast series %s has no points", series[0].Model)
	}
	for _, s := range series[1:] {
		if len(s.Points) != horizon {
			return nil, fmt.Errorf("forecast series %s has %d points, expected %d", s.Model, len(s.Points), horizon)
		}
	}

	consensus := &Consensus{Points: make([]entities.ForecastPoint, horizon)}
	for _, s := range series {
		consensus.Models = append(consensus.Models, s.Model)
	}

	var widthSum, forecastSum float64
	for i := 0; i < horizon; i++ {
		date := series[0].Points[i].Date
		point := entities.ForecastPoint{
			Date:    date,
			LowerCI: math.Inf(1),
			UpperCI: math.Inf(-1),
		}
		for _, s := range series {
			p := s.Points[i]
			if !p.Date.Equal(date) {
				return nil, fmt.Errorf("forecast series %s day %d is %s, expected %s",
					s.Model, i+1, p.Date.Format("2006-01-02"), date.Format("2006-01-02"))
			}
			point.Forecast += p.Forecast
			point.LowerCI = math.Min(point.LowerCI, p.LowerCI)
			point.UpperCI = math.Max(point.UpperCI, p.UpperCI)
		}
		point.Forecast /= float64(len(series))

		consensus.Points[i] = point
		widthSum += point.UpperCI - point.LowerCI
		forecastSum += point.Forecast
	}

	meanForecast := forecastSum / float64(horizon)
	if meanForecast <= 0 {
		consensus.Confidence = 0
		return consensus, nil
	}
	consensus.Confidence = 1.0 / (1.0 + (widthSum/float64(horizon))/meanForecast)
	return consensus, nil
}

// Peak returns the day with the highest consensus forecast; the earliest wins ties
func (c *Consensus) Peak() entities.ForecastPoint {
	peak := c.Points[0]
	for _, p := range c.Points[1:] {
		if p.Forecast > peak.Forecast {
			peak = p
		}
	}
	return peak
}

// PredictedPatients is the peak forecast truncated to whole patients
func (c *Consensus) PredictedPatients() int {
	return int(c.Peak().Forecast)
}

// DaysUntilPeak counts whole days from asOf to the peak date, never negative
func (c *Consensus) DaysUntilPeak(asOf time.Time) int {
	days := int(c.Peak().Date.Sub(asOf).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
