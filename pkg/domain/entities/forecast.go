package entities

import "time"

// ForecastPoint is one day of a model's patient-volume forecast
type ForecastPoint struct {
	Date     time.Time
	Forecast float64
	LowerCI  float64
	UpperCI  float64
}

// ForecastSeries is the output of one forecasting model
type ForecastSeries struct {
	Model  string
	Points []ForecastPoint
}
