// Package trend derives a qualitative progress label from a seizure log history.
package trend

import (
	"math"
	"time"

	"seizure-care-server/internal/models"
	"seizure-care-server/internal/validation"
)

// DefaultWindowDays is the trailing window used when the caller gives none.
const DefaultWindowDays = 7

// Progress labels.
const (
	NoData           = "No Data"
	InsufficientData = "Insufficient Data"
	Improving        = "Improving"
	Stable           = "Stable"
	NeedsAttention   = "Needs Attention"
)

const (
	minDaysLogged = 7
	improvingRate = 0.5
	stableRate    = 1.2
)

// Summary is the outcome of Analyze.
type Summary struct {
	TotalSeizures      int     `json:"total_seizures"`
	RecentSeizures     int     `json:"seven_day_trend"`
	Progress           string  `json:"progress"`
	SeizureRate        float64 `json:"seizure_rate"`
	TotalDaysLogged    int     `json:"total_days_logged"`
	AnalysisPeriodDays int     `json:"analysis_period_days"`
}

// Analyze classifies the history in logs. Recent seizures are those logged on
// or after today minus days. Each log counts as one logged day.
func Analyze(logs []*models.SeizureLog, days int, today time.Time) Summary {
	summary := Summary{Progress: NoData, AnalysisPeriodDays: days}
	totalDays := len(logs)
	if totalDays == 0 {
		return summary
	}

	y, m, d := today.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, today.Location()).AddDate(0, 0, -days).Format(validation.DateLayout)

	total, recent := 0, 0
	for _, l := range logs {
		total += l.Occurred
		// Dates are zero-padded YYYY-MM-DD, so string order is date order.
		if l.Date >= since {
			recent += l.Occurred
		}
	}

	dailyRate := float64(total) / float64(totalDays)
	summary.TotalSeizures = total
	summary.RecentSeizures = recent
	summary.TotalDaysLogged = totalDays
	summary.SeizureRate = roundFloat(dailyRate*100, 2)
	summary.Progress = classify(totalDays, recent, dailyRate, days)
	return summary
}

func classify(totalDays, recent int, dailyRate float64, days int) string {
	expected := dailyRate * float64(days)
	switch {
	case totalDays < minDaysLogged:
		return InsufficientData
	case recent == 0:
		return Improving
	case float64(recent) <= expected*improvingRate:
		return Improving
	case float64(recent) <= expected*stableRate:
		return Stable
	}
	return NeedsAttention
}

// roundFloat rounds a float64 to a specified number of decimal places.
func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
