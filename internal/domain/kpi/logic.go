package kpi

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ScoreMin = 0.0
	ScoreMax = 10.0
)

// OverallScore is the mean of the three sub-scores rounded half-up to two
// decimals. It is recomputed on every write; client-supplied values are
// ignored.
func OverallScore(quality, collaboration, innovation float64) float64 {
	sum := decimal.NewFromFloat(quality).
		Add(decimal.NewFromFloat(collaboration)).
		Add(decimal.NewFromFloat(innovation))
	out, _ := sum.Div(decimal.NewFromInt(3)).Round(2).Float64()
	return out
}

// OnTimePercentage is a presentation-only derived value.
func OnTimePercentage(tasksCompleted, tasksOnTime int) float64 {
	if tasksCompleted <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(tasksOnTime)).
		Div(decimal.NewFromInt(int64(tasksCompleted))).
		Mul(decimal.NewFromInt(100))
	out, _ := pct.Round(2).Float64()
	return out
}

// NormalizeMonth collapses any date to the first day of its month in UTC.
func NormalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func ValidScore(score float64) bool {
	return score >= ScoreMin && score <= ScoreMax
}

func ValidTaskCounts(tasksCompleted, tasksOnTime int) bool {
	return tasksCompleted >= 0 && tasksOnTime >= 0 && tasksOnTime <= tasksCompleted
}
