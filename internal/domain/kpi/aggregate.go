package kpi

import "github.com/shopspring/decimal"

// Aggregate reduces one month of records to its stats. Pure so it can be
// exercised without a database.
func Aggregate(month string, records []Record) MonthlyStats {
	stats := MonthlyStats{Month: month}
	if len(records) == 0 {
		return stats
	}

	overallSum := decimal.Zero
	qualitySum := decimal.Zero
	collaborationSum := decimal.Zero
	innovationSum := decimal.Zero
	for _, rec := range records {
		stats.EmployeeCount++
		stats.TotalTasks += rec.TasksCompleted
		stats.TotalOnTime += rec.TasksOnTime
		overallSum = overallSum.Add(decimal.NewFromFloat(rec.OverallScore))
		qualitySum = qualitySum.Add(decimal.NewFromFloat(rec.QualityScore))
		collaborationSum = collaborationSum.Add(decimal.NewFromFloat(rec.CollaborationScore))
		innovationSum = innovationSum.Add(decimal.NewFromFloat(rec.InnovationScore))
		if rec.OverallScore > stats.TopOverall {
			stats.TopOverall = rec.OverallScore
			stats.TopEmployeeID = rec.EmployeeID
		}
	}

	count := decimal.NewFromInt(int64(stats.EmployeeCount))
	stats.AverageOverall = meanOf(overallSum, count)
	stats.AvgQuality = meanOf(qualitySum, count)
	stats.AvgCollaboration = meanOf(collaborationSum, count)
	stats.AvgInnovation = meanOf(innovationSum, count)
	stats.OnTimePercentage = OnTimePercentage(stats.TotalTasks, stats.TotalOnTime)
	return stats
}

func meanOf(sum, count decimal.Decimal) float64 {
	avg, _ := sum.Div(count).Round(2).Float64()
	return avg
}
