package kpi

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotMonth materializes the aggregate stats for a month into
// kpi_monthly_stats. The upsert makes repeated runs idempotent, so the
// scheduler does not need to track whether a month was already captured.
func SnapshotMonth(ctx context.Context, db *pgxpool.Pool, month time.Time) (MonthlyStats, error) {
	store := NewStore(db)
	normalized := NormalizeMonth(month)
	records, err := store.ListMonth(ctx, normalized)
	if err != nil {
		return MonthlyStats{}, err
	}
	stats := Aggregate(normalized.Format("2006-01"), records)

	_, err = db.Exec(ctx, `
    INSERT INTO kpi_monthly_stats (month, employee_count, average_overall,
      avg_quality, avg_collaboration, avg_innovation,
      total_tasks, total_on_time, on_time_percentage, top_employee_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (month) DO UPDATE
      SET employee_count = EXCLUDED.employee_count,
          average_overall = EXCLUDED.average_overall,
          avg_quality = EXCLUDED.avg_quality,
          avg_collaboration = EXCLUDED.avg_collaboration,
          avg_innovation = EXCLUDED.avg_innovation,
          total_tasks = EXCLUDED.total_tasks,
          total_on_time = EXCLUDED.total_on_time,
          on_time_percentage = EXCLUDED.on_time_percentage,
          top_employee_id = EXCLUDED.top_employee_id,
          snapshot_at = now()
  `, stats.Month, stats.EmployeeCount, stats.AverageOverall,
		stats.AvgQuality, stats.AvgCollaboration, stats.AvgInnovation,
		stats.TotalTasks, stats.TotalOnTime, stats.OnTimePercentage, nullIfEmpty(stats.TopEmployeeID))
	if err != nil {
		return MonthlyStats{}, err
	}
	return stats, nil
}
