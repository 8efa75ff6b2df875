package kpi

import "testing"

func TestAggregate(t *testing.T) {
	records := []Record{
		{EmployeeID: "a", TasksCompleted: 10, TasksOnTime: 9, QualityScore: 7.0, CollaborationScore: 6.5, InnovationScore: 7.5, OverallScore: 7.00},
		{EmployeeID: "b", TasksCompleted: 20, TasksOnTime: 15, QualityScore: 9.5, CollaborationScore: 9.0, InnovationScore: 10.0, OverallScore: 9.50},
		{EmployeeID: "c", TasksCompleted: 0, TasksOnTime: 0, QualityScore: 5.0, CollaborationScore: 5.5, InnovationScore: 5.25, OverallScore: 5.25},
	}

	stats := Aggregate("2026-07", records)
	if stats.Month != "2026-07" {
		t.Fatalf("expected month 2026-07, got %s", stats.Month)
	}
	if stats.EmployeeCount != 3 {
		t.Fatalf("expected 3 employees, got %d", stats.EmployeeCount)
	}
	if stats.TotalTasks != 30 || stats.TotalOnTime != 24 {
		t.Fatalf("expected 30/24 tasks, got %d/%d", stats.TotalTasks, stats.TotalOnTime)
	}
	if stats.AverageOverall != 7.25 {
		t.Fatalf("expected average 7.25, got %v", stats.AverageOverall)
	}
	if stats.OnTimePercentage != 80.00 {
		t.Fatalf("expected on-time 80, got %v", stats.OnTimePercentage)
	}
	if stats.TopEmployeeID != "b" || stats.TopOverall != 9.50 {
		t.Fatalf("expected top employee b at 9.50, got %s at %v", stats.TopEmployeeID, stats.TopOverall)
	}
}

func TestAggregateSubScoreMeans(t *testing.T) {
	records := []Record{
		{EmployeeID: "a", QualityScore: 8.0, CollaborationScore: 6.0, InnovationScore: 7.0, OverallScore: 7.00},
		{EmployeeID: "b", QualityScore: 9.0, CollaborationScore: 7.5, InnovationScore: 8.0, OverallScore: 8.17},
	}

	stats := Aggregate("2026-07", records)
	if stats.AvgQuality != 8.50 {
		t.Fatalf("expected avg quality 8.50, got %v", stats.AvgQuality)
	}
	if stats.AvgCollaboration != 6.75 {
		t.Fatalf("expected avg collaboration 6.75, got %v", stats.AvgCollaboration)
	}
	if stats.AvgInnovation != 7.50 {
		t.Fatalf("expected avg innovation 7.50, got %v", stats.AvgInnovation)
	}
}

func TestAggregateSubScoreMeansRound(t *testing.T) {
	// 7.0 + 7.5 + 7.5 over three records: mean 7.333... rounds to 7.33.
	records := []Record{
		{EmployeeID: "a", QualityScore: 7.0},
		{EmployeeID: "b", QualityScore: 7.5},
		{EmployeeID: "c", QualityScore: 7.5},
	}

	stats := Aggregate("2026-07", records)
	if stats.AvgQuality != 7.33 {
		t.Fatalf("expected avg quality 7.33, got %v", stats.AvgQuality)
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate("2026-01", nil)
	if stats.EmployeeCount != 0 || stats.AverageOverall != 0 || stats.OnTimePercentage != 0 {
		t.Fatalf("empty month should produce zero stats, got %+v", stats)
	}
	if stats.AvgQuality != 0 || stats.AvgCollaboration != 0 || stats.AvgInnovation != 0 {
		t.Fatalf("empty month should produce zero sub-score means, got %+v", stats)
	}
}
