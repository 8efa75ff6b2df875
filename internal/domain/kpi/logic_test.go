package kpi

import (
	"testing"
	"time"
)

func TestOverallScore(t *testing.T) {
	cases := []struct {
		quality       float64
		collaboration float64
		innovation    float64
		want          float64
	}{
		{8, 6, 7, 7.00},
		{10, 10, 10, 10.00},
		{0, 0, 0, 0.00},
		{7.5, 8.2, 6.9, 7.53},
		{1, 1, 2, 1.33},
	}
	for _, tc := range cases {
		got := OverallScore(tc.quality, tc.collaboration, tc.innovation)
		if got != tc.want {
			t.Fatalf("OverallScore(%v, %v, %v) = %v, want %v", tc.quality, tc.collaboration, tc.innovation, got, tc.want)
		}
	}
}

func TestOverallScoreRoundsHalfUp(t *testing.T) {
	// Mean of 7, 7, 7.015 is 7.005 which must round up to 7.01.
	got := OverallScore(7, 7, 7.015)
	if got != 7.01 {
		t.Fatalf("expected 7.01, got %v", got)
	}
}

func TestOnTimePercentage(t *testing.T) {
	if got := OnTimePercentage(10, 9); got != 90.00 {
		t.Fatalf("expected 90, got %v", got)
	}
	if got := OnTimePercentage(3, 1); got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
	if got := OnTimePercentage(0, 0); got != 0 {
		t.Fatalf("expected 0 for no tasks, got %v", got)
	}
}

func TestNormalizeMonth(t *testing.T) {
	in := time.Date(2026, 3, 17, 14, 30, 0, 0, time.FixedZone("X", 3600))
	got := NormalizeMonth(in)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("NormalizeMonth = %v, want %v", got, want)
	}
}

func TestValidTaskCounts(t *testing.T) {
	if !ValidTaskCounts(10, 10) {
		t.Fatal("on-time equal to completed should be valid")
	}
	if !ValidTaskCounts(10, 0) {
		t.Fatal("zero on-time should be valid")
	}
	if ValidTaskCounts(5, 6) {
		t.Fatal("on-time above completed must be rejected")
	}
	if ValidTaskCounts(-1, 0) {
		t.Fatal("negative completed must be rejected")
	}
	if ValidTaskCounts(5, -2) {
		t.Fatal("negative on-time must be rejected")
	}
}

func TestValidScore(t *testing.T) {
	for _, score := range []float64{0, 5.5, 10} {
		if !ValidScore(score) {
			t.Fatalf("score %v should be valid", score)
		}
	}
	for _, score := range []float64{-0.01, 10.01} {
		if ValidScore(score) {
			t.Fatalf("score %v should be rejected", score)
		}
	}
}
