package shared

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-04-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.April || got.Day() != 15 {
		t.Fatalf("unexpected date: %v", got)
	}

	got, err = ParseDate("2025-04-15T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error for RFC3339: %v", err)
	}
	if got.Hour() != 10 {
		t.Fatalf("expected time component preserved, got %v", got)
	}

	got, err = ParseDate("")
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero time for empty value, got %v, %v", got, err)
	}

	if _, err := ParseDate("15/04/2025"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2025-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.April || got.Day() != 1 {
		t.Fatalf("unexpected month: %v", got)
	}

	got, err = ParseMonth("2025-04-20")
	if err != nil {
		t.Fatalf("unexpected error for full date: %v", err)
	}
	if got.Day() != 1 || got.Month() != time.April {
		t.Fatalf("expected truncation to first of month, got %v", got)
	}

	got, err = ParseMonth("")
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero time for empty value, got %v, %v", got, err)
	}

	if _, err := ParseMonth("April 2025"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
