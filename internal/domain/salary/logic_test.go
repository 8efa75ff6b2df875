package salary

import "testing"

func TestIncreasePercentage(t *testing.T) {
	cases := []struct {
		current  float64
		proposed float64
		want     float64
	}{
		{50000, 55000, 10.00},
		{1000, 1001, 0.10},
		{3000, 4000, 33.33},
		{60000, 90000, 50.00},
		{1, 2, 100.00},
	}
	for _, tc := range cases {
		got := IncreasePercentage(tc.current, tc.proposed)
		if got != tc.want {
			t.Fatalf("IncreasePercentage(%v, %v) = %v, want %v", tc.current, tc.proposed, got, tc.want)
		}
	}
}

func TestIncreasePercentageRoundsHalfUp(t *testing.T) {
	// 1234.50 / 10000 * 100 = 12.345, which must round to 12.35 rather
	// than 12.34.
	got := IncreasePercentage(10000, 11234.50)
	if got != 12.35 {
		t.Fatalf("expected 12.35, got %v", got)
	}
}

func TestIncreasePercentageZeroCurrent(t *testing.T) {
	if got := IncreasePercentage(0, 55000); got != 0 {
		t.Fatalf("expected 0 for zero current salary, got %v", got)
	}
}

func TestValidProposal(t *testing.T) {
	if !ValidProposal(50000, 55000) {
		t.Fatal("raise above current salary should be valid")
	}
	if ValidProposal(50000, 50000) {
		t.Fatal("equal salary must be rejected")
	}
	if ValidProposal(50000, 45000) {
		t.Fatal("pay cut must be rejected")
	}
	if ValidProposal(0, 100) {
		t.Fatal("zero current salary must be rejected")
	}
}
