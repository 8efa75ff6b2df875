package salary

import (
	"errors"
	"testing"
)

func TestNextAllowsOnlyDefinedTransitions(t *testing.T) {
	cases := []struct {
		from   string
		action string
		want   string
	}{
		{StatusPending, ActionApprove, StatusApproved},
		{StatusPending, ActionReject, StatusRejected},
		{StatusApproved, ActionImplement, StatusImplemented},
	}
	for _, tc := range cases {
		got, err := Next(tc.from, tc.action)
		if err != nil {
			t.Fatalf("Next(%s, %s) returned error: %v", tc.from, tc.action, err)
		}
		if got != tc.want {
			t.Fatalf("Next(%s, %s) = %s, want %s", tc.from, tc.action, got, tc.want)
		}
	}
}

func TestNextRejectsEverythingElse(t *testing.T) {
	actions := []string{ActionApprove, ActionReject, ActionImplement}
	for _, from := range Statuses {
		for _, action := range actions {
			if CanTransition(from, action) {
				continue
			}
			if _, err := Next(from, action); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("Next(%s, %s): expected ErrInvalidState, got %v", from, action, err)
			}
		}
	}
}

func TestRejectNotAllowedOnceImplemented(t *testing.T) {
	if _, err := Next(StatusImplemented, ActionReject); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestMutableOnlyWhilePending(t *testing.T) {
	if !Mutable(StatusPending) {
		t.Fatal("pending review should be mutable")
	}
	for _, status := range []string{StatusApproved, StatusRejected, StatusImplemented} {
		if Mutable(status) {
			t.Fatalf("%s review should not be mutable", status)
		}
	}
}
