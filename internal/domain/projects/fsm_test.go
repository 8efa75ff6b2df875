package projects

import (
	"testing"
	"time"
)

func TestTaskWorkflowAllowedTransitions(t *testing.T) {
	allowed := []struct {
		from string
		to   string
	}{
		{TaskStatusNew, TaskStatusAssigned},
		{TaskStatusAssigned, TaskStatusWorking},
		{TaskStatusWorking, TaskStatusReviewPending},
		{TaskStatusReviewPending, TaskStatusApproved},
		{TaskStatusReviewPending, TaskStatusRejected},
		{TaskStatusRejected, TaskStatusWorking},
		{TaskStatusApproved, TaskStatusCompleted},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}
}

func TestTaskWorkflowRejectsEverythingElse(t *testing.T) {
	allowed := map[transition]bool{
		{TaskStatusNew, TaskStatusAssigned}:           true,
		{TaskStatusAssigned, TaskStatusWorking}:       true,
		{TaskStatusWorking, TaskStatusReviewPending}:  true,
		{TaskStatusReviewPending, TaskStatusApproved}: true,
		{TaskStatusReviewPending, TaskStatusRejected}: true,
		{TaskStatusRejected, TaskStatusWorking}:       true,
		{TaskStatusApproved, TaskStatusCompleted}:     true,
	}
	for _, from := range TaskStatuses {
		for _, to := range TaskStatuses {
			want := allowed[transition{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCompletedTaskIsTerminal(t *testing.T) {
	for _, to := range TaskStatuses {
		if CanTransition(TaskStatusCompleted, to) {
			t.Fatalf("completed task should not transition to %s", to)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name string
		task Task
		want bool
	}{
		{"no due date", Task{Status: TaskStatusWorking}, false},
		{"due in the future", Task{Status: TaskStatusWorking, DueDate: &future}, false},
		{"past due while working", Task{Status: TaskStatusWorking, DueDate: &past}, true},
		{"past due in review", Task{Status: TaskStatusReviewPending, DueDate: &past}, true},
		{"past due but approved", Task{Status: TaskStatusApproved, DueDate: &past}, false},
		{"past due but completed", Task{Status: TaskStatusCompleted, DueDate: &past}, false},
	}
	for _, tc := range cases {
		if got := IsOverdue(tc.task, now); got != tc.want {
			t.Fatalf("%s: IsOverdue = %v, want %v", tc.name, got, tc.want)
		}
	}
}
