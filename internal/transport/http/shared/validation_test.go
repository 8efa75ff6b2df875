package shared

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Enum("status", "bogus", []string{"active", "inactive"}, "status must be active or inactive")
	v.Add("aardvark", "comes first after sorting")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	if issues[0].Field != "aardvark" {
		t.Fatalf("expected issues sorted by field, got %q first", issues[0].Field)
	}
}

func TestValidatorEnumSkipsEmptyAndMatchesCaseInsensitive(t *testing.T) {
	v := NewValidator()
	v.Enum("contractType", "", []string{"fulltime", "parttime"}, "invalid contract type")
	v.Enum("contractType", "FullTime", []string{"fulltime", "parttime"}, "invalid contract type")
	if v.HasIssues() {
		t.Fatalf("expected no issues, got %+v", v.Issues())
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	parsed, ok := v.Date("joinDate", "2025-03-01")
	if !ok || parsed.IsZero() {
		t.Fatalf("expected valid date, got ok=%v parsed=%v", ok, parsed)
	}
	if _, ok := v.Date("joinDate", "01/03/2025"); ok {
		t.Fatal("expected malformed date to be rejected")
	}
	if !v.HasIssues() {
		t.Fatal("expected issue for malformed date")
	}
}

func TestValidatorDateOrder(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	v := NewValidator()
	v.DateOrder("periodStart", start, "periodEnd", end)
	if len(v.Issues()) != 2 {
		t.Fatalf("expected both fields flagged, got %+v", v.Issues())
	}

	v = NewValidator()
	v.DateStrictOrder("periodStart", start, "periodEnd", start)
	if len(v.Issues()) != 1 {
		t.Fatalf("expected equal bounds rejected by strict order, got %+v", v.Issues())
	}

	v = NewValidator()
	v.DateStrictOrder("periodStart", start, "periodEnd", start.AddDate(0, 0, 1))
	if v.HasIssues() {
		t.Fatalf("expected strictly later end to pass, got %+v", v.Issues())
	}
}

func TestValidatorRange(t *testing.T) {
	v := NewValidator()
	v.Range("score", 7.5, 0, 10, "score must be between 0 and 10")
	if v.HasIssues() {
		t.Fatalf("expected in-range value to pass, got %+v", v.Issues())
	}
	v.Range("score", 10.5, 0, 10, "score must be between 0 and 10")
	if !v.HasIssues() {
		t.Fatal("expected out-of-range value to be flagged")
	}
}

func TestRejectWritesValidationEnvelope(t *testing.T) {
	v := NewValidator()
	if v.Reject(httptest.NewRecorder(), "req-1") {
		t.Fatal("expected clean validator not to reject")
	}

	v.Add("email", "email is required")
	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected reject with issues")
	}
	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var envelope struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected success=false")
	}
	if envelope.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error code, got %q", envelope.Error.Code)
	}
	if len(envelope.Error.Details.Fields) != 1 || envelope.Error.Details.Fields[0].Field != "email" {
		t.Fatalf("unexpected field details: %+v", envelope.Error.Details.Fields)
	}
}
