package authhandler

import (
	"strings"
	"testing"
	"time"
)

func TestValidateResetPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "accepted", password: "Freelance42x"},
		{name: "exactly ten chars", password: "Abcdefghi1"},
		{name: "nine chars rejected", password: "Abcdefgh1", wantErr: true},
		{name: "no uppercase", password: "freelance42x", wantErr: true},
		{name: "no lowercase", password: "FREELANCE42X", wantErr: true},
		{name: "no digit", password: "Freelancerpw", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validateResetPassword(tc.password)
			if tc.wantErr && err == nil {
				t.Fatalf("expected %q to fail validation", tc.password)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected %q to pass validation, got %v", tc.password, err)
			}
		})
	}
}

func TestBuildResetLink(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		token     string
		wantParts []string
	}{
		{
			name:      "empty base url uses local fallback",
			token:     "abc",
			wantParts: []string{"http://localhost:8080/reset", "token=abc"},
		},
		{
			name:      "configured host",
			baseURL:   "https://talenthub.example.com",
			token:     "tok-1",
			wantParts: []string{"https://talenthub.example.com/reset", "token=tok-1"},
		},
		{
			name:      "base url with path prefix",
			baseURL:   "https://talenthub.example.com/app/",
			token:     "tok-2",
			wantParts: []string{"https://talenthub.example.com/app/reset", "token=tok-2"},
		},
		{
			name:      "schemeless base url falls back",
			baseURL:   "talenthub.example.com",
			token:     "abc",
			wantParts: []string{"http://localhost:8080/reset", "token=abc"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := buildResetLink(tc.baseURL, tc.token)
			for _, part := range tc.wantParts {
				if !strings.Contains(got, part) {
					t.Fatalf("reset link %q missing %q", got, part)
				}
			}
		})
	}
}

func TestBuildResetLinkEncodesToken(t *testing.T) {
	got := buildResetLink("https://talenthub.example.com", "a+b c")
	if !strings.Contains(got, "token=a%2Bb+c") {
		t.Fatalf("expected query-encoded token in %q", got)
	}
}

func TestBuildResetEmailMessage(t *testing.T) {
	link := "https://talenthub.example.com/reset?token=abc"
	msg := buildResetEmailMessage(link, 2*time.Hour)
	if !strings.Contains(msg, link) {
		t.Fatalf("message %q missing reset link", msg)
	}
	if !strings.Contains(msg, "expires in 2 hour(s)") {
		t.Fatalf("message %q missing expiry", msg)
	}
}
