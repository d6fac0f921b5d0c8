package utils

import (
	"testing"
	"time"

	"hirehub-api/models"
)

func TestParseApplicationStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect models.ApplicationStatus
		ok     bool
	}{
		{input: "SHORTLISTED", expect: models.StatusShortlisted, ok: true},
		{input: " shortlisted ", expect: models.StatusShortlisted, ok: true},
		{input: "Interviewing", expect: models.StatusInterview, ok: true},
		{input: "offer", expect: models.StatusOffered, ok: true},
		{input: "HIRED", expect: models.StatusHired, ok: true},
		{input: "Rejected", expect: models.StatusRejected, ok: true},
		{input: "interview-scheduled", expect: models.StatusInterview, ok: true},
		{input: "archived", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseApplicationStatus(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestEveryStatusParsesToItself(t *testing.T) {
	for _, s := range models.AllStatuses() {
		got, ok := ParseApplicationStatus(string(s))
		if !ok || got != s {
			t.Fatalf("expected %s to parse to itself, got %s (ok=%v)", s, got, ok)
		}
	}
}

func TestParseClientTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect time.Time
		err    bool
	}{
		{name: "rfc3339", input: "2024-02-12T10:00:00Z", expect: time.Date(2024, 2, 12, 10, 0, 0, 0, time.UTC)},
		{name: "rfc3339 offset", input: "2024-02-12T12:00:00+02:00", expect: time.Date(2024, 2, 12, 10, 0, 0, 0, time.UTC)},
		{name: "datetime-local", input: "2024-02-12T10:00", expect: time.Date(2024, 2, 12, 10, 0, 0, 0, time.UTC)},
		{name: "date only", input: "2024-03-01", expect: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", input: "next tuesday", err: true},
		{name: "empty", input: "  ", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseClientTime(tt.input)
			if tt.err {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestValidateLink(t *testing.T) {
	if !ValidateLink("https://meet.example.com/abc") {
		t.Fatalf("expected https link to be valid")
	}
	if ValidateLink("meet.example.com/abc") {
		t.Fatalf("expected link without scheme to be invalid")
	}
	if ValidateLink("javascript:alert(1)") {
		t.Fatalf("expected javascript link to be invalid")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00 world "); got != "hello world" {
		t.Fatalf("unexpected sanitized value %q", got)
	}
}
