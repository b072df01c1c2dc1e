package model

import (
	"errors"
	"testing"
	"time"
)

// TestOutcomeSuccess tests which outcomes count as normal completion.
func TestOutcomeSuccess(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		outcome  Outcome
		expected bool
	}{
		{OutcomeExhausted, true},
		{OutcomeThreshold, true},
		{OutcomePageLimit, true},
		{OutcomeInterrupted, false},
		{OutcomeFailed, false},
		{Outcome("bogus"), false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.outcome), func(t *testing.T) {
			t.Parallel()
			if tc.outcome.Success() != tc.expected {
				t.Errorf("Success() = %v, expected %v", tc.outcome.Success(), tc.expected)
			}
			if tc.outcome.Description() == "" {
				t.Error("expected non-empty description")
			}
		})
	}
}

// TestRunResultFinish tests finishing a run result.
func TestRunResultFinish(t *testing.T) {
	t.Parallel()

	t.Run("successful finish leaves error empty", func(t *testing.T) {
		t.Parallel()

		r := NewRunResult("https://example.com/tags.json", "tags.csv")
		if r.Duration() != 0 {
			t.Errorf("expected zero duration before finish, got %v", r.Duration())
		}
		if r.ByCategory == nil {
			t.Fatal("expected ByCategory to be initialized")
		}

		r.Finish(OutcomeExhausted, nil)

		if r.Outcome != OutcomeExhausted {
			t.Errorf("expected outcome exhausted, got %q", r.Outcome)
		}
		if r.Error != "" {
			t.Errorf("expected empty error, got %q", r.Error)
		}
		if r.FinishedAt.Before(r.StartedAt) {
			t.Error("expected FinishedAt to be after StartedAt")
		}
	})

	t.Run("failed finish records error", func(t *testing.T) {
		t.Parallel()

		r := NewRunResult("", "")
		r.StartedAt = time.Now().Add(-2 * time.Second)
		r.Finish(OutcomeFailed, errors.New("unexpected status: 500"))

		if r.Error != "unexpected status: 500" {
			t.Errorf("unexpected error message %q", r.Error)
		}
		if r.Duration() < 2*time.Second {
			t.Errorf("expected duration of at least 2s, got %v", r.Duration())
		}
	})
}

// TestTagBelow tests the threshold comparison.
func TestTagBelow(t *testing.T) {
	t.Parallel()

	if (Tag{PostCount: 64}).Below(64) {
		t.Error("post count equal to threshold must qualify")
	}
	if !(Tag{PostCount: 63}).Below(64) {
		t.Error("post count below threshold must not qualify")
	}
	if !(Tag{PostCount: MissingPostCount}).Below(0) {
		t.Error("missing post count must be below a zero threshold")
	}
}
