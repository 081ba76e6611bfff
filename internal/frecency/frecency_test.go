package frecency

import (
	"math"
	"testing"
	"time"

	"ggo/internal/storage"
)

func TestScoreFreshRecord(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rec := &storage.BranchRecord{
		RepoPath:    "/repo",
		BranchName:  "main",
		SwitchCount: 5,
		LastUsed:    now.Unix(),
	}

	score := Score(rec, now, DefaultHalfLifeSeconds)
	if math.Abs(score-5.0) > 1e-9 {
		t.Errorf("Expected fresh record score 5.0, got %f", score)
	}
}

func TestScoreHalfLife(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rec := &storage.BranchRecord{
		SwitchCount: 10,
		LastUsed:    now.Add(-7 * 24 * time.Hour).Unix(),
	}

	// Exactly one half-life old: score halves
	score := Score(rec, now, DefaultHalfLifeSeconds)
	if math.Abs(score-5.0) > 1e-6 {
		t.Errorf("Expected score 5.0 after one half-life, got %f", score)
	}

	// Two half-lives: quarters
	rec.LastUsed = now.Add(-14 * 24 * time.Hour).Unix()
	score = Score(rec, now, DefaultHalfLifeSeconds)
	if math.Abs(score-2.5) > 1e-6 {
		t.Errorf("Expected score 2.5 after two half-lives, got %f", score)
	}
}

func TestScoreFutureTimestampClamped(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rec := &storage.BranchRecord{
		SwitchCount: 3,
		LastUsed:    now.Add(time.Hour).Unix(),
	}

	// A last_used in the future must not boost the score above the count
	score := Score(rec, now, DefaultHalfLifeSeconds)
	if math.Abs(score-3.0) > 1e-9 {
		t.Errorf("Expected clamped score 3.0, got %f", score)
	}
}

func TestScoreZeroCases(t *testing.T) {
	now := time.Unix(1700000000, 0)

	if got := Score(nil, now, DefaultHalfLifeSeconds); got != 0 {
		t.Errorf("Expected nil record to score 0, got %f", got)
	}

	rec := &storage.BranchRecord{SwitchCount: 0, LastUsed: now.Unix()}
	if got := Score(rec, now, DefaultHalfLifeSeconds); got != 0 {
		t.Errorf("Expected zero-count record to score 0, got %f", got)
	}
}

func TestScoreMonotonicInRecency(t *testing.T) {
	now := time.Unix(1700000000, 0)
	older := &storage.BranchRecord{SwitchCount: 5, LastUsed: now.Add(-48 * time.Hour).Unix()}
	newer := &storage.BranchRecord{SwitchCount: 5, LastUsed: now.Add(-1 * time.Hour).Unix()}

	if Score(newer, now, DefaultHalfLifeSeconds) <= Score(older, now, DefaultHalfLifeSeconds) {
		t.Error("Expected more recent record with equal count to score higher")
	}
}

func TestRankOrdering(t *testing.T) {
	now := time.Unix(1700000000, 0)
	records := []storage.BranchRecord{
		{BranchName: "stale-heavy", SwitchCount: 20, LastUsed: now.Add(-60 * 24 * time.Hour).Unix()},
		{BranchName: "fresh-light", SwitchCount: 3, LastUsed: now.Unix()},
		{BranchName: "fresh-heavy", SwitchCount: 10, LastUsed: now.Unix()},
	}

	ranked := Rank(records, now, DefaultHalfLifeSeconds)
	if len(ranked) != 3 {
		t.Fatalf("Expected 3 ranked entries, got %d", len(ranked))
	}

	if ranked[0].Record.BranchName != "fresh-heavy" {
		t.Errorf("Expected 'fresh-heavy' first, got '%s'", ranked[0].Record.BranchName)
	}
	if ranked[1].Record.BranchName != "fresh-light" {
		t.Errorf("Expected 'fresh-light' second, got '%s'", ranked[1].Record.BranchName)
	}
	// 20 switches 60 days ago decays well below 3 fresh switches
	if ranked[2].Record.BranchName != "stale-heavy" {
		t.Errorf("Expected 'stale-heavy' last, got '%s'", ranked[2].Record.BranchName)
	}
}

func TestRankTieBreaksLexically(t *testing.T) {
	now := time.Unix(1700000000, 0)
	records := []storage.BranchRecord{
		{BranchName: "zeta", SwitchCount: 2, LastUsed: now.Unix()},
		{BranchName: "alpha", SwitchCount: 2, LastUsed: now.Unix()},
	}

	ranked := Rank(records, now, DefaultHalfLifeSeconds)
	if ranked[0].Record.BranchName != "alpha" {
		t.Errorf("Expected 'alpha' first on tie, got '%s'", ranked[0].Record.BranchName)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds", 30 * time.Second, "just now"},
		{"one minute", 90 * time.Second, "1 minute ago"},
		{"minutes", 5 * time.Minute, "5 minutes ago"},
		{"hours", 3 * time.Hour, "3 hours ago"},
		{"one day", 25 * time.Hour, "1 day ago"},
		{"days", 6 * 24 * time.Hour, "6 days ago"},
		{"months", 65 * 24 * time.Hour, "2 months ago"},
		{"years", 800 * 24 * time.Hour, "2 years ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRelativeTime(now.Add(-tt.ago).Unix(), now)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
