// Package frecency scores branch usage records by combining switch frequency
// with an exponential recency decay.
package frecency

import (
	"fmt"
	"math"
	"sort"
	"time"

	"ggo/internal/storage"
)

// DefaultHalfLifeSeconds is the decay half-life: a branch untouched for this
// long keeps half its score
const DefaultHalfLifeSeconds = 7 * 24 * 60 * 60

// Score computes the frecency score of a usage record at the given instant.
// The score halves for every half-life of idle time, so a branch switched to
// often but long ago loses to one switched to recently.
func Score(rec *storage.BranchRecord, now time.Time, halfLifeSeconds float64) float64 {
	if rec == nil || rec.SwitchCount <= 0 {
		return 0
	}

	age := float64(now.Unix() - rec.LastUsed)
	if age < 0 {
		// Clock skew between invocations; treat the record as current
		age = 0
	}

	decay := math.Exp(-math.Ln2 / halfLifeSeconds * age)
	return float64(rec.SwitchCount) * decay
}

// Ranked pairs a usage record with its score
type Ranked struct {
	Record storage.BranchRecord
	Score  float64
}

// Rank scores every record and returns them sorted by descending score.
// Ties break lexically on branch name so output order is deterministic.
func Rank(records []storage.BranchRecord, now time.Time, halfLifeSeconds float64) []Ranked {
	ranked := make([]Ranked, 0, len(records))
	for _, rec := range records {
		rec := rec
		ranked = append(ranked, Ranked{
			Record: rec,
			Score:  Score(&rec, now, halfLifeSeconds),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Record.BranchName < ranked[j].Record.BranchName
	})
	return ranked
}

// FormatRelativeTime renders a Unix timestamp as a coarse human age like
// "2 hours ago" for stats output
func FormatRelativeTime(lastUsed int64, now time.Time) string {
	age := now.Unix() - lastUsed
	if age < 0 {
		age = 0
	}

	switch {
	case age < 60:
		return "just now"
	case age < 3600:
		return plural(age/60, "minute")
	case age < 86400:
		return plural(age/3600, "hour")
	case age < 30*86400:
		return plural(age/86400, "day")
	case age < 365*86400:
		return plural(age/(30*86400), "month")
	default:
		return plural(age/(365*86400), "year")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
