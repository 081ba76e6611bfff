// Package matcher produces ranked branch-name candidates for a pattern,
// either by exact substring or by fuzzy subsequence matching.
package matcher

import (
	"sort"
	"strings"
)

// Options selects the matching mode
type Options struct {
	// Fuzzy enables subsequence matching; otherwise the pattern must occur
	// as a contiguous substring
	Fuzzy bool
	// IgnoreCase folds pattern and candidates before comparing
	IgnoreCase bool
}

// ScoredMatch is one candidate with its match quality. Quality values are
// comparable only within a single Match call.
type ScoredMatch struct {
	BranchName string
	Quality    float64
}

// Scoring weights. Tuned so that contiguity and word-boundary anchoring
// dominate over raw length differences.
const (
	// matchBase keeps quality scores positive for realistic branch names,
	// so downstream score ratios stay meaningful
	matchBase = 100.0

	consecutiveBonus = 5.0
	boundaryBonus    = 10.0
	gapPenalty       = 1.0
	lengthPenalty    = 0.5
)

// Match returns every branch matching the pattern, sorted by descending
// quality with lexical order breaking ties. An empty pattern matches every
// branch at neutral quality.
func Match(pattern string, branches []string, opts Options) []ScoredMatch {
	var matches []ScoredMatch

	needle := pattern
	if opts.IgnoreCase {
		needle = strings.ToLower(needle)
	}

	for _, branch := range branches {
		haystack := branch
		if opts.IgnoreCase {
			haystack = strings.ToLower(haystack)
		}

		var quality float64
		var ok bool
		if needle == "" {
			quality, ok = 0, true
		} else if opts.Fuzzy {
			quality, ok = fuzzyScore(needle, haystack)
		} else {
			quality, ok = substringScore(needle, haystack)
		}
		if ok {
			matches = append(matches, ScoredMatch{BranchName: branch, Quality: quality})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Quality != matches[j].Quality {
			return matches[i].Quality > matches[j].Quality
		}
		return matches[i].BranchName < matches[j].BranchName
	})
	return matches
}

// substringScore scores a contiguous match: earlier positions and shorter
// candidates score higher
func substringScore(needle, haystack string) (float64, bool) {
	pos := strings.Index(haystack, needle)
	if pos < 0 {
		return 0, false
	}
	extra := len(haystack) - len(needle)
	return matchBase - float64(pos)*gapPenalty - float64(extra)*lengthPenalty, true
}

// fuzzyScore scores an in-order subsequence match. A single greedy scan from
// the left would lock onto the first occurrence of the pattern's first
// character and miss a contiguous, boundary-anchored occurrence later in the
// name (think "auth" in "feature/auth"), so the scan is restarted at every
// occurrence of that character and the best alignment wins.
func fuzzyScore(needle, haystack string) (float64, bool) {
	best := 0.0
	found := false

	for start := 0; start+len(needle) <= len(haystack); start++ {
		if haystack[start] != needle[0] {
			continue
		}
		score, ok := scanFrom(needle, haystack, start)
		if ok && (!found || score > best) {
			best = score
			found = true
		}
	}

	if !found {
		return 0, false
	}
	return matchBase + best - float64(len(haystack))*lengthPenalty, true
}

// scanFrom greedily assigns pattern characters from position start onward.
// Matched characters earn a bonus when they extend a contiguous run or sit
// on a word boundary; skipped characters between matches cost points.
func scanFrom(needle, haystack string, start int) (float64, bool) {
	score := 0.0
	prevMatched := false
	ni := 0

	for hi := start; hi < len(haystack) && ni < len(needle); hi++ {
		if haystack[hi] != needle[ni] {
			score -= gapPenalty
			prevMatched = false
			continue
		}

		if prevMatched {
			score += consecutiveBonus
		}
		if isBoundary(haystack, hi) {
			score += boundaryBonus
		}
		prevMatched = true
		ni++
	}

	if ni < len(needle) {
		return 0, false
	}
	return score, true
}

// isBoundary reports whether position i starts a word: the string start or
// the character after a path or word separator
func isBoundary(s string, i int) bool {
	if i == 0 {
		return true
	}
	switch s[i-1] {
	case '/', '-', '_':
		return true
	}
	return false
}
