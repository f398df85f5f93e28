package matching

import (
	"sort"
	"strings"

	"expertise-marketplace/internal/domain/expert"
)

type Tier string

const (
	TierNone        Tier = ""
	TierRecommended Tier = "recommended"
	TierBest        Tier = "best"
)

// bestThreshold is the keyword hit count from which an expert is a best match.
const bestThreshold = 2

type Match struct {
	Expert expert.Expert
	Score  int
	Tier   Tier
}

// TierForScore classifies a keyword score. Zero scores have no tier.
func TierForScore(score int) Tier {
	switch {
	case score >= bestThreshold:
		return TierBest
	case score >= 1:
		return TierRecommended
	default:
		return TierNone
	}
}

func haystack(e expert.Expert) string {
	parts := make([]string, 0, 4+len(e.Skills))
	parts = append(parts, e.Name, e.Title, e.Department, e.Bio)
	parts = append(parts, e.Skills...)
	return strings.ToLower(strings.Join(parts, " "))
}

// ScoreByKeywords counts the keywords found as substrings of the expert's
// name, title, department, bio and skills. Each distinct keyword counts at
// most once; keywords differing only in case are the same keyword.
func ScoreByKeywords(e expert.Expert, keywords []string) int {
	if len(keywords) == 0 {
		return 0
	}

	text := haystack(e)
	seen := make(map[string]struct{}, len(keywords))
	score := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		if strings.Contains(text, kw) {
			score++
		}
	}
	return score
}

// RankByCategory keeps the experts with at least one keyword hit, ordered by
// score descending. Equal scores keep their input order.
func RankByCategory(experts []expert.Expert, keywords []string) []Match {
	out := make([]Match, 0, len(experts))
	if len(keywords) == 0 {
		return out
	}

	for _, e := range experts {
		s := ScoreByKeywords(e, keywords)
		if s == 0 {
			continue
		}
		out = append(out, Match{Expert: e, Score: s, Tier: TierForScore(s)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// FilterByText returns the experts whose name, title, department or any skill
// contains query, case-insensitively, in input order. A blank query matches all.
func FilterByText(experts []expert.Expert, query string) []Match {
	out := make([]Match, 0, len(experts))

	all := strings.TrimSpace(query) == ""
	q := strings.ToLower(query)
	for _, e := range experts {
		if all || matchesText(e, q) {
			out = append(out, Match{Expert: e, Tier: TierNone})
		}
	}
	return out
}

func matchesText(e expert.Expert, q string) bool {
	if strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Department), q) {
		return true
	}
	for _, s := range e.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
