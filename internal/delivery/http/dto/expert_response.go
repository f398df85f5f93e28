package dto

import (
	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/domain/matching"
)

type ExpertListResponse struct {
	Experts []expert.Expert `json:"experts"`
}

type ExpertSearchResponse struct {
	Query   string          `json:"query"`
	Experts []expert.Expert `json:"experts"`
}

type ExpertResponse struct {
	Expert expert.Expert `json:"expert"`
}

type CreateExpertResponse struct {
	Success  bool   `json:"success"`
	ExpertID string `json:"expertId"`
	Message  string `json:"message"`
}

type CategoryListResponse struct {
	Categories []matching.Category `json:"categories"`
}

// MatchedExpert is an expert record with its match annotations flattened in.
type MatchedExpert struct {
	expert.Expert
	MatchScore int    `json:"matchScore"`
	MatchType  string `json:"matchType,omitempty"`
}

type MatchResponse struct {
	Mode     string             `json:"mode"`
	Category *matching.Category `json:"category,omitempty"`
	Keywords []string           `json:"keywords,omitempty"`
	Query    string             `json:"query,omitempty"`
	Experts  []MatchedExpert    `json:"experts"`
}

func NewMatchedExperts(matches []matching.Match) []MatchedExpert {
	out := make([]MatchedExpert, 0, len(matches))
	for _, m := range matches {
		out = append(out, MatchedExpert{Expert: m.Expert, MatchScore: m.Score, MatchType: string(m.Tier)})
	}
	return out
}
