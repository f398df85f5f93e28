package matching

import (
	"strings"

	"expertise-marketplace/internal/domain/expert"
)

type Mode string

const (
	ModeNone     Mode = "none"
	ModeText     Mode = "text"
	ModeCategory Mode = "category"
)

// Selection holds the active directory filter. At most one of the text query
// and the category keywords is set at any time.
type Selection struct {
	category string
	keywords []string
	query    string
}

// NewSelection resolves the filter from raw inputs. Non-empty keywords win
// over the text query.
func NewSelection(query string, categoryID string, keywords []string) Selection {
	var s Selection
	kws := cleanKeywords(keywords)
	if len(kws) > 0 {
		return s.WithCategory(categoryID, kws)
	}
	return s.WithQuery(query)
}

// WithCategory activates category mode and clears any text query. An empty
// keyword list clears the filter entirely.
func (s Selection) WithCategory(id string, keywords []string) Selection {
	kws := cleanKeywords(keywords)
	if len(kws) == 0 {
		return Selection{}
	}
	return Selection{category: strings.TrimSpace(id), keywords: kws}
}

// WithQuery activates text mode and clears any category.
func (s Selection) WithQuery(query string) Selection {
	return Selection{query: strings.TrimSpace(query)}
}

func (s Selection) Clear() Selection {
	return Selection{}
}

func (s Selection) Mode() Mode {
	switch {
	case len(s.keywords) > 0:
		return ModeCategory
	case s.query != "":
		return ModeText
	default:
		return ModeNone
	}
}

func (s Selection) Category() string { return s.category }
func (s Selection) Query() string    { return s.query }

func (s Selection) Keywords() []string {
	return append([]string(nil), s.keywords...)
}

// Apply runs the active filter over experts.
func (s Selection) Apply(experts []expert.Expert) []Match {
	switch s.Mode() {
	case ModeCategory:
		return RankByCategory(experts, s.keywords)
	case ModeText:
		return FilterByText(experts, s.query)
	default:
		return FilterByText(experts, "")
	}
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}
