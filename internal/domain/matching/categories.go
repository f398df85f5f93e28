package matching

import "strings"

type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Color    string   `json:"color"`
}

var categories = []Category{
	{ID: "housing", Name: "Housing & Shelter", Keywords: []string{"housing", "shelter", "hud", "affordable", "homeless"}, Color: "#2563eb"},
	{ID: "funding", Name: "Grants & Funding", Keywords: []string{"grant", "funding", "federal", "budget", "development"}, Color: "#16a34a"},
	{ID: "mental-health", Name: "Mental Health", Keywords: []string{"mental health", "counseling", "therapy", "substance", "crisis"}, Color: "#dc2626"},
	{ID: "volunteers", Name: "Volunteers", Keywords: []string{"volunteer", "training", "event", "management"}, Color: "#9333ea"},
	{ID: "youth", Name: "Youth Services", Keywords: []string{"youth", "mentoring", "education", "gang", "teen"}, Color: "#ea580c"},
	{ID: "advocacy", Name: "Client Advocacy", Keywords: []string{"advocacy", "legal", "conflict", "resolution", "client"}, Color: "#0891b2"},
	{ID: "outreach", Name: "Community Outreach", Keywords: []string{"community", "outreach", "crisis", "intervention", "trauma"}, Color: "#be185d"},
	{ID: "admin", Name: "Administration", Keywords: []string{"excel", "database", "planning", "management", "social media"}, Color: "#4b5563"},
}

// Categories returns a copy of the category catalog in display order.
func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		c.Keywords = append([]string(nil), c.Keywords...)
		out = append(out, c)
	}
	return out
}

func CategoryByID(id string) (Category, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, c := range categories {
		if c.ID == id {
			c.Keywords = append([]string(nil), c.Keywords...)
			return c, true
		}
	}
	return Category{}, false
}
