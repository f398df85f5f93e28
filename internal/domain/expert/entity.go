package expert

import "time"

const (
	StatusActive       = "active"
	NominationPending  = "pending"
	AnonymousSubmitter = "anonymous"
)

// Flair badges an expert can carry.
const (
	FlairResponsive          = "responsive"
	FlairFrequentlyRequested = "frequently-requested"
	FlairRisingStar          = "rising-star"
	FlairTopContributor      = "top-contributor"
	FlairMentor              = "mentor"
	FlairThoughtLeader       = "thought-leader"
)

var FlairVocabulary = []string{
	FlairResponsive,
	FlairFrequentlyRequested,
	FlairRisingStar,
	FlairTopContributor,
	FlairMentor,
	FlairThoughtLeader,
}

type Expert struct {
	ID           string         `json:"id" bson:"_id" yaml:"id"`
	Name         string         `json:"name" bson:"name" yaml:"name" validate:"required"`
	Title        string         `json:"title" bson:"title" yaml:"title" validate:"required"`
	Department   string         `json:"department" bson:"department" yaml:"department"`
	Affiliate    string         `json:"affiliate" bson:"affiliate" yaml:"affiliate"`
	Skills       []string       `json:"skills" bson:"skills" yaml:"skills" validate:"min=1,dive,required"`
	Email        string         `json:"email" bson:"email" yaml:"email" validate:"required"`
	Bio          string         `json:"bio" bson:"bio" yaml:"bio"`
	Flair        []string       `json:"flair,omitempty" bson:"flair,omitempty" yaml:"flair,omitempty" validate:"omitempty,dive,oneof=responsive frequently-requested rising-star top-contributor mentor thought-leader"`
	Endorsements map[string]int `json:"endorsements,omitempty" bson:"endorsements,omitempty" yaml:"endorsements,omitempty" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	RequestCount int            `json:"requestCount,omitempty" bson:"requestCount,omitempty" yaml:"requestCount,omitempty" validate:"gte=0"`
	Highlights   []string       `json:"highlights,omitempty" bson:"highlights,omitempty" yaml:"highlights,omitempty"`
	Availability string         `json:"availability,omitempty" bson:"availability,omitempty" yaml:"availability,omitempty"`
	ResponseTime string         `json:"responseTime,omitempty" bson:"responseTime,omitempty" yaml:"responseTime,omitempty"`
	CreatedAt    time.Time      `json:"createdAt" bson:"createdAt" yaml:"createdAt,omitempty"`
	Status       string         `json:"status" bson:"status" yaml:"status,omitempty"`
}

// NominatedExpertRef is the lightweight copy of an expert stored inside a nomination.
type NominatedExpertRef struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Title      string `json:"title" bson:"title"`
	Department string `json:"department" bson:"department"`
	Email      string `json:"email" bson:"email"`
}

type Nomination struct {
	ID          string               `json:"id" bson:"_id"`
	Experts     []NominatedExpertRef `json:"experts" bson:"experts"`
	SubmittedBy string               `json:"submittedBy" bson:"submittedBy"`
	Notes       string               `json:"notes" bson:"notes"`
	SubmittedAt time.Time            `json:"submittedAt" bson:"submittedAt"`
	Status      string               `json:"status" bson:"status"`
}

// DefaultBio is used when an expert is listed without a bio.
func DefaultBio(name, title, department, affiliate string) string {
	return name + " is a " + title + " in " + department + " at " + affiliate + "."
}
