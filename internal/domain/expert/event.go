package expert

import "time"

const (
	EventExpertCreated       = "expert.created"
	EventNominationSubmitted = "nomination.submitted"
)

// Event announces a change to the directory. Exactly one of Expert and
// Nomination is set, matching Type.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Expert     *Expert     `json:"expert,omitempty"`
	Nomination *Nomination `json:"nomination,omitempty"`
}

func ExpertCreated(e Expert, at time.Time) Event {
	return Event{Type: EventExpertCreated, OccurredAt: at, Expert: &e}
}

func NominationSubmitted(n Nomination, at time.Time) Event {
	return Event{Type: EventNominationSubmitted, OccurredAt: at, Nomination: &n}
}
