package dto

type SubmitNominationResponse struct {
	Success      bool   `json:"success"`
	NominationID string `json:"nominationId"`
	Message      string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache,omitempty"`
}
