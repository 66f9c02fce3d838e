package models

// CreateCareerRequest is the body of POST /careers.
type CreateCareerRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

type ApplyResponse struct {
	InterviewID string `json:"interviewId"`
	ScreeningID string `json:"screeningId"`
	DocumentID  string `json:"documentId"`
	Status      string `json:"status"`
}

type ScreeningResponse struct {
	ID           string         `json:"id"`
	InterviewID  string         `json:"interviewId"`
	Status       string         `json:"status"`
	Result       *ScreeningData `json:"result,omitempty"`
	ErrorMessage *string        `json:"errorMessage,omitempty"`
}

type ScreeningData struct {
	MatchRate float64  `json:"matchRate"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Feedback  string   `json:"feedback"`
}

// ActionRequest is the body of POST /interviews/:id/actions.
type ActionRequest struct {
	Action      string `json:"action"`
	Destination string `json:"destination,omitempty"`
	UpdatedBy   Actor  `json:"updatedBy"`
}
