package dto

type OccurrenceResponse struct {
	AppointmentID      string  `json:"appointment_id"`
	Date               string  `json:"date"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
	WalkType           string  `json:"walk_type"`
	IsDelegated        bool    `json:"is_delegated"`
	CoveringUserID     *string `json:"covering_user_id,omitempty"`
	CoveringPercentage int     `json:"covering_percentage,omitempty"`
}

type DiagnosticResponse struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Detail  string `json:"detail"`
}

type ListOccurrencesResponse struct {
	Occurrences []OccurrenceResponse `json:"occurrences"`
	Diagnostics []DiagnosticResponse `json:"diagnostics"`
}
