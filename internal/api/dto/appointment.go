package dto

type CancelOccurrenceRequest struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
}

type DelegationRequest struct {
	AppointmentID      string   `json:"appointment_id"`
	CoveringUserID     string   `json:"covering_user_id"`
	Status             string   `json:"status"`
	AllDates           bool     `json:"all_dates"`
	ShareDates         []string `json:"share_dates"`
	CoveringPercentage int      `json:"covering_percentage"`
}
