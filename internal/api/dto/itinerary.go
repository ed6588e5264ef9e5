package dto

import "time"

type ItineraryRequest struct {
	Date            string     `json:"date"`
	WalkingSpeedMph float64    `json:"walking_speed_mph"`
	Now             *time.Time `json:"now"`
}

type TimedStopResponse struct {
	StopNumber                int        `json:"stop_number"`
	ID                        string     `json:"id"`
	AppointmentID             string     `json:"appointment_id"`
	WalkGroupID               string     `json:"walk_group_id,omitempty"`
	StopType                  string     `json:"stop_type"`
	PetName                   string     `json:"pet_name"`
	Address                   string     `json:"address"`
	ArrivalTime               time.Time  `json:"arrival_time"`
	DistanceFromPreviousMiles float64    `json:"distance_from_previous_miles"`
	TravelMinutesFromPrevious int        `json:"travel_minutes_from_previous"`
	WindowStart               *time.Time `json:"window_start,omitempty"`
	WindowEnd                 *time.Time `json:"window_end,omitempty"`
	TimingUnreliable          bool       `json:"timing_unreliable,omitempty"`
}

type ItineraryResponse struct {
	Date        string               `json:"date"`
	Stops       []TimedStopResponse  `json:"stops"`
	Diagnostics []DiagnosticResponse `json:"diagnostics"`
}
