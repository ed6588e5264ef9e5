package handlers

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"
	"walk-schedule-service/internal/api/dto"
	"walk-schedule-service/internal/domain"
	"walk-schedule-service/internal/ports"
	"walk-schedule-service/internal/services"

	"go.uber.org/zap"
)

// ItineraryHandler produces the live-walk view: the optimizer's stop order
// for a date, simulated into a time-annotated walkthrough.
type ItineraryHandler struct {
	Repo            ports.AppointmentRepository
	Provider        ports.StopSequenceProvider
	DefaultSpeedMph float64
}

func (h *ItineraryHandler) Build(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ItineraryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be a YYYY-MM-DD date")
		return
	}

	speed := req.WalkingSpeedMph
	if speed == 0 {
		speed = h.DefaultSpeedMph
	}
	if speed <= 0 || speed > 30 {
		writeError(w, r, http.StatusBadRequest, "walking_speed_mph must be between 0 and 30")
		return
	}

	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}

	itinerary, err := services.BuildItinerary(r.Context(), services.BuildItineraryRequest{
		Date:            date,
		WalkingSpeedMph: speed,
		Now:             now,
	}, h.Repo, h.Provider)
	if err != nil {
		zap.L().Error("build itinerary failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ItineraryResponse{
		Date:        itinerary.Date.String(),
		Stops:       make([]dto.TimedStopResponse, 0, len(itinerary.Stops)),
		Diagnostics: diagnosticsToDTO(itinerary.Diagnostics),
	}
	for _, s := range itinerary.Stops {
		res.Stops = append(res.Stops, dto.TimedStopResponse{
			StopNumber:                s.StopNumber,
			ID:                        s.ID,
			AppointmentID:             s.AppointmentID.String(),
			WalkGroupID:               s.WalkGroupID,
			StopType:                  string(s.StopType),
			PetName:                   s.PetName,
			Address:                   s.Address,
			ArrivalTime:               s.ArrivalTime,
			DistanceFromPreviousMiles: s.DistanceFromPreviousMiles,
			// Travel time is rounded for display only; the simulation keeps
			// fractional minutes internally.
			TravelMinutesFromPrevious: int(math.Round(s.TravelTimeFromPrevious.Minutes())),
			WindowStart:               s.WindowStart,
			WindowEnd:                 s.WindowEnd,
			TimingUnreliable:          s.TimingUnreliable,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
