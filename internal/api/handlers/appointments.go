package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"walk-schedule-service/internal/api/dto"
	"walk-schedule-service/internal/domain"
	"walk-schedule-service/internal/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppointmentHandler accepts the two per-occurrence mutations users make:
// point cancellation and delegation to another walker. Occurrences stay
// derived; both mutations write to the definition's records and the views
// simply re-query.
type AppointmentHandler struct {
	Repo ports.AppointmentRepository
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.CancelOccurrenceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "appointment_id must be a uuid")
		return
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be a YYYY-MM-DD date")
		return
	}

	if err := h.Repo.CancelDate(r.Context(), appointmentID, date); err != nil {
		zap.L().Error("cancel occurrence failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "canceled"})
}

func (h *AppointmentHandler) Delegate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.DelegationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "appointment_id must be a uuid")
		return
	}

	coveringUserID, err := uuid.Parse(req.CoveringUserID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "covering_user_id must be a uuid")
		return
	}

	status := domain.DelegationStatus(req.Status)
	switch status {
	case "":
		status = domain.DelegationPending
	case domain.DelegationPending, domain.DelegationAccepted, domain.DelegationDeclined:
	default:
		writeError(w, r, http.StatusBadRequest, "status must be pending, accepted or declined")
		return
	}

	if req.CoveringPercentage < 0 || req.CoveringPercentage > 100 {
		writeError(w, r, http.StatusBadRequest, "covering_percentage must be between 0 and 100")
		return
	}

	shareDates := make([]domain.Date, 0, len(req.ShareDates))
	for _, s := range req.ShareDates {
		d, err := domain.ParseDate(s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "share_dates must be YYYY-MM-DD dates")
			return
		}
		shareDates = append(shareDates, d)
	}

	delegation := domain.Delegation{
		CoveringUserID:     coveringUserID,
		Status:             status,
		AllDates:           req.AllDates,
		ShareDates:         shareDates,
		CoveringPercentage: req.CoveringPercentage,
	}

	if err := h.Repo.AddDelegation(r.Context(), appointmentID, delegation); err != nil {
		zap.L().Error("add delegation failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]string{"status": "delegated"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}
