package handlers

import (
	"net/http"
	"walk-schedule-service/internal/api/dto"
	"walk-schedule-service/internal/domain"
	"walk-schedule-service/internal/ports"
	"walk-schedule-service/internal/services"

	"go.uber.org/zap"
)

// OccurrenceHandler serves the day/week/month views: every concrete
// occurrence in a date range, in the (date, startTime, endTime) order the
// views render in.
type OccurrenceHandler struct {
	Repo ports.AppointmentRepository
}

func (h *OccurrenceHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, err := domain.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "from must be a YYYY-MM-DD date")
		return
	}
	to, err := domain.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "to must be a YYYY-MM-DD date")
		return
	}
	if to.Before(from) {
		writeError(w, r, http.StatusBadRequest, "to must not precede from")
		return
	}

	defs, err := h.Repo.ListDefinitions(r.Context())
	if err != nil {
		zap.L().Error("list definitions failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	occurrences, diags := services.ListOccurrences(defs, domain.DateRange{Start: from, End: to})

	res := dto.ListOccurrencesResponse{
		Occurrences: make([]dto.OccurrenceResponse, 0, len(occurrences)),
		Diagnostics: diagnosticsToDTO(diags),
	}
	for _, occ := range occurrences {
		item := dto.OccurrenceResponse{
			AppointmentID:      occ.AppointmentID.String(),
			Date:               occ.Date.String(),
			StartTime:          occ.StartTime.String(),
			EndTime:            occ.EndTime.String(),
			WalkType:           string(occ.WalkType),
			IsDelegated:        occ.IsDelegated,
			CoveringPercentage: occ.CoveringPercentage,
		}
		if occ.CoveringUserID != nil {
			id := occ.CoveringUserID.String()
			item.CoveringUserID = &id
		}
		res.Occurrences = append(res.Occurrences, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func diagnosticsToDTO(diags []services.Diagnostic) []dto.DiagnosticResponse {
	out := make([]dto.DiagnosticResponse, 0, len(diags))
	for _, d := range diags {
		out = append(out, dto.DiagnosticResponse{
			Kind:    string(d.Kind),
			Subject: d.Subject,
			Detail:  d.Detail,
		})
	}
	return out
}
