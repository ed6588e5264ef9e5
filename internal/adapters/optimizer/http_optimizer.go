package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
	"walk-schedule-service/internal/domain"
	"walk-schedule-service/internal/platform/obs"
	"walk-schedule-service/internal/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HTTPStopSequenceProvider implements StopSequenceProvider against the
// external route optimizer service.
//
// It coordinates:
//   - Sequence caching per walk date
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use. It never reorders or filters the
// sequence the optimizer returns; simulation happens downstream.
type HTTPStopSequenceProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	cache   ports.StopSequenceCache
}

func NewHTTPStopSequenceProvider(baseURL, apiKey string, cache ports.StopSequenceCache) (*HTTPStopSequenceProvider, error) {
	if baseURL == "" {
		return nil, errors.New("optimizer base URL is empty")
	}
	if apiKey == "" {
		return nil, errors.New("optimizer api key is empty")
	}

	return &HTTPStopSequenceProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
		cache:   cache,
	}, nil
}

type sequenceRequest struct {
	Date        string               `json:"date"`
	Occurrences []sequenceOccurrence `json:"occurrences"`
}

type sequenceOccurrence struct {
	AppointmentID string `json:"appointment_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	WalkType      string `json:"walk_type"`
}

type sequenceResponse struct {
	Stops []sequenceStop `json:"stops"`
}

type sequenceStop struct {
	ID             string     `json:"id"`
	AppointmentID  string     `json:"appointment_id"`
	WalkGroupID    string     `json:"walk_group_id"`
	StopType       string     `json:"stop_type"`
	Lat            float64    `json:"lat"`
	Lng            float64    `json:"lng"`
	WindowStart    *time.Time `json:"window_start"`
	WindowEnd      *time.Time `json:"window_end"`
	ServiceMinutes float64    `json:"service_minutes"`
	PetName        string     `json:"pet_name"`
	Address        string     `json:"address"`
}

// GetStopSequence returns the optimizer's ordered stop sequence for the date,
// consulting the cache before issuing the external call.
func (o *HTTPStopSequenceProvider) GetStopSequence(
	ctx context.Context,
	date domain.Date,
	occurrences []domain.Occurrence,
) (_ []domain.Stop, err error) {
	defer obs.Time(ctx, "optimizer.GetStopSequence")(&err)

	if o.cache != nil {
		cached, ok, err := o.cache.Get(ctx, date)
		if err != nil {
			zap.L().Warn("sequence cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	stops, err := o.fetchSequence(ctx, date, occurrences)
	if err != nil {
		return nil, err
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, date, stops); err != nil {
			zap.L().Warn("sequence cache write failed", zap.Error(err))
		}
	}

	return stops, nil
}

func (o *HTTPStopSequenceProvider) fetchSequence(
	ctx context.Context,
	date domain.Date,
	occurrences []domain.Occurrence,
) ([]domain.Stop, error) {
	endpoint := o.baseURL + "/v1/sequences"

	reqBody := sequenceRequest{
		Date:        date.String(),
		Occurrences: make([]sequenceOccurrence, 0, len(occurrences)),
	}
	for _, occ := range occurrences {
		reqBody.Occurrences = append(reqBody.Occurrences, sequenceOccurrence{
			AppointmentID: occ.AppointmentID.String(),
			StartTime:     occ.StartTime.String(),
			EndTime:       occ.EndTime.String(),
			WalkType:      string(occ.WalkType),
		})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal sequence request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("execute sequence request: %w", err)
	}
	defer resp.Body.Close()

	var decoded sequenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode sequence response: %w", err)
	}

	stops := make([]domain.Stop, 0, len(decoded.Stops))
	for i, s := range decoded.Stops {
		appointmentID, err := uuid.Parse(s.AppointmentID)
		if err != nil {
			return nil, fmt.Errorf("sequence stop %d: appointment id %q: %w", i+1, s.AppointmentID, err)
		}

		stops = append(stops, domain.Stop{
			ID:              s.ID,
			AppointmentID:   appointmentID,
			WalkGroupID:     s.WalkGroupID,
			StopType:        domain.StopType(s.StopType),
			Coordinates:     domain.Coordinates{Lat: s.Lat, Lng: s.Lng},
			WindowStart:     s.WindowStart,
			WindowEnd:       s.WindowEnd,
			ServiceDuration: time.Duration(s.ServiceMinutes * float64(time.Minute)),
			PetName:         s.PetName,
			Address:         s.Address,
		})
	}

	return stops, nil
}
