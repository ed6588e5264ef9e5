package optimizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"walk-schedule-service/internal/domain"

	"github.com/google/uuid"
)

type fakeCache struct {
	m map[string][]domain.Stop
}

func (c *fakeCache) Get(ctx context.Context, date domain.Date) ([]domain.Stop, bool, error) {
	stops, ok := c.m[date.String()]
	return stops, ok, nil
}

func (c *fakeCache) Put(ctx context.Context, date domain.Date, stops []domain.Stop) error {
	c.m[date.String()] = stops
	return nil
}

func TestGetStopSequenceDecodesResponse(t *testing.T) {
	appointmentID := uuid.New()
	window := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		if r.URL.Path != "/v1/sequences" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("missing api key header")
		}

		var req sequenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Date != "2024-03-13" || len(req.Occurrences) != 1 {
			t.Errorf("unexpected request payload: %+v", req)
		}

		json.NewEncoder(w).Encode(sequenceResponse{
			Stops: []sequenceStop{{
				ID:             "stop-1",
				AppointmentID:  appointmentID.String(),
				WalkGroupID:    "g1",
				StopType:       "pickup",
				Lat:            40.0,
				Lng:            -75.0,
				WindowStart:    &window,
				ServiceMinutes: 20,
				PetName:        "Apollo",
				Address:        "12 Elm St",
			}},
		})
	}))
	defer srv.Close()

	cache := &fakeCache{m: make(map[string][]domain.Stop)}
	provider, err := NewHTTPStopSequenceProvider(srv.URL, "test-key", cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date := domain.NewDate(2024, time.March, 13)
	occurrences := []domain.Occurrence{{
		AppointmentID: appointmentID,
		Date:          date,
		StartTime:     domain.NewTimeOfDay(9, 0),
		EndTime:       domain.NewTimeOfDay(10, 0),
		WalkType:      domain.WalkTypeGroup,
	}}

	stops, err := provider.GetStopSequence(context.Background(), date, occurrences)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(stops))
	}

	s := stops[0]
	if s.ID != "stop-1" || s.AppointmentID != appointmentID || s.StopType != domain.StopPickup {
		t.Errorf("stop mismatch: %+v", s)
	}
	if s.ServiceDuration != 20*time.Minute {
		t.Errorf("service duration = %v, want 20m", s.ServiceDuration)
	}
	if s.WindowStart == nil || !s.WindowStart.Equal(window) {
		t.Errorf("window start = %v", s.WindowStart)
	}

	// Second call for the same date is served from the cache.
	if _, err := provider.GetStopSequence(context.Background(), date, occurrences); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("optimizer called %d times, want 1", calls.Load())
	}
}

func TestGetStopSequenceRetriesTransientFailures(t *testing.T) {
	appointmentID := uuid.New()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(sequenceResponse{
			Stops: []sequenceStop{{
				ID:            "stop-1",
				AppointmentID: appointmentID.String(),
				StopType:      "solo",
				Lat:           40.0,
				Lng:           -75.0,
			}},
		})
	}))
	defer srv.Close()

	provider, err := NewHTTPStopSequenceProvider(srv.URL, "test-key", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	date := domain.NewDate(2024, time.March, 13)
	stops, err := provider.GetStopSequence(context.Background(), date, nil)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(stops))
	}
	if calls.Load() != 2 {
		t.Errorf("optimizer called %d times, want 2", calls.Load())
	}
}
