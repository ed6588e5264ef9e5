package api

import (
	"net/http"
	"walk-schedule-service/internal/api/handlers"
	"walk-schedule-service/internal/ports"

	"go.uber.org/zap"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	logger *zap.Logger,
	repo ports.AppointmentRepository,
	provider ports.StopSequenceProvider,
	defaultSpeedMph float64,
) http.Handler {
	mux := http.NewServeMux()

	occurrenceHandler := &handlers.OccurrenceHandler{Repo: repo}
	itineraryHandler := &handlers.ItineraryHandler{
		Repo:            repo,
		Provider:        provider,
		DefaultSpeedMph: defaultSpeedMph,
	}
	appointmentHandler := &handlers.AppointmentHandler{Repo: repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/occurrences", occurrenceHandler.List)
	mux.HandleFunc("/itineraries", itineraryHandler.Build)
	mux.HandleFunc("/cancellations", appointmentHandler.Cancel)
	mux.HandleFunc("/delegations", appointmentHandler.Delegate)

	return loggingMiddleware(logger, mux)
}
