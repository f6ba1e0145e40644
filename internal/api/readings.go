package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/iot-inventory/internal/reading"
)

// handleListReadings returns a page of readings with their sensor embedded.
//
// Query parameters:
//   - sensorId: only this sensor
//   - startDate, endDate: inclusive bounds, RFC 3339 or YYYY-MM-DD
//   - limit: default 100, max 1000
//   - offset: pagination offset
//   - order: asc or desc on time (default desc)
//
// GET /readings
// Response: {"readings": [...], "count": N}
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	q, err := reading.ParseQuery(r.URL.Query(), reading.DefaultLimit)
	if err != nil {
		s.writeServiceError(w, r, "reading", err)
		return
	}

	readings, err := s.readings.List(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, "reading", err)
		return
	}
	writeList(w, "readings", readings)
}

// handleListSensorReadings returns the readings of one sensor, newest first
// unless order=asc. The limit defaults to 50.
//
// GET /readings/sensor/{sensorId}
func (s *Server) handleListSensorReadings(w http.ResponseWriter, r *http.Request) {
	q, err := reading.ParseQuery(r.URL.Query(), reading.SensorDefaultLimit)
	if err != nil {
		s.writeServiceError(w, r, "reading", err)
		return
	}

	readings, err := s.readings.GetBySensorID(r.Context(), chi.URLParam(r, "sensorId"), q)
	if err != nil {
		s.writeServiceError(w, r, "sensor", err)
		return
	}
	writeList(w, "readings", readings)
}

// handleSensorReadingStats aggregates one sensor's readings within the
// optional startDate/endDate window.
//
// GET /readings/sensor/{sensorId}/stats
// Response: {"sensorId", "count", "min", "max", "avg", "first", "last"}
func (s *Server) handleSensorReadingStats(w http.ResponseWriter, r *http.Request) {
	q, err := reading.ParseQuery(r.URL.Query(), reading.SensorDefaultLimit)
	if err != nil {
		s.writeServiceError(w, r, "reading", err)
		return
	}

	stats, err := s.readings.StatsBySensor(r.Context(), chi.URLParam(r, "sensorId"), q)
	if err != nil {
		s.writeServiceError(w, r, "sensor", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleCreateReading records a reading against an active sensor.
//
// POST /readings
// Response: 201 Created with the reading and its sensor
func (s *Server) handleCreateReading(w http.ResponseWriter, r *http.Request) {
	var in reading.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	rd, err := s.readings.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, "reading", err)
		return
	}
	writeJSON(w, http.StatusCreated, rd)
}

// handleGetReading returns one reading.
//
// GET /readings/{id}
func (s *Server) handleGetReading(w http.ResponseWriter, r *http.Request) {
	rd, err := s.readings.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "reading", err)
		return
	}
	writeJSON(w, http.StatusOK, rd)
}

// handleUpdateReading changes a reading's value or time. Naming sensorId
// in the body answers 422.
//
// PATCH /readings/{id}
func (s *Server) handleUpdateReading(w http.ResponseWriter, r *http.Request) {
	var p reading.Patch
	if !decodeJSON(w, r, &p) {
		return
	}

	rd, err := s.readings.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeServiceError(w, r, "reading", err)
		return
	}
	writeJSON(w, http.StatusOK, rd)
}

// handleDeleteReading removes a reading.
//
// DELETE /readings/{id}
func (s *Server) handleDeleteReading(w http.ResponseWriter, r *http.Request) {
	sum, err := s.readings.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "reading", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "reading deleted",
		"reading": sum,
	})
}
