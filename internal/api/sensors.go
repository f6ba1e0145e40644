package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/iot-inventory/internal/sensor"
)

// handleListSensors returns sensors. ?type= lists the active sensors of
// that type; ?active=true lists every active sensor.
//
// GET /sensors
// GET /sensors?type=co2
// GET /sensors?active=true
// Response: {"sensors": [...], "count": N}
func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		sensors []sensor.Sensor
		err     error
	)
	switch {
	case q.Get("type") != "":
		sensors, err = s.sensors.GetByType(ctx, sensor.Type(q.Get("type")))
	case q.Get("active") == "true":
		sensors, err = s.sensors.GetActiveSensors(ctx)
	default:
		sensors, err = s.sensors.List(ctx)
	}
	if err != nil {
		s.writeServiceError(w, r, "sensor", err)
		return
	}
	writeList(w, "sensors", sensors)
}

// handleCreateSensor creates a sensor.
//
// POST /sensors
// Response: 201 Created with the sensor
func (s *Server) handleCreateSensor(w http.ResponseWriter, r *http.Request) {
	var in sensor.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	sn, err := s.sensors.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, "sensor", err)
		return
	}
	writeJSON(w, http.StatusCreated, sn)
}

// handleGetSensor returns one sensor.
//
// GET /sensors/{id}
func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	sn, err := s.sensors.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "sensor", err)
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

// handleUpdateSensor applies a partial update. Setting isActive to false
// stops new readings from being recorded against the sensor.
//
// PATCH /sensors/{id}
func (s *Server) handleUpdateSensor(w http.ResponseWriter, r *http.Request) {
	var p sensor.Patch
	if !decodeJSON(w, r, &p) {
		return
	}

	sn, err := s.sensors.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeServiceError(w, r, "sensor", err)
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

// handleDeleteSensor removes a sensor with no readings.
//
// DELETE /sensors/{id}
func (s *Server) handleDeleteSensor(w http.ResponseWriter, r *http.Request) {
	sum, err := s.sensors.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "sensor", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "sensor deleted",
		"sensor":  sum,
	})
}
