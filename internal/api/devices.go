package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/iot-inventory/internal/device"
)

// handleListDevices returns devices with owner, zone and sensors expanded.
// ?zoneId= and ?status= narrow the listing and may be combined.
//
// GET /devices
// GET /devices?status=maintenance
// GET /devices?zoneId={id}
// Response: {"devices": [...], "count": N}
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	devices, err := s.devices.Find(r.Context(), device.Filter{
		Status: device.Status(q.Get("status")),
		ZoneID: q.Get("zoneId"),
	})
	if err != nil {
		// The only id Find parses is the zone filter.
		s.writeServiceError(w, r, "zone", err)
		return
	}
	writeList(w, "devices", devices)
}

// handleCreateDevice creates a device. Owner, zone and every listed sensor
// must exist.
//
// POST /devices
// Response: 201 Created with the expanded device
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var in device.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	d, err := s.devices.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, "device", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// handleGetDevice returns one expanded device.
//
// GET /devices/{id}
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	d, err := s.devices.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "device", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleUpdateDevice applies a partial update. A "sensors" array replaces
// the attachment list.
//
// PATCH /devices/{id}
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	var p device.Patch
	if !decodeJSON(w, r, &p) {
		return
	}

	d, err := s.devices.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeServiceError(w, r, "device", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleDeleteDevice removes a device with no sensors attached.
//
// DELETE /devices/{id}
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	sum, err := s.devices.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "device", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "device deleted",
		"device":  sum,
	})
}
