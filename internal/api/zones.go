package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/iot-inventory/internal/zone"
)

// handleListZones returns zones, optionally only the active ones.
//
// GET /zones
// GET /zones?active=true
// Response: {"zones": [...], "count": N}
func (s *Server) handleListZones(w http.ResponseWriter, r *http.Request) {
	var (
		zones []zone.Zone
		err   error
	)
	if r.URL.Query().Get("active") == "true" {
		zones, err = s.zones.GetActiveZones(r.Context())
	} else {
		zones, err = s.zones.List(r.Context())
	}
	if err != nil {
		s.writeServiceError(w, r, "zone", err)
		return
	}
	writeList(w, "zones", zones)
}

// handleCreateZone creates a zone.
//
// POST /zones
// Response: 201 Created with the zone
func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var in zone.CreateInput
	if !decodeJSON(w, r, &in) {
		return
	}

	z, err := s.zones.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, "zone", err)
		return
	}
	writeJSON(w, http.StatusCreated, z)
}

// handleGetZone returns one zone.
//
// GET /zones/{id}
func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	z, err := s.zones.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "zone", err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

// handleUpdateZone applies a partial update.
//
// PATCH /zones/{id}
func (s *Server) handleUpdateZone(w http.ResponseWriter, r *http.Request) {
	var p zone.Patch
	if !decodeJSON(w, r, &p) {
		return
	}

	z, err := s.zones.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeServiceError(w, r, "zone", err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

// handleDeleteZone removes a zone that holds no devices.
//
// DELETE /zones/{id}
func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	sum, err := s.zones.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, "zone", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "zone deleted",
		"zone":    sum,
	})
}
