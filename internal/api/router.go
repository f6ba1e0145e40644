package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// apiPrefix is the versioned mount point. Every route is also served
// unprefixed.
const apiPrefix = "/api/v1"

// healthTimeout bounds the database ping behind GET /health.
const healthTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Set before mounting so the versioned sub-router inherits them.
	r.NotFound(s.handleNoRoute)
	r.MethodNotAllowed(s.handleNoRoute)

	s.routes(r)
	r.Route(apiPrefix, s.routes)

	return r
}

// routes registers every endpoint on r.
func (s *Server) routes(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/audit", s.handleListAuditLogs)
	r.Get(s.wsPath(), s.handleWebSocket)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Patch("/", s.handleUpdateUser)
			r.Delete("/", s.handleDeleteUser)
		})
	})

	r.Route("/zones", func(r chi.Router) {
		r.Get("/", s.handleListZones)
		r.Post("/", s.handleCreateZone)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetZone)
			r.Patch("/", s.handleUpdateZone)
			r.Delete("/", s.handleDeleteZone)
		})
	})

	r.Route("/devices", func(r chi.Router) {
		r.Get("/", s.handleListDevices)
		r.Post("/", s.handleCreateDevice)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDevice)
			r.Patch("/", s.handleUpdateDevice)
			r.Delete("/", s.handleDeleteDevice)
		})
	})

	r.Route("/sensors", func(r chi.Router) {
		r.Get("/", s.handleListSensors)
		r.Post("/", s.handleCreateSensor)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSensor)
			r.Patch("/", s.handleUpdateSensor)
			r.Delete("/", s.handleDeleteSensor)
		})
	})

	r.Route("/readings", func(r chi.Router) {
		r.Get("/", s.handleListReadings)
		r.Post("/", s.handleCreateReading)
		r.Get("/sensor/{sensorId}", s.handleListSensorReadings)
		r.Get("/sensor/{sensorId}/stats", s.handleSensorReadingStats)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetReading)
			r.Patch("/", s.handleUpdateReading)
			r.Delete("/", s.handleDeleteReading)
		})
	})
}

func (s *Server) wsPath() string {
	if s.wsCfg.Path == "" {
		return "/ws"
	}
	return s.wsCfg.Path
}

// handleRoot describes the API.
//
// GET /
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	endpoints := map[string]string{
		"health":   "/health",
		"users":    apiPrefix + "/users",
		"zones":    apiPrefix + "/zones",
		"devices":  apiPrefix + "/devices",
		"sensors":  apiPrefix + "/sensors",
		"readings": apiPrefix + "/readings",
		"audit":    apiPrefix + "/audit",
		"events":   s.wsPath(),
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":      s.siteName,
		"version":   s.version,
		"endpoints": endpoints,
	})
}

// handleHealth reports service and database health. A failed database ping
// answers 503.
//
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status, dbState, code := "ok", "connected", http.StatusOK
	if s.db == nil {
		status, dbState, code = "unavailable", "disconnected", http.StatusServiceUnavailable
	} else if err := s.db.HealthCheck(ctx); err != nil {
		s.logger.Warn("health check: database unreachable", "error", err)
		status, dbState, code = "unavailable", "disconnected", http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbState,
		"version":   s.version,
	})
}

// handleNoRoute answers any path or method with no handler.
func (s *Server) handleNoRoute(w http.ResponseWriter, r *http.Request) {
	writeNotFound(w, "cannot "+r.Method+" "+r.URL.Path)
}
