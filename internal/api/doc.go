// Package api implements the HTTP REST API and WebSocket server for the
// IoT inventory.
//
// This package provides:
//   - CRUD endpoints for users, zones, devices, sensors and readings
//   - Reading listings by sensor and date range, plus per-sensor statistics
//   - The audit trail listing
//   - A WebSocket hub that streams inventory events to subscribed clients
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// Every route is served both unprefixed and under /api/v1.
//
// # Errors
//
// Handlers never inspect the store. They call the entity services and pass
// any error to writeServiceError, which maps the integrity error taxonomy to
// a status and code:
//
//	validation_error     400   reference_not_found  400
//	duplicate_key        409   sensor_inactive      409
//	dependents_exist     409   immutable_field      422
//	not_found            404   bad_request          400
//
// # Lifecycle
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
