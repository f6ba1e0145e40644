// Package logging provides structured logging for the inventory service.
//
// It wraps log/slog so every record carries the service name and build
// version.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr, discard
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("listening", "port", cfg.API.Port)
//
// Never log passwords or password hashes.
package logging
