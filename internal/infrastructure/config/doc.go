// Package config handles loading and validating the inventory service configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Loading a .env file into the process environment
//   - Overriding with INVENTORY_* environment variables
//   - Validation of required fields
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	if err := config.LoadDotEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	cfg, err := config.LoadOrDefault("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
