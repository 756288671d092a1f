// Package config provides configuration management for the thalamus
// routing engine.
//
// # Overview
//
// The config package uses Viper to load configuration from YAML files and
// environment variables. It provides a type-safe configuration structure
// with validation, default values, and automatic file creation.
//
// # Configuration File
//
// The configuration is stored at ~/.thalamus/config.yaml and is
// automatically created with sensible defaults on first use. The file
// structure mirrors the Go structs defined in this package.
//
// # Environment Variables
//
// All configuration values can be overridden using environment variables
// with the THALAMUS_ prefix. Nested fields are separated by underscores.
//
// Examples:
//   - THALAMUS_LOGGING_LEVEL=debug
//   - THALAMUS_USAGE_DB_PATH=/tmp/usage.db
//   - THALAMUS_SERVER_ADDR=0.0.0.0:8781
//   - THALAMUS_CONSOLE_VIM_MODE=true
//
// # Usage Example
//
//	package main
//
//	import (
//	    "log"
//	    "github.com/normanking/thalamus/internal/config"
//	)
//
//	func main() {
//	    // Load configuration
//	    cfg, err := config.Load()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Ensure all directories exist
//	    if err := cfg.EnsureDirectories(); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Validate configuration
//	    if err := cfg.Validate(); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Build the detector registry the config describes
//	    registry, err := cfg.ToRegistry()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    log.Printf("%d detectors registered", len(registry.Names()))
//	}
//
// # Configuration Sections
//
//   - Engine: decision thresholds, surfaced read-only
//   - Detectors: per-detector enabled switches
//   - Lexicon: extra artists/genres for the music detector
//   - Usage: persistent tool-usage counter database
//   - Server: WebSocket observer server (address, token hash, replay depth)
//   - Console: interactive console preferences (theme, vim mode)
//   - Logging: log level and output file configuration
//
// # Path Expansion
//
// The package automatically expands ~ to the user's home directory in
// all path configurations, making config files portable across systems.
//
// # Validation
//
// The Validate() method checks configuration for common errors:
//   - Engine thresholds matching the selection contract
//   - Detector names existing in the registry
//   - Valid enum values (theme, log level)
//   - Required field presence
//
// # Thread Safety
//
// Config instances are not thread-safe. If you need concurrent access,
// wrap the config in a sync.RWMutex or create separate instances.
package config
