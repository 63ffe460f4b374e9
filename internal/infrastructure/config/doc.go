// Package config provides 12-factor configuration for the termfolio backend.
//
// Configuration is loaded from environment variables with defaults. CLI flags
// override individual values (see cmd/server).
//
// Sections:
//   - Server: HTTP listen address
//   - Logging: level and output format
//   - RateLimit: per-IP HTTP limits, also applied to websocket keystrokes
//   - Storage: durable store driver (file, sqlite, memory) and location
//   - Content: catalog path and hot reload
//   - Terminal: grid size, session cap, intro and game timings
//   - Monitoring: prometheus endpoint
package config
