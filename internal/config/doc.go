// Package config handles configuration loading for habitd.
//
// # Overview
//
// Configuration is loaded from YAML files, or TOML files when the path ends
// in .toml, with environment variable expansion. Load applies defaults and
// validates the result.
//
// # Configuration File
//
// Default locations (in order), resolved by cmd/habitd:
//
//  1. Path from HABITD_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/habitd/config.yaml
//  3. ~/.config/habitd/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	database:
//	  dsn: "${HABITD_DATABASE_DSN}"
//
// Syntax: ${VAR_NAME}. Unset variables expand to the empty string.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "localhost:8080"
//	  read_header_timeout: "10s"
//	  shutdown_timeout: "10s"
//
//	tailscale:
//	  enabled: false
//	  hostname: "habitd"
//	  auth_key: "${TS_AUTHKEY}"
//	  https: true
//	  funnel: false
//
//	database:
//	  driver: "sqlite"            # sqlite, postgres
//	  path: "~/.local/share/habitd/habitd.db"  # default; HABITD_DB_PATH overrides
//	  dsn: ""                     # postgres only
//	  max_conns: 10               # postgres only
//
//	calendar:
//	  timezone: "Europe/Berlin"   # IANA name, default UTC
//
//	toggle:
//	  max_attempts: 3
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
// The calendar timezone decides which date "today" is when a habit is created
// or toggled. It does not affect weekday computation for explicit dates.
//
// metrics.path shares the HTTP mux with the API, so it must be a literal path
// outside ReservedPaths and /habits/.
package config
