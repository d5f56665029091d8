// Package config loads stayer's configuration.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. The TOML file, ~/.config/stayer/config.toml unless a path is given
//  3. STAYER_* environment variables, optionally seeded from a .env file
//     with LoadEnvFile
//
// A missing config file is not an error. Empty values fall through to the
// previous layer. The merged result is checked with go-playground/validator.
//
// # TOML Format
//
//	api_url = "https://14.design.htmlacademy.pro/six-cities"
//	request_timeout = "10s"
//	error_timeout = "2s"
//	refresh_interval = "1m"     # "0s" disables background refresh
//	log_file = "~/.local/share/stayer/stayer.log"
//	log_level = "info"          # debug, info, warn, error
//	log_json = false
//	error_policy = "independent" # or "supersede"
//	default_city = "Paris"
//	session_file = "~/.config/stayer/session.toml"
//	prefs_file = "~/.config/stayer/prefs.toml"
//
// # Environment
//
// STAYER_API_URL, STAYER_REQUEST_TIMEOUT, STAYER_ERROR_TIMEOUT,
// STAYER_REFRESH_INTERVAL, STAYER_LOG_FILE, STAYER_LOG_LEVEL, STAYER_LOG_JSON,
// STAYER_ERROR_POLICY, STAYER_CITY, STAYER_SESSION_FILE, STAYER_PREFS_FILE.
//
// Paths accept a leading tilde and are made absolute.
package config
