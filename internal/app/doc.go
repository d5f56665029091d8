// Package app is the composition root of stayer.
//
// Run loads the configuration (an optional .env file, the TOML file and
// STAYER_* overrides), opens the log file, restores the saved session and
// preferences, then wires the API client, the state store and the action
// dispatcher into the terminal UI.
//
//	Run()
//	  ├─> config.Load()          file, environment, validation
//	  ├─> logging.New()          tint or JSON handler on the log file
//	  ├─> prefs.OpenTokenStore() saved session token
//	  ├─> api.NewClient()        HTTP client with circuit breaker
//	  ├─> actions.New()          dispatcher over state.Store
//	  ├─> StartPoller()          background offer refresh
//	  └─> ui.Run()               blocks until quit
//
// The poller only refreshes the offer list. It keeps going through API
// outages, backing off up to 30 seconds between attempts, and never touches
// the error message shown to the user.
package app
