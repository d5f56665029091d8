// Package ui provides the terminal client for the rental marketplace.
//
// The UI is a Bubble Tea program. Model never talks to the API directly: it
// runs synchronization operations through a Dispatcher off the UI goroutine
// and re-reads state.Store snapshots on a short tick. Every view renders from
// the latest snapshot, so results of background syncs (poller, retries) show
// up without extra wiring.
//
// # Views
//
//   - Offers: offers of the selected city, sortable, with bookmarks
//   - Detail: one offer with reviews and nearby offers
//   - Favorites: saved offers grouped by city
//   - Login and Comment: forms that own the keyboard until closed
//   - Activity: tail of the client's own log file
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:    ctx,
//		Dispatcher: dispatcher,
//		Store:      store,
//		PrefsPath:  cfg.PrefsFile,
//		LogPath:    cfg.LogFile,
//	})
package ui
