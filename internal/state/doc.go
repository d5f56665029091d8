// Package state provides the client-side store for the Stayer application.
//
// # Overview
//
// The Store holds one authoritative Snapshot of everything the client knows:
// offers, the selected city and sort option, the highlighted offer, the
// authorization status and user, favorites, the open offer with its comments
// and nearby offers, the error message and loading flags.
//
// The store is an ordinary value owned by the application and passed to every
// consumer. There is no package-level instance, so tests build their own.
//
// # Transitions
//
// The snapshot changes only through named transitions (SetCity, SetOffers,
// RequireAuthorization, UpdateOffer, ...). Each one takes the write lock,
// mutates the snapshot and stamps LastUpdated, so readers never see a partial
// update. Effects of two concurrent actions interleave only between
// transitions.
//
// # Selectors
//
// Selectors are read-only methods on Snapshot. CityOffers filters by the
// selected city and sorts a copy:
//
//	SortPopular         fetch order
//	SortPriceLowToHigh  price ascending
//	SortPriceHighToLow  price descending
//	SortTopRated        rating descending
//
// Sorting is stable, so equal keys keep their fetch order and sorting twice
// gives the same result as sorting once.
//
// # Invariants
//
//   - AuthorizationStatus starts AuthUnknown; the UI shows a loading screen
//     until it becomes Auth or NoAuth.
//   - ErrorMessage is empty or a short human sentence set by an action, which
//     also schedules its removal.
//   - ClearAuthorization drops favorites and resets every favorite flag, so
//     Favorites stays consistent with the offers' flags.
package state
