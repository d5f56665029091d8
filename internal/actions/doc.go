// Package actions implements the asynchronous synchronization layer between
// the six cities API and the client store.
//
// # Action Shape
//
// Every action follows the same steps:
//
//  1. Optionally set a loading flag (offers list, or the generic flag for
//     detail fetches and comment posting).
//  2. Call the remote API once. There are no retries.
//  3. On success apply one or more store transitions. PostComment and
//     FetchFavorites also hand the payload back to the caller.
//  4. On failure set a fixed human-readable message and schedule its removal
//     after the error timeout.
//  5. Clear the loading flag set in step 1, whatever the outcome.
//
// # Failure Propagation
//
//   - FetchOffers, FetchOfferDetail, FetchOfferComments, FetchNearbyOffers and
//     ToggleFavorite only report through the store.
//   - CheckAuth treats any failure as NoAuth and never shows a message.
//   - Login and Logout return their errors; the caller decides what to show.
//   - PostComment shows the message and also returns the error so a form can
//     keep its draft.
//   - FetchFavorites shows the message and degrades to an empty list.
//
// # Error Clearing
//
// Each reported error gets a uuid occurrence id and a one-shot timer. With
// ClearIndependent (the default) overlapping failures keep overlapping
// timers and each clears whatever message is current when it fires, so an
// early timer can remove a later message before its own delay is up. A later
// success does not cancel a pending clear. ClearSupersede cancels the older
// timers when a new error arrives. Close cancels everything.
//
// # Dispatch
//
// Dispatch runs any Operation value through one typed entry point:
//
//	res, err := d.Dispatch(ctx, actions.PostComment{OfferID: id, Text: text, Rating: 4})
//
// The typed methods (d.PostComment, d.FetchOffers, ...) are equivalent.
package actions
