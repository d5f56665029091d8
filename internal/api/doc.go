// Package api provides an HTTP client for the six cities rental API.
//
// # Overview
//
// This package defines the client used to talk to the six cities backend. It
// handles HTTP communication, JSON serialization and the transport types for
// offers, reviews and users.
//
// # Architecture
//
//   - client.go: Client, the Remote interface and request plumbing
//   - errors.go: StatusError, ErrUnavailable and the circuit breaker
//   - types.go: data structures mirroring the API schema
//
// # Routes
//
//	GET    /offers                 -> []Offer
//	GET    /offers/{id}            -> Offer
//	GET    /offers/{id}/nearby     -> []Offer
//	GET    /comments/{id}          -> []Review
//	POST   /comments/{id}          -> []Review
//	GET    /login                  -> UserData, or 401
//	POST   /login                  -> UserData
//	DELETE /login                  -> 204
//	GET    /favorite               -> []Offer
//	POST   /favorite/{id}/{0|1}    -> Offer
//
// # Client Usage
//
//	client, err := api.NewClient(cfg.APIURL, tokens, cfg.RequestTimeout)
//	if err != nil {
//		return fmt.Errorf("init api client: %w", err)
//	}
//	offers, err := client.FetchOffers(ctx)
//
// The session token is read from the TokenSource on every request and sent in
// the X-Token header.
//
// # Error Handling
//
// Every call is a single attempt. Transport failures are wrapped with
// "execute request", undecodable bodies with "decode response", and non-2xx
// responses are returned as *StatusError. Use IsUnauthorized to recognise the
// 401 of an anonymous session.
//
// A circuit breaker guards the API. After five consecutive transport or 5xx
// failures calls fail fast with ErrUnavailable for ten seconds, then a single
// probe request decides whether to close it again.
package api
