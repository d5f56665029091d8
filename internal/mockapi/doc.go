// Package mockapi serves an in-memory six cities API for local development
// and tests.
//
// The router (go-chi) implements every route the client uses. Sessions are
// uuid tokens sent back in the X-Token header; favorites are kept per user
// email. Server-side validation follows the real API: comments need 50 to 300
// characters and a rating of 1 to 5, passwords need a letter and a digit.
//
// SetDown(true) answers every request with 503, which is how tests exercise
// the client's failure paths.
package mockapi
