// Package dealer implements the client for the dealer listing platform's
// REST API.
//
// Authentication uses the OAuth2 client-credentials flow; the token is
// cached and refreshed transparently by the underlying oauth2 transport.
//
// # Error taxonomy
//
// Every failed call returns an *APIError tagged with an ErrorKind
// (not_found, rate_limited, invalid, unauthorized, transport). Callers
// dispatch on the kind, most importantly the synchronizer, which treats
// not_found on update as remote drift and recreates the vehicle.
package dealer
