// Package api provides HTTP handlers for the API.
//
// Handlers decode and validate request payloads, resolve the acting user
// from the request context, delegate to the service layer, and translate
// service errors into sanitized HTTP responses. Authorization decisions
// live in the services; handlers never inspect ownership themselves.
package api
