// Package provider implements the client handle for the hosted authentication
// service (a GoTrue-compatible REST API).
//
// A single long-lived [Client] is constructed at startup from configuration
// (endpoint URL, anon API key) and shared by everything that needs it. The
// client owns the current [Session]: it persists it through an injected
// [SessionStore], refreshes it when the access token expires, and notifies
// subscribers registered via [Client.OnAuthStateChange] whenever the session
// transitions (sign-in, sign-out, token refresh).
//
// Error responses from the service are decoded into [APIError] values carrying
// the provider's human-readable message.
package provider
