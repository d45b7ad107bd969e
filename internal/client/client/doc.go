// Package client contains the client-side building blocks that talk to the
// shop backend and bootstrap local storage.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (AuthAPI, CartAPI, Client) for login,
//     registration and the cart endpoints.
//  2. A concrete JSON-over-HTTP implementation (HTTPClient) that tags every
//     request with an X-Request-ID and maps transport failures to sentinel
//     errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Match with errors.Is: ErrUnavailable, ErrUnauthorized, ErrMalformedResponse.
// Non-2xx answers are *StatusError values carrying the payload verbatim;
// they also match ErrUnauthorized (401/403) and ErrUnavailable (502/503/504).
//
// All operations accept context.Context and honor cancellation.
package client
