// Package common contains shared constants and sentinel errors used across
// CartSync components.
package common

// SessionUserKey is the metadata key under which the authenticated user
// record is persisted.
const SessionUserKey = "user"

// RequestIDHeaderName is the HTTP header used to tag outbound requests.
const RequestIDHeaderName = "X-Request-ID"
