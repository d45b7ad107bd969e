package models

import "encoding/json"

// SignupResult is the opaque success payload of the register endpoint.
type SignupResult struct {
	Message string
	Raw     json.RawMessage
}
