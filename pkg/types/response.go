package types

// SuccessEnvelope wraps every standard storefront and admin response body.
// The one exception is the admin dashboard endpoint, whose legacy console
// expects the snapshot at the top level and bypasses the envelope.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public half of a typed error: the stable code clients
// branch on, the vetted message, and field-level details when the code's
// metadata allows exposing them (validation, dependency).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope carries an APIError to the client.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
