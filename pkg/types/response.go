package types

// APIError is the wire shape of a failed response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps APIError in the response body.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
