package types

// SuccessEnvelope wraps every 2xx JSON body under a "data" key so
// clients can unmarshal without sniffing the shape.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error body. Details is only populated for
// codes that allow it (validation field maps, state-conflict context).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
