package model

type ErrorResponse struct {
	Error         string            `json:"error"`
	Fields        map[string]string `json:"fields,omitempty"`
	Redirect      string            `json:"redirect,omitempty"`
	CorrelationID string            `json:"correlationId,omitempty"`
}
