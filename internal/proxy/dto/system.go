package dto

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// IndexResponse lists the available endpoints.
type IndexResponse struct {
	Service   string   `json:"service"`
	Endpoints []string `json:"endpoints"`
}
