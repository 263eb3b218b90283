package http

// ErrorBody is the opaque error payload returned on failures.
type ErrorBody struct {
	Error string `json:"error" example:"Internal Server Error"`
}

// StatusBody is returned by liveness endpoints.
type StatusBody struct {
	Status string `json:"status" example:"ok"`
}
