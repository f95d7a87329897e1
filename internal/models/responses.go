package models

// RootResponse is returned by GET /
type RootResponse struct {
	Message string `json:"message"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
	Status  string `json:"status"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// StatusResponse is returned by GET /status
type StatusResponse struct {
	Status      string `json:"status"`
	Application string `json:"application"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
}

// TimestampLayout renders UTC timestamps as ISO-8601 with microseconds and
// no zone suffix.
const TimestampLayout = "2006-01-02T15:04:05.000000"
