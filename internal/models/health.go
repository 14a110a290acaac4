package models

import "time"

// HealthResponse reports API liveness and database reachability
type HealthResponse struct {
	Status   string    `json:"status" example:"healthy"`
	Database string    `json:"database" example:"up"`
	Time     time.Time `json:"time" example:"2024-03-20T13:00:00Z"`
}
