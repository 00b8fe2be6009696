package model

import "time"

// HealthStatus is served by the health endpoint. ActiveRuns counts backport runs
// accepted from webhooks that have not finished yet.
type HealthStatus struct {
	Status     string    `json:"status"`
	Service    string    `json:"service"`
	Version    string    `json:"version"`
	StartedAt  time.Time `json:"started_at"`
	ActiveRuns int       `json:"active_runs"`
}
