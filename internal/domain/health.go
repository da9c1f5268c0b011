package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// MetricsSummary is returned by GET /metrics/summary.
type MetricsSummary struct {
	Logins        map[string]float64 `json:"logins"`
	Notices       map[string]float64 `json:"notices"`
	BackendErrors map[string]float64 `json:"backendErrors"`
	SessionHits   float64            `json:"sessionHits"`
	SessionMisses float64            `json:"sessionMisses"`
}
