package models

import "time"

// SystemMetrics is a lightweight snapshot of service counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	Generations              uint64    `json:"generations"`
	GenerationFailures       uint64    `json:"generation_failures"`
	UnfilledCells            uint64    `json:"unfilled_cells"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
