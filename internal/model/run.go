package model

import "time"

// RunStatus represents the current state of a matching run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one execution of the matching pipeline, kept for history.
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Threshold float64   `json:"threshold"`
	Status    RunStatus `json:"status"`
	Stats     *RunStats `json:"stats,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunStats holds the counts recorded when a run completes.
type RunStats struct {
	PackedRows     int     `json:"packed_rows"`
	ShippedRows    int     `json:"shipped_rows"`
	OrderRows      int     `json:"order_rows"`
	ResultRows     int     `json:"result_rows"`
	ExactMatches   int     `json:"exact_matches"`
	FuzzyMatches   int     `json:"fuzzy_matches"`
	NoMatches      int     `json:"no_matches"`
	Customers      int     `json:"customers"`
	ExactMatchRate float64 `json:"exact_match_rate"`
	QualityRate    float64 `json:"quality_rate"`
}
