package stats

import (
	"math"
	"sync"

	"github.com/Gokul1734/factsense/internal/model"
)

// Snapshot is a point-in-time copy of the running statistics.
type Snapshot struct {
	TotalChecks   int                `json:"total_checks"`
	AvgConfidence float64            `json:"avg_confidence"`
	ByLabel       map[string]int     `json:"by_label"`
	ByCategory    map[string]int     `json:"by_category"`
	AvgByCategory map[string]float64 `json:"avg_confidence_by_category"`
}

// Running accumulates verification statistics across requests. Safe for
// concurrent use; averages are maintained as rounded running means.
type Running struct {
	mu            sync.Mutex
	total         int
	avgConfidence float64
	byLabel       map[string]int
	byCategory    map[string]int
	avgByCategory map[string]float64
}

// NewRunning creates an empty statistics accumulator.
func NewRunning() *Running {
	return &Running{
		byLabel:       make(map[string]int),
		byCategory:    make(map[string]int),
		avgByCategory: make(map[string]float64),
	}
}

// Record folds one verdict into the running aggregates.
func (r *Running) Record(label model.VerdictLabel, confidence float64, category string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	r.avgConfidence = runningMean(r.avgConfidence, confidence, r.total)
	r.byLabel[string(label)]++

	if category != "" {
		r.byCategory[category]++
		r.avgByCategory[category] = runningMean(r.avgByCategory[category], confidence, r.byCategory[category])
	}
}

// Snapshot returns a copy of the current aggregates.
func (r *Running) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		TotalChecks:   r.total,
		AvgConfidence: r.avgConfidence,
		ByLabel:       make(map[string]int, len(r.byLabel)),
		ByCategory:    make(map[string]int, len(r.byCategory)),
		AvgByCategory: make(map[string]float64, len(r.avgByCategory)),
	}
	for k, v := range r.byLabel {
		snap.ByLabel[k] = v
	}
	for k, v := range r.byCategory {
		snap.ByCategory[k] = v
	}
	for k, v := range r.avgByCategory {
		snap.AvgByCategory[k] = v
	}
	return snap
}

// runningMean folds value into a mean over n samples, rounded to 2 decimal
// places to keep reported figures stable.
func runningMean(mean, value float64, n int) float64 {
	updated := (mean*float64(n-1) + value) / float64(n)
	return math.Round(updated*100) / 100
}
