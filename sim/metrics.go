// Tracks simulation-wide statistics: submission/completion counters, queue
// time accounting, and the append-only time series sampled on every
// dispatch pass.

package sim

import (
	"fmt"
	"math"
	"sort"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Time series are append-only vectors held in memory; Metrics writes no
// files (Simulation.sampleTimeSeries hands each sample to the report sinks
// as it is taken).
type Metrics struct {
	Submitted  int
	Successful int
	Failed     int

	LatestFinishTime int64
	TotalQueuingTime int64 // sum of total_pending_duration across DONE/EXIT jobs

	pendingDurations []int64 // one entry per terminal job, for percentile reporting

	// SlotSeries and PendingSeries are sampled once per dispatch pass (§4.4).
	SlotSeries    []TimeSample
	PendingSeries []TimeSample
}

// TimeSample is one (time, value) point in a sampled time series.
type TimeSample struct {
	TimeMs int64
	Value  int64
}

// NewMetrics returns a zero-valued Metrics ready for accumulation.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordSubmission increments the submitted counter.
func (m *Metrics) RecordSubmission() {
	m.Submitted++
}

// RecordCompletion folds a terminal job's outcome into the running totals.
func (m *Metrics) RecordCompletion(job *Job) {
	if job.FinishTime > m.LatestFinishTime {
		m.LatestFinishTime = job.FinishTime
	}
	m.TotalQueuingTime += job.TotalPendingMs
	m.pendingDurations = append(m.pendingDurations, job.TotalPendingMs)
	if job.State == StateExit {
		m.Failed++
	} else {
		m.Successful++
	}
}

// Sample appends one point to each time series.
func (m *Metrics) Sample(timeMs, usedSlots, pendingCount int64) {
	m.SlotSeries = append(m.SlotSeries, TimeSample{TimeMs: timeMs, Value: usedSlots})
	m.PendingSeries = append(m.PendingSeries, TimeSample{TimeMs: timeMs, Value: pendingCount})
}

// StillPending returns num_submitted - num_successful - num_failed, the
// L2 throughput-conservation term for jobs never reaching a terminal state.
func (m *Metrics) StillPending() int {
	return m.Submitted - m.Successful - m.Failed
}

// Print writes a human-readable summary to stdout at run end.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Submitted            : %d\n", m.Submitted)
	fmt.Printf("Successful           : %d\n", m.Successful)
	fmt.Printf("Failed               : %d\n", m.Failed)
	fmt.Printf("Still pending         : %d\n", m.StillPending())
	if m.Successful+m.Failed > 0 {
		fmt.Printf("Average pending (ms) : %.2f\n", mean(m.pendingDurations))
		fmt.Printf("P90 pending (ms)     : %.2f\n", percentile(m.pendingDurations, 90))
	}
}

func mean(data []int64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum int64
	for _, v := range data {
		sum += v
	}
	return float64(sum) / float64(len(data))
}

// percentile computes the p-th percentile of data via linear interpolation
// between the two closest ranks. data is sorted on a copy; the caller's
// slice is left untouched.
func percentile(data []int64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := append([]int64(nil), data...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rank := p / 100.0 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}
