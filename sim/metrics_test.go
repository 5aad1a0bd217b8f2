package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordCompletion_AccumulatesByOutcome(t *testing.T) {
	// GIVEN a fresh Metrics and two terminal jobs, one DONE and one EXIT
	m := NewMetrics()
	m.RecordSubmission()
	m.RecordSubmission()

	done := NewJob(1, 1, 0, 100, 0, 0, "default", 0)
	done.MarkRunning(0, &Host{Name: "h1", MaxSlots: 1, CPUFactor: 1.0}, 1.0, 1)
	done.Finish(200, false)

	failed := NewJob(2, 1, 0, 100, 0, 0, "default", 0)
	failed.MarkRunning(0, &Host{Name: "h1", MaxSlots: 1, CPUFactor: 1.0}, 1.0, 2)
	failed.Finish(150, true)

	// WHEN both are recorded
	m.RecordCompletion(done)
	m.RecordCompletion(failed)

	// THEN counters and the latest finish time reflect both outcomes
	assert.Equal(t, 1, m.Successful)
	assert.Equal(t, 1, m.Failed)
	assert.Equal(t, int64(200), m.LatestFinishTime)
	assert.Equal(t, 0, m.StillPending())
}

func TestMean_AveragesData(t *testing.T) {
	assert.Equal(t, 20.0, mean([]int64{10, 20, 30}))
	assert.Equal(t, 0.0, mean(nil))
}

func TestPercentile_InterpolatesBetweenRanks(t *testing.T) {
	data := []int64{10, 20, 30, 40}

	// p50 of 4 sorted values lands exactly between the two middle ranks
	assert.Equal(t, 25.0, percentile(data, 50))
	// p0/p100 are the extremes regardless of input order
	unsorted := []int64{40, 10, 30, 20}
	assert.Equal(t, 10.0, percentile(unsorted, 0))
	assert.Equal(t, 40.0, percentile(unsorted, 100))
}
