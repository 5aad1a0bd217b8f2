// Defines the Job struct that models a single unit of work moving through
// the submission → pending → running → terminal lifecycle.

package sim

import "fmt"

// JobState is a job's position in its lifecycle.
type JobState string

const (
	StateWait     JobState = "WAIT" // constructed, not yet enrolled in a queue
	StatePend     JobState = "PEND" // enrolled in a queue's pending list
	StateReserved JobState = "RSV"  // bound to a host for a future start, capacity held
	StateRun      JobState = "RUN"  // bound to a host, JOB_FINISHED scheduled
	StateDone     JobState = "DONE" // finished normally
	StateExit     JobState = "EXIT" // finished on a host that went non-OK mid-run
)

// Job models one unit of work submitted against the cluster.
type Job struct {
	ID JobID

	// Static attributes, fixed at submission from the scenario entry.
	SlotsRequired int64
	MemRequired   int64
	CPUTime       float64
	NonCPUTime    float64
	SubmitTime    int64
	QueueName     string
	Priority      float64

	// Dynamic lifecycle state.
	State            JobState
	StartTime        int64
	FinishTime       int64
	TotalPendingMs   int64
	RunHost          string // host name while RUN, or the host the job finished on
	Runtime          int64  // computed at bind time: cpu_time/host_factor + non_cpu_time, scaled
	pendStartTime    int64
	pendStartTimeSet bool
	finishEvent      EventID
	finishEventSet   bool
}

// JobID uniquely identifies a Job within a run.
type JobID int64

// NewJob constructs a Job in state WAIT from a scenario entry's fields.
func NewJob(id JobID, slots, mem int64, cpuTime, nonCPUTime float64, submitTime int64, queueName string, priority float64) *Job {
	if slots < 1 {
		panic(fmt.Sprintf("job %d: slots_required must be >= 1, got %d", id, slots))
	}
	return &Job{
		ID:            id,
		SlotsRequired: slots,
		MemRequired:   mem,
		CPUTime:       cpuTime,
		NonCPUTime:    nonCPUTime,
		SubmitTime:    submitTime,
		QueueName:     queueName,
		Priority:      priority,
		State:         StateWait,
	}
}

// MarkPending transitions the job to PEND, recording pend_start_time the
// first time it is called (a job may re-enter PEND only via the scenario
// path, which happens exactly once, so this is effectively idempotent).
func (j *Job) MarkPending(now int64) {
	j.State = StatePend
	if !j.pendStartTimeSet {
		j.pendStartTime = now
		j.pendStartTimeSet = true
	}
}

// MarkRunning transitions the job to RUN, computing its runtime against the
// chosen host's speed factor and recording the JOB_FINISHED event that now
// owns it, per the invariant that a RUN job has exactly one such event.
func (j *Job) MarkRunning(now int64, host *Host, runtimeMultiplier float64, finishEvent EventID) {
	j.State = StateRun
	j.StartTime = now
	j.RunHost = host.Name
	j.Runtime = int64((j.CPUTime/host.CPUFactor + j.NonCPUTime) * runtimeMultiplier)
	j.TotalPendingMs = now - j.pendStartTime
	j.finishEvent = finishEvent
	j.finishEventSet = true
}

// MarkReserved transitions the job to RSV: it is committed to host for a
// future start, its resources are not yet deducted from host, and it owns no
// JOB_FINISHED event.
func (j *Job) MarkReserved(host *Host) {
	j.State = StateReserved
	j.RunHost = host.Name
}

// FinishEvent returns the id of the JOB_FINISHED event targeting this job,
// and whether one has been recorded.
func (j *Job) FinishEvent() (EventID, bool) {
	return j.finishEvent, j.finishEventSet
}

// Finish transitions the job to a terminal state (DONE, or EXIT if the host
// failed mid-run) and records its finish time.
func (j *Job) Finish(now int64, failed bool) {
	j.FinishTime = now
	if failed {
		j.State = StateExit
	} else {
		j.State = StateDone
	}
	j.finishEventSet = false
}

func (j Job) String() string {
	return fmt.Sprintf("Job(id=%d queue=%s state=%s slots=%d submit=%d)", j.ID, j.QueueName, j.State, j.SlotsRequired, j.SubmitTime)
}
