// Defines Simulation: the event loop tying EventQueue, Cluster, Queues, and
// Dispatcher together, plus the scenario-submission and job-finish actions
// that move Jobs through their lifecycle.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ScenarioEntry is one external submission record, as produced by the
// scenario loader. SubmitTime is in ms since the start of the run.
type ScenarioEntry struct {
	SubmitTime   int64
	QueueName    string
	SlotRequired int64
	MemRequired  int64
	CPUTime      float64
	NonCPUTime   float64
	Priority     float64
}

// Sinks is the set of append-only log writers a Simulation reports to.
// Satisfied by *report.Sinks; kept as an interface here so sim never
// imports the report package (and never touches the filesystem directly).
type Sinks interface {
	Log(timeMs int64, level, message string)
	Jobmart(startMs, finishMs int64, queueName, hostName string, slots, jobID, pendingMs, runMs int64)
	Performance(timeMs, inUseSlots int64)
	Pending(timeMs, pendingCount int64)
	JobSubmit(submitMs, jobID int64, queueName string, slots, mem int64)
}

// noopSinks discards everything; used when a caller (e.g. a test) does not
// care about output files.
type noopSinks struct{}

func (noopSinks) Log(int64, string, string)                                        {}
func (noopSinks) Jobmart(int64, int64, string, string, int64, int64, int64, int64) {}
func (noopSinks) Performance(int64, int64)                                         {}
func (noopSinks) Pending(int64, int64)                                             {}
func (noopSinks) JobSubmit(int64, int64, string, int64, int64)                     {}

// NoopSinks returns a Sinks implementation that discards every write.
func NoopSinks() Sinks { return noopSinks{} }

// Simulation owns the event loop, cluster, queues, and statistics for one
// deterministic run.
type Simulation struct {
	cfg SimConfig

	events *EventQueue
	now    int64

	cluster    *Cluster
	queues     []*Queue
	defaultQ   *Queue
	byQueue    map[string]*Queue
	dispatcher *Dispatcher

	metrics *Metrics
	sinks   Sinks

	nextJobID            JobID
	nextDispatchReserved bool
	nextDispatchEventID  EventID
	scenarioDrained      bool
}

// NewSimulation constructs a Simulation over cluster and queues (queues[0]
// is the default queue consulted for every submission when
// cfg.UseOnlyDefaultQueue is set). sinks may be nil, in which case output is
// discarded.
func NewSimulation(cluster *Cluster, queues []*Queue, cfg SimConfig, sinks Sinks) *Simulation {
	if len(queues) == 0 {
		panic("simulation: at least one queue is required")
	}
	byQueue := make(map[string]*Queue, len(queues))
	for _, q := range queues {
		byQueue[q.Name] = q
	}
	if sinks == nil {
		sinks = NoopSinks()
	}
	return &Simulation{
		cfg:        cfg.WithDefaults(),
		events:     NewEventQueue(),
		cluster:    cluster,
		queues:     queues,
		defaultQ:   queues[0],
		byQueue:    byQueue,
		dispatcher: NewDispatcher(),
		metrics:    NewMetrics(),
		sinks:      sinks,
	}
}

// Now returns the simulation's current virtual time.
func (s *Simulation) Now() int64 { return s.now }

// Metrics returns the run's accumulated statistics.
func (s *Simulation) Metrics() *Metrics { return s.metrics }

// afterDelay schedules action to fire at now+delay, at the given priority
// and kind, and returns its event id.
func (s *Simulation) afterDelay(delay int64, priority int, kind EventKind, action func(*Simulation)) EventID {
	return s.events.Push(s.now+delay, priority, kind, action)
}

// eraseEvent cancels a previously scheduled event. No-op if already fired
// or already canceled.
func (s *Simulation) eraseEvent(id EventID) { s.events.Erase(id) }

// addDelay pushes a previously scheduled event back by delta.
func (s *Simulation) addDelay(id EventID, delta int64) { s.events.AddDelay(id, delta) }

// armDispatch is the dispatcher's own re-arm for a pass that found pending
// work it could not yet place: nothing new has happened, so the next look
// waits out the full periodic cadence. Called only from Dispatcher.Run.
func (s *Simulation) armDispatch() {
	if s.nextDispatchReserved {
		return
	}
	s.nextDispatchReserved = true
	s.nextDispatchEventID = s.afterDelay(s.cfg.DispatchFrequency, priorityDispatch, EventDispatch, func(sim *Simulation) {
		sim.dispatcher.Run(sim)
	})
}

// reserveDispatchEvent is called by the events that actually change what the
// cluster can place — a new submission or a job freeing its host. Unlike
// armDispatch's periodic backstop, these get an immediate look: if no
// DISPATCH is pending, one is scheduled for right now; if one is already
// pending further out (the periodic cadence armed by a prior stuck pass),
// it's pulled forward instead of left to fire on its own schedule.
func (s *Simulation) reserveDispatchEvent() {
	if s.nextDispatchReserved {
		s.wakeDispatchNow()
		return
	}
	s.nextDispatchReserved = true
	s.nextDispatchEventID = s.afterDelay(0, priorityDispatch, EventDispatch, func(sim *Simulation) {
		sim.dispatcher.Run(sim)
	})
}

// wakeDispatchNow brings the currently pending DISPATCH event forward to the
// present if it was scheduled to fire later under the periodic cadence.
func (s *Simulation) wakeDispatchNow() {
	ev := s.events.FindByID(s.nextDispatchEventID)
	if ev == nil || ev.Time <= s.now {
		return
	}
	s.addDelay(s.nextDispatchEventID, s.now-ev.Time)
}

// sampleTimeSeries records one (time, in_use_slots) and (time, pending)
// point, called once per dispatch pass.
func (s *Simulation) sampleTimeSeries() {
	used := s.cluster.UsedSlots()
	var pending int64
	for _, q := range s.queues {
		pending += int64(len(q.Pending()))
	}
	s.metrics.Sample(s.now, used, pending)
	s.sinks.Performance(s.now, used)
	s.sinks.Pending(s.now, pending)
}

// queueFor resolves a scenario entry's target queue, honoring
// UseOnlyDefaultQueue. An unknown name is a configuration error (§7 kind 1)
// that setup must reject before Submit is ever called — cmd's
// validateScenarioQueues (cmd/config.go, called from cmd/root.go) does
// exactly that — so this panics rather than
// masking the bug by silently routing to the default queue.
func (s *Simulation) queueFor(name string) *Queue {
	if s.cfg.UseOnlyDefaultQueue {
		return s.defaultQ
	}
	q, ok := s.byQueue[name]
	if !ok {
		panic(fmt.Sprintf("simulation: scenario entry references unknown queue %q; setup must validate queue names before submission", name))
	}
	return q
}

// bindJob performs the state transition and side effects of binding job to
// host within queue q: resource reservation, runtime computation, the
// JOB_FINISHED event, and pending-duration accounting. Called by
// Queue.Dispatch once an algorithm has chosen a host for a job.
func (s *Simulation) bindJob(job *Job, host *Host, q *Queue) {
	if !host.TryAssign(job) {
		panic(fmt.Sprintf("simulation: host %s could not fit job %d after algorithm selected it", host.Name, job.ID))
	}
	finishHost := host
	finishEvent := s.afterDelay(0, priorityRelease, EventJobFinished, func(sim *Simulation) {
		sim.onJobFinished(job, finishHost)
	})
	job.MarkRunning(s.now, host, s.cfg.RuntimeMultiplier, finishEvent)
	s.addDelay(finishEvent, job.Runtime)
}

// ReserveJob commits job to host for a future start at startAt, called by a
// Reserver algorithm (via Queue.Dispatch) when no host has room right now
// but one will by startAt. This realizes JOB_RESERVED (§4.5). The job moves
// to RSV immediately, so no other pass considers it pending, and host
// records the reservation (Host.Reserve) so a later EarliestAvailableAt call
// for a different job sees this window as spoken for. host's actual
// usedSlots/usedMemory are deducted only when the reservation's start event
// fires — startAt is chosen as the moment some job's own release frees the
// capacity, and that release always resolves first: JOB_FINISHED events run
// at priorityRelease, strictly above this event's priorityReservationStart,
// regardless of which was scheduled first.
func (s *Simulation) ReserveJob(job *Job, host *Host, startAt int64) {
	job.MarkReserved(host)
	runtime := int64((job.CPUTime/host.CPUFactor + job.NonCPUTime) * s.cfg.RuntimeMultiplier)
	host.Reserve(job, startAt, runtime)
	s.events.Push(startAt, priorityReservationStart, EventJobReserved, func(sim *Simulation) {
		sim.onJobReservationStart(job, host)
	})
}

// onJobReservationStart is the JOB_RESERVED action: claim the capacity a
// reservation was promised and hand the job off to the same running state
// bindJob would have. Panics if the capacity is not actually free — a sign
// that the priority ordering meant to protect it (see ReserveJob) was
// violated.
func (s *Simulation) onJobReservationStart(job *Job, host *Host) {
	host.ReleaseReservation(job)
	if !host.TryAssign(job) {
		panic(fmt.Sprintf("simulation: host %s could not admit reserved job %d at its committed start time", host.Name, job.ID))
	}
	finishHost := host
	finishEvent := s.afterDelay(0, priorityRelease, EventJobFinished, func(sim *Simulation) {
		sim.onJobFinished(job, finishHost)
	})
	job.MarkRunning(s.now, host, s.cfg.RuntimeMultiplier, finishEvent)
	s.addDelay(finishEvent, job.Runtime)
}

// onJobFinished is the JOB_FINISHED action: release the host, record the
// outcome (DONE, or EXIT if the host went non-OK while the job ran), and
// re-arm the dispatch chain so any newly freed capacity gets re-tried.
func (s *Simulation) onJobFinished(job *Job, host *Host) {
	failed := host.Status != HostOK
	host.Release(job)
	job.Finish(s.now, failed)
	s.metrics.RecordCompletion(job)

	outcome := "DONE"
	if failed {
		outcome = "EXIT"
	}
	s.sinks.Jobmart(job.StartTime, job.FinishTime, job.QueueName, job.RunHost, job.SlotsRequired, int64(job.ID), job.TotalPendingMs, job.Runtime)
	s.sinks.Log(s.now, "info", fmt.Sprintf("job %d finished (%s) on host %s", job.ID, outcome, host.Name))

	s.reserveDispatchEvent()
}

// ScheduleAt schedules action to fire at the given absolute time, before Run
// starts draining the queue. Used by callers (and tests) that need to
// inject an event outside the scenario stream — e.g. a host status change
// at a known future time.
func (s *Simulation) ScheduleAt(atTime int64, priority int, kind EventKind, action func(*Simulation)) EventID {
	return s.events.Push(atTime, priority, kind, action)
}

// Submit enrolls a scenario entry's job at entry.SubmitTime, via a
// SCENARIO event scheduled ahead of Run. Must be called before Run.
func (s *Simulation) Submit(entry ScenarioEntry) {
	s.nextJobID++
	id := s.nextJobID
	s.events.Push(entry.SubmitTime, priorityRelease, EventScenario, func(sim *Simulation) {
		sim.onScenarioEntry(id, entry)
	})
}

func (s *Simulation) onScenarioEntry(id JobID, entry ScenarioEntry) {
	job := NewJob(id, entry.SlotRequired, entry.MemRequired, entry.CPUTime, entry.NonCPUTime, entry.SubmitTime, entry.QueueName, entry.Priority)
	q := s.queueFor(entry.QueueName)
	q.Enqueue(job, s.now)
	s.metrics.RecordSubmission()
	s.sinks.JobSubmit(entry.SubmitTime, int64(job.ID), q.Name, job.SlotsRequired, job.MemRequired)
	s.reserveDispatchEvent()
}

// scheduleAmbientEvents arms the periodic LOG and COUNT events and the
// first DISPATCH pass. Called once by Run before draining the queue.
// reserveDispatchEvent schedules that first pass for right now, so entries
// submitted at t=0 (priorityRelease, so they enqueue before this fires) are
// placed on the very first loop iteration rather than waiting out a full
// DISPATCH_FREQUENCY.
func (s *Simulation) scheduleAmbientEvents() {
	s.scheduleLogTick()
	s.scheduleCountTick()
	s.reserveDispatchEvent()
}

func (s *Simulation) scheduleLogTick() {
	s.afterDelay(s.cfg.LoggingFrequency, 0, EventLog, func(sim *Simulation) {
		sim.sinks.Log(sim.now, "debug", fmt.Sprintf("heartbeat: %d jobs submitted, %d still pending", sim.metrics.Submitted, sim.metrics.StillPending()))
		if !sim.isQuiescentForever() {
			sim.scheduleLogTick()
		}
	})
}

func (s *Simulation) scheduleCountTick() {
	s.afterDelay(s.cfg.CountingFrequency, 0, EventCount, func(sim *Simulation) {
		sim.scenarioDrained = sim.scenarioSubmitted()
		if !sim.isQuiescentForever() {
			sim.scheduleCountTick()
		}
	})
}

// scenarioSubmitted reports whether every SCENARIO event has already fired,
// i.e. no future submissions remain in the event queue.
func (s *Simulation) scenarioSubmitted() bool {
	for _, item := range s.events.byID {
		if item.Kind == EventScenario {
			return false
		}
	}
	return true
}

// isQuiescentForever reports whether nothing can ever happen again: every
// scenario entry has been submitted and every submitted job has reached a
// terminal state. Once true, the periodic LOG and COUNT ticks stop
// rescheduling themselves so Run's event queue can actually empty out.
func (s *Simulation) isQuiescentForever() bool {
	return s.scenarioSubmitted() && s.metrics.StillPending() == 0
}

// Run drains the event queue to completion. Panics raised by invariant
// violations inside event actions are recovered into a returned error, per
// the propagation policy: setup errors abort before Run is ever called, but
// a runtime invariant violation should not crash the operator's terminal
// with a raw stack trace.
func (s *Simulation) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simulation aborted: %v", r)
		}
	}()

	s.scenarioDrained = s.scenarioSubmitted()
	s.scheduleAmbientEvents()

	for {
		item := s.events.Pop()
		if item == nil {
			break
		}
		if item.Time < s.now {
			panic(fmt.Sprintf("simulation: event %d scheduled at %d fired after current time %d", item.ID, item.Time, s.now))
		}
		s.now = item.Time
		item.Action(s)
	}
	logrus.Infof("simulation complete at t=%d: %d submitted, %d successful, %d failed, %d still pending",
		s.now, s.metrics.Submitted, s.metrics.Successful, s.metrics.Failed, s.metrics.StillPending())
	return nil
}
