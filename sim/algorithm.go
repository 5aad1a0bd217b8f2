// Defines the pluggable dispatch-algorithm abstraction a Queue consults on
// every Dispatch pass: an ordering over its pending list, and a host choice
// for each job in that order. Algorithms are stateless across calls except
// via the pending list and cluster state they observe.

package sim

import (
	"fmt"
	"sort"
)

// DispatchAlgorithm orders a queue's pending jobs and chooses a host for
// each from its eligible candidates, in that order, on every dispatch pass.
type DispatchAlgorithm interface {
	// OrderPending sorts pending in-place (sort.SliceStable, for determinism).
	OrderPending(pending []*Job)
	// SelectHost returns the chosen host for job among candidates, or nil if
	// none is suitable right now. Must not mutate candidates or job.
	SelectHost(job *Job, candidates []*Host) *Host
}

// FCFS orders jobs by submit time then job id, and binds each to the first
// eligible host in cluster registration order (first-fit).
type FCFS struct{}

func (FCFS) OrderPending(pending []*Job) {
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].SubmitTime != pending[j].SubmitTime {
			return pending[i].SubmitTime < pending[j].SubmitTime
		}
		return pending[i].ID < pending[j].ID
	})
}

func (FCFS) SelectHost(_ *Job, candidates []*Host) *Host {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

// BestFit orders jobs by submit time then job id (same FCFS ordering — the
// "best-fit" in this algorithm is in host choice, not job ordering), and
// binds each job to the eligible host with the lowest Score (the least
// loaded host, so load is spread across hosts).
type BestFit struct{}

func (BestFit) OrderPending(pending []*Job) {
	FCFS{}.OrderPending(pending)
}

func (BestFit) SelectHost(_ *Job, candidates []*Host) *Host {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, h := range candidates[1:] {
		if h.Score() < best.Score() || (h.Score() == best.Score() && h.Name < best.Name) {
			best = h
		}
	}
	return best
}

// PriorityWeighted orders jobs by effective priority descending — a job's
// own Priority plus its queue's Priority — then submit time, then job id,
// ahead of being offered first-fit host selection. It only ever sorts one
// queue's pending list, where every job shares the same QueuePriority, so
// the order within a queue follows the jobs' own Priority. Preference
// between queues comes from the Dispatcher, which visits queues in
// descending Queue.Priority.
type PriorityWeighted struct {
	QueuePriority float64
}

func (p PriorityWeighted) OrderPending(pending []*Job) {
	sort.SliceStable(pending, func(i, j int) bool {
		pi := pending[i].Priority + p.QueuePriority
		pj := pending[j].Priority + p.QueuePriority
		if pi != pj {
			return pi > pj
		}
		if pending[i].SubmitTime != pending[j].SubmitTime {
			return pending[i].SubmitTime < pending[j].SubmitTime
		}
		return pending[i].ID < pending[j].ID
	})
}

func (PriorityWeighted) SelectHost(_ *Job, candidates []*Host) *Host {
	return FCFS{}.SelectHost(nil, candidates)
}

// Reserver is implemented by a DispatchAlgorithm that, in addition to
// immediate binding via SelectHost, can commit a job to a host for a future
// start time (§4.5's JOB_RESERVED) when no host fits it right now. Queue.
// Dispatch consults this as a fallback after SelectHost returns nil.
type Reserver interface {
	// SelectReservation picks a host and future start time for job among
	// candidates, given the current time now. ok is false if no candidate
	// could ever fit job (its demand exceeds every candidate's capacity).
	SelectReservation(job *Job, candidates []*Host, now int64) (host *Host, startAt int64, ok bool)
}

// earliestAvailability scans candidates for the one that frees enough
// capacity for job soonest, per Host.EarliestAvailableAt. Only OK hosts are
// considered — a CLOSED or UNREACHABLE host might return to service, but a
// reservation requires choosing exactly when that is, which nothing in the
// simulation predicts, so reservation is restricted to hosts already taking
// work. Returns ok=false if no OK candidate could ever fit job.
func earliestAvailability(job *Job, candidates []*Host, now int64) (best *Host, startAt int64, ok bool) {
	bestTime := int64(0)
	for _, h := range candidates {
		if h.Status != HostOK {
			continue
		}
		t, fits := h.EarliestAvailableAt(job, now)
		if !fits {
			continue
		}
		if best == nil || t < bestTime || (t == bestTime && h.Name < best.Name) {
			best, bestTime = h, t
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestTime, true
}

// ReservingFCFS is FCFS augmented with JOB_RESERVED: when no eligible host
// can fit a job immediately, it commits the job to whichever eligible host
// frees enough capacity soonest, holding that capacity so no later job in
// this pass (or a subsequent pass) can claim it first.
type ReservingFCFS struct{}

func (ReservingFCFS) OrderPending(pending []*Job) { FCFS{}.OrderPending(pending) }

func (ReservingFCFS) SelectHost(job *Job, candidates []*Host) *Host {
	return FCFS{}.SelectHost(job, candidates)
}

func (ReservingFCFS) SelectReservation(job *Job, candidates []*Host, now int64) (*Host, int64, bool) {
	return earliestAvailability(job, candidates, now)
}

// NewDispatchAlgorithm creates a DispatchAlgorithm by name. queuePriority is
// only consulted by "priority-weighted". Panics on an unrecognized name, as
// that is a configuration error the loader must reject before this point.
func NewDispatchAlgorithm(name string, queuePriority float64) DispatchAlgorithm {
	switch name {
	case "", "fcfs":
		return FCFS{}
	case "best-fit":
		return BestFit{}
	case "priority-weighted":
		return PriorityWeighted{QueuePriority: queuePriority}
	case "fcfs-reserving":
		return ReservingFCFS{}
	default:
		panic(fmt.Sprintf("unknown dispatch algorithm %q; valid algorithms: [fcfs, best-fit, priority-weighted, fcfs-reserving]", name))
	}
}

// ValidDispatchAlgorithms is the set of recognized algorithm names, shared by
// config validation and NewDispatchAlgorithm to avoid duplication.
var ValidDispatchAlgorithms = map[string]bool{"": true, "fcfs": true, "best-fit": true, "priority-weighted": true, "fcfs-reserving": true}
