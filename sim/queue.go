// Defines the Queue admission class: a named, prioritized binding of a
// DispatchAlgorithm to a precomputed set of eligible hosts, plus the ordered
// pending list of jobs waiting to be bound.

package sim

// Queue is an admission class. A job appears in exactly one queue's pending
// list iff its state is PEND (P3).
type Queue struct {
	Name      string
	Priority  float64
	Algorithm DispatchAlgorithm

	eligible []*Host
	pending  []*Job
}

// NewQueue constructs a Queue whose eligible set is every host in hosts for
// which matcher returns true. A nil matcher makes every host eligible.
func NewQueue(name string, priority float64, algorithm DispatchAlgorithm, hosts []*Host, matcher func(*Host) bool) *Queue {
	eligible := make([]*Host, 0, len(hosts))
	for _, h := range hosts {
		if matcher == nil || matcher(h) {
			eligible = append(eligible, h)
		}
	}
	return &Queue{Name: name, Priority: priority, Algorithm: algorithm, eligible: eligible}
}

// Enqueue appends job to the pending list and marks it PEND.
func (q *Queue) Enqueue(job *Job, now int64) {
	job.QueueName = q.Name
	job.MarkPending(now)
	q.pending = append(q.pending, job)
}

// Pending returns the queue's current pending list. Callers must not retain
// or mutate the returned slice across a Dispatch call.
func (q *Queue) Pending() []*Job { return q.pending }

// EligibleHosts returns the queue's precomputed eligible-host set.
func (q *Queue) EligibleHosts() []*Host { return q.eligible }

// Dispatch attempts to bind a prefix (or all) of the pending list to
// eligible hosts, in algorithm-defined order. Returns true iff at least one
// job remains pending after the pass — signalling that another dispatch
// should be scheduled. Must not block; a dispatch pass is deterministic
// given the same pending list and cluster state.
func (q *Queue) Dispatch(sim *Simulation) bool {
	if len(q.pending) == 0 {
		return false
	}
	q.Algorithm.OrderPending(q.pending)

	reserver, canReserve := q.Algorithm.(Reserver)

	var remaining []*Job
	for _, job := range q.pending {
		host := q.Algorithm.SelectHost(job, q.eligibleFor(job))
		if host != nil {
			sim.bindJob(job, host, q)
			continue
		}
		if canReserve {
			if resHost, startAt, ok := reserver.SelectReservation(job, q.eligible, sim.Now()); ok {
				sim.ReserveJob(job, resHost, startAt)
				continue
			}
		}
		remaining = append(remaining, job)
	}
	q.pending = remaining
	return len(q.pending) > 0
}

// eligibleFor returns the hosts in q's eligible set that currently have free
// capacity for job — the intersection of the queue's eligible set and the
// predicate induced by job's resource demand and host status.
func (q *Queue) eligibleFor(job *Job) []*Host {
	out := make([]*Host, 0, len(q.eligible))
	for _, h := range q.eligible {
		if h.CanFit(job) {
			out = append(out, h)
		}
	}
	return out
}
