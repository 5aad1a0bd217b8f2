// Defines the Host struct: one machine's resources, status, and slot/memory
// accounting, plus the atomic reserve/release operations Queue.Dispatch uses.

package sim

import (
	"fmt"
	"sort"
)

// HostStatus is a host's availability for new work.
type HostStatus string

const (
	HostOK          HostStatus = "OK"
	HostClosed      HostStatus = "CLOSED"
	HostUnreachable HostStatus = "UNREACHABLE"
)

// Host models one machine in the cluster.
type Host struct {
	Name      string
	MaxSlots  int64
	MaxMemory int64
	CPUFactor float64
	Status    HostStatus

	usedSlots  int64
	usedMemory int64
	assigned   map[JobID]*Job
	reserved   map[JobID]reservation

	cluster *Cluster // for version bumps; set by Cluster.AddHost
}

// reservation records a job committed to h for a future start, before its
// resources are actually deducted from usedSlots/usedMemory. runtime is
// precomputed against h at reservation time (§4.5), so EarliestAvailableAt
// can project the window this reservation will hold without needing the
// simulation's runtime-multiplier config.
type reservation struct {
	job     *Job
	startAt int64
	runtime int64
}

// NewHost constructs an idle Host with the given static attributes.
func NewHost(name string, maxSlots, maxMemory int64, cpuFactor float64, status HostStatus) *Host {
	if cpuFactor <= 0 {
		panic(fmt.Sprintf("host %s: cpu_factor must be > 0, got %v", name, cpuFactor))
	}
	return &Host{
		Name:      name,
		MaxSlots:  maxSlots,
		MaxMemory: maxMemory,
		CPUFactor: cpuFactor,
		Status:    status,
		assigned:  make(map[JobID]*Job),
		reserved:  make(map[JobID]reservation),
	}
}

// UsedSlots returns the host's currently committed slot count.
func (h *Host) UsedSlots() int64 { return h.usedSlots }

// UsedMemory returns the host's currently committed memory.
func (h *Host) UsedMemory() int64 { return h.usedMemory }

// FreeSlots returns the host's uncommitted slot capacity.
func (h *Host) FreeSlots() int64 { return h.MaxSlots - h.usedSlots }

// FreeMemory returns the host's uncommitted memory capacity.
func (h *Host) FreeMemory() int64 { return h.MaxMemory - h.usedMemory }

// CanFit reports whether job could be bound to h right now, without mutating
// state. Used by dispatch algorithms to build the eligible-host candidate set.
func (h *Host) CanFit(job *Job) bool {
	return h.Status == HostOK && h.FreeSlots() >= job.SlotsRequired && h.FreeMemory() >= job.MemRequired
}

// TryAssign attempts to bind job to h. On success it deducts resources,
// records the job, bumps the cluster version, and returns true. It returns
// false — the normal negative outcome — when the host cannot fit the job.
func (h *Host) TryAssign(job *Job) bool {
	if !h.CanFit(job) {
		return false
	}
	h.usedSlots += job.SlotsRequired
	h.usedMemory += job.MemRequired
	h.assigned[job.ID] = job
	h.bumpVersion()
	return true
}

// Release returns job's resources to the host's free pool and bumps the
// cluster version. Releasing a job not currently assigned is a programming
// bug and panics — the invariant is that Release is called exactly once per
// successful TryAssign.
func (h *Host) Release(job *Job) {
	if _, ok := h.assigned[job.ID]; !ok {
		panic(fmt.Sprintf("host %s: release of job %d that was never assigned", h.Name, job.ID))
	}
	h.usedSlots -= job.SlotsRequired
	h.usedMemory -= job.MemRequired
	if h.usedSlots < 0 || h.usedMemory < 0 {
		panic(fmt.Sprintf("host %s: resource accounting underflow releasing job %d", h.Name, job.ID))
	}
	delete(h.assigned, job.ID)
	h.bumpVersion()
}

// AssignedJobs returns the jobs currently holding resources on h, in no
// particular order.
func (h *Host) AssignedJobs() []*Job {
	out := make([]*Job, 0, len(h.assigned))
	for _, j := range h.assigned {
		out = append(out, j)
	}
	return out
}

// Reserve records that job will claim slots/memory on h starting at startAt
// for runtime ms, without touching usedSlots/usedMemory yet — those are only
// deducted when the reservation's start event actually calls TryAssign.
// Recording it here is what lets a later EarliestAvailableAt call see this
// window as spoken-for and look past it instead of double-booking it.
func (h *Host) Reserve(job *Job, startAt, runtime int64) {
	h.reserved[job.ID] = reservation{job: job, startAt: startAt, runtime: runtime}
}

// ReleaseReservation clears the bookkeeping Reserve added, once job's
// reservation has actually started (and its resources moved into assigned
// via TryAssign) or been abandoned.
func (h *Host) ReleaseReservation(job *Job) {
	delete(h.reserved, job.ID)
}

// EarliestAvailableAt reports the earliest time at or after now that h will
// have enough free slots and memory for job, projecting forward from the
// scheduled completion of every job currently assigned AND the windows
// already claimed by other outstanding reservations (so two reservations on
// the same host are never promised the same freed capacity). Returns false
// if job could never fit even on a fully idle h (its demand exceeds MaxSlots
// or MaxMemory). Does not account for hosts that are CLOSED/UNREACHABLE —
// that is the caller's concern, since a host can return to OK before the
// projected time.
func (h *Host) EarliestAvailableAt(job *Job, now int64) (int64, bool) {
	if job.SlotsRequired > h.MaxSlots || job.MemRequired > h.MaxMemory {
		return 0, false
	}
	if h.FreeSlots() >= job.SlotsRequired && h.FreeMemory() >= job.MemRequired {
		return now, true
	}

	type change struct {
		time         int64
		slots, mem   int64
		releaseFirst bool // true = a release, applied before same-time acquires
	}
	var changes []change
	for _, j := range h.AssignedJobs() {
		changes = append(changes, change{time: j.StartTime + j.Runtime, slots: j.SlotsRequired, mem: j.MemRequired, releaseFirst: true})
	}
	for _, r := range h.reserved {
		changes = append(changes, change{time: r.startAt, slots: -r.job.SlotsRequired, mem: -r.job.MemRequired})
		changes = append(changes, change{time: r.startAt + r.runtime, slots: r.job.SlotsRequired, mem: r.job.MemRequired, releaseFirst: true})
	}
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].time != changes[j].time {
			return changes[i].time < changes[j].time
		}
		return changes[i].releaseFirst && !changes[j].releaseFirst
	})

	freeSlots, freeMemory := h.FreeSlots(), h.FreeMemory()
	for i := 0; i < len(changes); {
		t := changes[i].time
		for i < len(changes) && changes[i].time == t {
			freeSlots += changes[i].slots
			freeMemory += changes[i].mem
			i++
		}
		if t >= now && freeSlots >= job.SlotsRequired && freeMemory >= job.MemRequired {
			return t, true
		}
	}
	return 0, false
}

// SetStatus updates the host's status, bumping the cluster version. A host
// that transitions away from OK keeps running its already-assigned jobs;
// it simply stops accepting new ones (enforced by CanFit).
func (h *Host) SetStatus(status HostStatus) {
	if h.Status == status {
		return
	}
	h.Status = status
	h.bumpVersion()
}

// Score returns a host-preference metric for best-fit selection: lower
// current load wins, with higher speed factor breaking ties, and host name
// breaking any remaining tie deterministically. Lower score is preferred.
func (h *Host) Score() float64 {
	load := float64(h.usedSlots) / float64(h.MaxSlots)
	return load - h.CPUFactor*1e-9
}

func (h *Host) bumpVersion() {
	if h.cluster != nil {
		h.cluster.bumpVersion()
	}
}
