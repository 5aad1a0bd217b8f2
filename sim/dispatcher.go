// Defines the Dispatcher: a stateless-except-for-one-integer callable that
// the DISPATCH event invokes, gated by the cluster's version counter so a
// quiescent cluster stops re-scanning its (empty) pending work.

package sim

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Dispatcher re-evaluates pending queues against cluster state, skipping the
// scan entirely when nothing has changed since its last pass.
type Dispatcher struct {
	latestObservedVersion int64
}

// NewDispatcher returns a Dispatcher that has not yet observed any version.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{latestObservedVersion: -1}
}

// Run executes one dispatch pass as the action of a DISPATCH event. This
// event firing consumes the reservation that scheduled it; every branch
// below is responsible for re-arming if there's reason to look again.
func (d *Dispatcher) Run(s *Simulation) {
	s.nextDispatchReserved = false

	v := s.cluster.Version()
	if v == d.latestObservedVersion {
		if d.allQuiescent(s) {
			logrus.Debugf("[%d] dispatcher: quiescent, chain stopped", s.Now())
			return
		}
		s.armDispatch()
		return
	}

	// Higher-priority queues are offered hosts first; equal priorities keep
	// their definition order.
	ordered := append([]*Queue(nil), s.queues...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority > ordered[j].Priority })

	stillPending := false
	for _, q := range ordered {
		if q.Dispatch(s) {
			stillPending = true
		}
	}
	s.sampleTimeSeries()

	if stillPending {
		// Record the version as of after this pass's own bindings, so the
		// next pass can correctly detect "nothing changed since" even
		// though this pass itself bumped the version via TryAssign.
		d.latestObservedVersion = s.cluster.Version()
		s.armDispatch()
	} else {
		d.latestObservedVersion = 0
		logrus.Debugf("[%d] dispatcher: all queues drained, chain stopped", s.Now())
	}
}

// allQuiescent reports whether there is no pending work left anywhere and
// the scenario has finished submitting, i.e. nothing will ever change again
// without an external event (job finish, host status change) re-arming us.
func (d *Dispatcher) allQuiescent(s *Simulation) bool {
	if !s.scenarioDrained {
		return false
	}
	for _, q := range s.queues {
		if len(q.Pending()) > 0 {
			return false
		}
	}
	return true
}
