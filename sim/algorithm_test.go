package sim

import "testing"

func TestFCFS_OrderPending_SortsBySubmitTimeThenID(t *testing.T) {
	// GIVEN jobs out of submit-time order, with a tie broken by id
	a := NewJob(2, 1, 0, 0, 0, 100, "default", 0)
	b := NewJob(1, 1, 0, 0, 0, 50, "default", 0)
	c := NewJob(3, 1, 0, 0, 0, 50, "default", 0)
	pending := []*Job{a, b, c}

	// WHEN ordered by FCFS
	FCFS{}.OrderPending(pending)

	// THEN order is (submit_time asc, id asc): b(50,1), c(50,3), a(100,2)
	if pending[0] != b || pending[1] != c || pending[2] != a {
		t.Errorf("unexpected order: %v", pending)
	}
}

func TestFCFS_SelectHost_PicksFirstCandidate(t *testing.T) {
	// GIVEN two candidate hosts
	h1 := NewHost("h1", 1, 0, 1.0, HostOK)
	h2 := NewHost("h2", 1, 0, 1.0, HostOK)

	// WHEN FCFS selects among them
	got := FCFS{}.SelectHost(nil, []*Host{h1, h2})

	// THEN the first candidate wins
	if got != h1 {
		t.Errorf("expected first-fit to choose h1, got %v", got)
	}
}

func TestBestFit_SelectHost_PrefersLowerLoad(t *testing.T) {
	// GIVEN one lightly loaded and one heavily loaded host of equal size
	light := NewHost("light", 10, 0, 1.0, HostOK)
	heavy := NewHost("heavy", 10, 0, 1.0, HostOK)
	heavy.TryAssign(NewJob(1, 8, 0, 0, 0, 0, "default", 0))

	// WHEN best-fit selects between them
	got := BestFit{}.SelectHost(nil, []*Host{heavy, light})

	// THEN the lightly loaded host is chosen (lower Score wins)
	if got != light {
		t.Errorf("expected best-fit to choose the less loaded host, got %v", got.Name)
	}
}

func TestPriorityWeighted_OrderPending_HigherEffectivePriorityFirst(t *testing.T) {
	// GIVEN jobs with different priorities, all in the same queue
	low := NewJob(1, 1, 0, 0, 0, 0, "default", 1.0)
	high := NewJob(2, 1, 0, 0, 0, 0, "default", 5.0)
	pending := []*Job{low, high}

	// WHEN ordered with a zero queue-priority weight
	PriorityWeighted{QueuePriority: 0}.OrderPending(pending)

	// THEN the higher-priority job comes first
	if pending[0] != high {
		t.Errorf("expected high-priority job first, got %v", pending[0])
	}
}

func TestNewDispatchAlgorithm_PanicsOnUnknownName(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unknown algorithm name")
		}
	}()
	NewDispatchAlgorithm("does-not-exist", 0)
}

func TestNewDispatchAlgorithm_ReturnsExpectedTypes(t *testing.T) {
	cases := map[string]DispatchAlgorithm{
		"":                  FCFS{},
		"fcfs":              FCFS{},
		"best-fit":          BestFit{},
		"priority-weighted": PriorityWeighted{QueuePriority: 2},
		"fcfs-reserving":    ReservingFCFS{},
	}
	for name := range cases {
		got := NewDispatchAlgorithm(name, 2)
		switch cases[name].(type) {
		case FCFS:
			if _, ok := got.(FCFS); !ok {
				t.Errorf("%q: expected FCFS, got %T", name, got)
			}
		case BestFit:
			if _, ok := got.(BestFit); !ok {
				t.Errorf("%q: expected BestFit, got %T", name, got)
			}
		case PriorityWeighted:
			if _, ok := got.(PriorityWeighted); !ok {
				t.Errorf("%q: expected PriorityWeighted, got %T", name, got)
			}
		case ReservingFCFS:
			if _, ok := got.(ReservingFCFS); !ok {
				t.Errorf("%q: expected ReservingFCFS, got %T", name, got)
			}
		}
	}
}

func TestReservingFCFS_SelectReservation_PicksSoonestAvailableHost(t *testing.T) {
	// GIVEN two full hosts, one that frees up sooner than the other
	soon := NewHost("soon", 1, 0, 1.0, HostOK)
	later := NewHost("later", 1, 0, 1.0, HostOK)
	running1 := NewJob(1, 1, 0, 500, 0, 0, "default", 0)
	running1.MarkRunning(0, soon, 1.0, 0) // ends at 500
	soon.TryAssign(running1)
	running2 := NewJob(2, 1, 0, 900, 0, 0, "default", 0)
	running2.MarkRunning(0, later, 1.0, 0) // ends at 900
	later.TryAssign(running2)

	job := NewJob(3, 1, 0, 100, 0, 0, "default", 0)

	// WHEN a reservation is selected among both
	host, startAt, ok := ReservingFCFS{}.SelectReservation(job, []*Host{later, soon}, 0)

	// THEN the host that frees up soonest wins, at its release time
	if !ok || host != soon || startAt != 500 {
		t.Errorf("expected reservation on soon at t=500, got host=%v startAt=%d ok=%v", host, startAt, ok)
	}
}

func TestReservingFCFS_SelectReservation_RejectsJobThatNeverFits(t *testing.T) {
	// GIVEN a host whose max capacity is smaller than the job's demand
	tiny := NewHost("tiny", 1, 0, 1.0, HostOK)
	job := NewJob(1, 2, 0, 100, 0, 0, "default", 0)

	// WHEN a reservation is attempted
	_, _, ok := ReservingFCFS{}.SelectReservation(job, []*Host{tiny}, 0)

	// THEN none is offered
	if ok {
		t.Error("expected no reservation for a job that can never fit any candidate")
	}
}
