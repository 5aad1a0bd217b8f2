package sim

import "testing"

func TestCluster_AddHost_PanicsOnDuplicateName(t *testing.T) {
	// GIVEN a cluster with one host
	cluster := NewCluster()
	cluster.AddHost(NewHost("h1", 4, 0, 1.0, HostOK))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate host name")
		}
	}()
	// WHEN adding another host with the same name
	cluster.AddHost(NewHost("h1", 8, 0, 1.0, HostOK))
	// THEN it panics
}

func TestCluster_HostByName_LooksUpRegisteredHosts(t *testing.T) {
	// GIVEN a cluster with two hosts
	cluster := NewCluster()
	cluster.AddHost(NewHost("h1", 4, 0, 1.0, HostOK))
	cluster.AddHost(NewHost("h2", 8, 0, 2.0, HostOK))

	// WHEN looking up an existing and a missing name
	h1, ok1 := cluster.HostByName("h1")
	_, ok2 := cluster.HostByName("missing")

	// THEN the existing one is found and the missing one is not
	if !ok1 || h1.Name != "h1" {
		t.Errorf("expected to find h1, got %v (ok=%v)", h1, ok1)
	}
	if ok2 {
		t.Error("expected missing host to not be found")
	}
}

func TestCluster_UsedSlots_SumsAcrossHosts(t *testing.T) {
	// GIVEN two hosts with jobs assigned
	cluster := NewCluster()
	h1 := NewHost("h1", 4, 0, 1.0, HostOK)
	h2 := NewHost("h2", 4, 0, 1.0, HostOK)
	cluster.AddHost(h1)
	cluster.AddHost(h2)
	h1.TryAssign(NewJob(1, 2, 0, 100, 0, 0, "default", 0))
	h2.TryAssign(NewJob(2, 1, 0, 100, 0, 0, "default", 0))

	// WHEN summing used slots
	// THEN the total reflects both hosts
	if got := cluster.UsedSlots(); got != 3 {
		t.Errorf("expected total used slots 3, got %d", got)
	}
}
