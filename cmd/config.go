package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/clustersim/clustersim/sim"
)

// HostSpec is one entry in the host catalog YAML.
type HostSpec struct {
	Name          string  `yaml:"name"`
	MaxSlots      int64   `yaml:"max_slots"`
	MaxMemory     int64   `yaml:"max_memory"`
	CPUFactor     float64 `yaml:"cpu_factor"`
	InitialStatus string  `yaml:"initial_status"`
}

// HostCatalog is the top-level structure of the host catalog file. The
// single top-level section must be listed to satisfy KnownFields(true)
// strict parsing.
type HostCatalog struct {
	Hosts []HostSpec `yaml:"hosts"`
}

// QueueSpec is one entry in the queue definitions YAML. EligibleHosts, when
// non-empty, names the exact hosts this queue may dispatch to; an empty
// list means every host is eligible.
type QueueSpec struct {
	Name          string   `yaml:"name"`
	Priority      float64  `yaml:"priority"`
	Algorithm     string   `yaml:"algorithm"`
	EligibleHosts []string `yaml:"eligible_hosts"`
}

// QueueDefinitions is the top-level structure of the queue definitions file.
// The first entry is the default queue (§6).
type QueueDefinitions struct {
	Queues []QueueSpec `yaml:"queues"`
}

// loadHostCatalog parses a host catalog YAML file, strict on unknown fields.
func loadHostCatalog(path string) (HostCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HostCatalog{}, fmt.Errorf("reading host catalog %s: %w", path, err)
	}
	var catalog HostCatalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		return HostCatalog{}, fmt.Errorf("parsing host catalog %s: %w", path, err)
	}
	if len(catalog.Hosts) == 0 {
		return HostCatalog{}, fmt.Errorf("host catalog %s: at least one host is required", path)
	}
	return catalog, nil
}

// loadQueueDefinitions parses a queue definitions YAML file, strict on
// unknown fields.
func loadQueueDefinitions(path string) (QueueDefinitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return QueueDefinitions{}, fmt.Errorf("reading queue definitions %s: %w", path, err)
	}
	var defs QueueDefinitions
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&defs); err != nil {
		return QueueDefinitions{}, fmt.Errorf("parsing queue definitions %s: %w", path, err)
	}
	if len(defs.Queues) == 0 {
		return QueueDefinitions{}, fmt.Errorf("queue definitions %s: at least one queue is required", path)
	}
	return defs, nil
}

// buildCluster constructs a sim.Cluster from a parsed host catalog. Returns
// an error on a malformed host entry (bad status, non-positive cpu_factor is
// caught by sim.NewHost's own panic, recovered here into an error since this
// is a configuration error per the error-handling design, not an invariant
// violation during a run).
func buildCluster(catalog HostCatalog) (cluster *sim.Cluster, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("building cluster: %v", r)
		}
	}()
	cluster = sim.NewCluster()
	for _, h := range catalog.Hosts {
		status, ok := parseHostStatus(h.InitialStatus)
		if !ok {
			return nil, fmt.Errorf("host %s: unknown initial_status %q", h.Name, h.InitialStatus)
		}
		cluster.AddHost(sim.NewHost(h.Name, h.MaxSlots, h.MaxMemory, h.CPUFactor, status))
	}
	return cluster, nil
}

func parseHostStatus(raw string) (sim.HostStatus, bool) {
	switch raw {
	case "", "OK":
		return sim.HostOK, true
	case "CLOSED":
		return sim.HostClosed, true
	case "UNREACHABLE":
		return sim.HostUnreachable, true
	default:
		return "", false
	}
}

// buildQueues constructs the ordered []*sim.Queue matching defs, against the
// hosts already registered in cluster. queues[0] is always the default
// queue, per the external-interface contract.
func buildQueues(defs QueueDefinitions, cluster *sim.Cluster) (queues []*sim.Queue, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("building queues: %v", r)
		}
	}()
	hosts := cluster.Hosts()
	for _, qs := range defs.Queues {
		if !sim.ValidDispatchAlgorithms[qs.Algorithm] {
			return nil, fmt.Errorf("queue %s: unknown algorithm %q", qs.Name, qs.Algorithm)
		}
		matcher, err := eligibleMatcher(qs.EligibleHosts)
		if err != nil {
			return nil, fmt.Errorf("queue %s: %w", qs.Name, err)
		}
		algorithm := sim.NewDispatchAlgorithm(qs.Algorithm, qs.Priority)
		queues = append(queues, sim.NewQueue(qs.Name, qs.Priority, algorithm, hosts, matcher))
	}
	return queues, nil
}

// eligibleMatcher builds a host predicate from a queue's eligible_hosts
// list. An empty list matches every host.
func eligibleMatcher(names []string) (func(*sim.Host) bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(h *sim.Host) bool { return set[h.Name] }, nil
}

// validateScenarioQueues checks every scenario entry's queue_name against
// the loaded queue catalog. When useOnlyDefaultQueue is set, every entry
// routes to the default queue regardless of its stated name, so there is
// nothing to validate. Otherwise an unknown queue name is a configuration
// error per SPEC_FULL.md §7 kind 1 — fatal at setup, surfaced to the
// operator — rather than something the simulation core should paper over.
func validateScenarioQueues(entries []sim.ScenarioEntry, defs QueueDefinitions, useOnlyDefaultQueue bool) error {
	if useOnlyDefaultQueue {
		return nil
	}
	known := make(map[string]bool, len(defs.Queues))
	for _, q := range defs.Queues {
		known[q.Name] = true
	}
	for _, e := range entries {
		if !known[e.QueueName] {
			return fmt.Errorf("scenario entry submitted at %dms: unknown queue %q", e.SubmitTime, e.QueueName)
		}
	}
	return nil
}
