// Defines the Cluster aggregate: the set of Hosts plus the monotonic version
// counter dispatch passes use to skip idempotent work.

package sim

import "fmt"

// Cluster aggregates the Hosts available to the simulation and tracks a
// monotonic version bumped on every host-state-changing operation.
type Cluster struct {
	hosts   []*Host
	byName  map[string]*Host
	version int64
}

// NewCluster returns an empty Cluster.
func NewCluster() *Cluster {
	return &Cluster{byName: make(map[string]*Host)}
}

// AddHost registers host with the cluster. Panics on a duplicate name —
// that is a configuration error the loader must have already rejected.
func (c *Cluster) AddHost(host *Host) {
	if _, exists := c.byName[host.Name]; exists {
		panic(fmt.Sprintf("cluster: duplicate host name %q", host.Name))
	}
	host.cluster = c
	c.hosts = append(c.hosts, host)
	c.byName[host.Name] = host
}

// Hosts returns all registered hosts, in registration order.
func (c *Cluster) Hosts() []*Host { return c.hosts }

// HostByName looks up a host by name, returning (nil, false) if absent.
func (c *Cluster) HostByName(name string) (*Host, bool) {
	h, ok := c.byName[name]
	return h, ok
}

// Version returns the cluster's current version counter.
func (c *Cluster) Version() int64 { return c.version }

func (c *Cluster) bumpVersion() { c.version++ }

// UsedSlots sums used_slots across every host, for time-series sampling.
func (c *Cluster) UsedSlots() int64 {
	var total int64
	for _, h := range c.hosts {
		total += h.UsedSlots()
	}
	return total
}
