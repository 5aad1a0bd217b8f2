// Package sim provides the core discrete-event cluster workload simulator:
// an event loop that replays a scenario of job submissions against a
// modeled cluster of hosts, dispatching pending jobs onto hosts according
// to a pluggable per-queue algorithm.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - event.go: EventQueue, the min-heap event scheduler with id-based erase/reschedule
//   - job.go: Job lifecycle state machine (WAIT → PEND → RUN → DONE/EXIT)
//   - host.go: Host resource accounting (try-assign/release, slot and memory capacity)
//   - cluster.go: Cluster aggregate, the version counter dispatch passes key off
//   - queue.go, algorithm.go: Queue admission classes and their pluggable dispatch algorithms
//   - dispatcher.go: the self-terminating DISPATCH event chain
//   - simulation.go: the event loop tying all of the above together
//
// # Key interfaces
//
//   - DispatchAlgorithm: orders a queue's pending jobs and chooses a host for each
//
// Report sinks (log_output.txt, jobmart_raw_replica.txt, performance.txt,
// pending.txt, job_submit.txt) live in sim/report, kept separate from the
// simulation core so the core has no direct file-system dependency.
package sim
