// Package report owns the append-only file writers for the simulation's
// five output files, kept separate from sim so the simulation core never
// touches the filesystem directly.
package report

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// The five output files written under a run's log directory.
const (
	LogOutputFile   = "log_output.txt"
	JobmartFile     = "jobmart_raw_replica.txt"
	PerformanceFile = "performance.txt"
	PendingFile     = "pending.txt"
	JobSubmitFile   = "job_submit.txt"
)

// sink wraps one append-only output file. Once a write fails, further writes
// are silently dropped (logged once) rather than aborting the run — an I/O
// error on a log sink is never fatal to the simulation itself.
type sink struct {
	name    string
	file    *os.File
	w       *bufio.Writer
	errored bool
}

func newSink(dir, name string) *sink {
	path := dir + string(os.PathSeparator) + name
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		logrus.Errorf("report: opening %s: %v", path, err)
		return &sink{name: name, errored: true}
	}
	return &sink{name: name, file: f, w: bufio.NewWriter(f)}
}

func (s *sink) writeLine(line string) {
	if s.errored || s.w == nil {
		return
	}
	_, err := fmt.Fprintln(s.w, line)
	if err == nil {
		err = s.w.Flush()
	}
	if err != nil {
		logrus.Errorf("report: writing %s: %v", s.name, err)
		s.errored = true
	}
}

func (s *sink) flushAndClose() {
	if s.w != nil && !s.errored {
		if err := s.w.Flush(); err != nil {
			logrus.Errorf("report: flushing %s: %v", s.name, err)
		}
	}
	if s.file != nil {
		_ = s.file.Close()
	}
}

// Sinks bundles the five output writers a Simulation is given at
// construction. A caller that does not want a particular output (e.g. no
// console mirroring) may still construct Sinks; passing an empty dir writes
// nothing and reports no error, matching the "file output" flags being off.
type Sinks struct {
	logOutput   *sink
	jobmart     *sink
	performance *sink
	pending     *sink
	jobSubmit   *sink

	console bool
}

// Option configures which outputs NewSinks opens.
type Option func(*sinkConfig)

type sinkConfig struct {
	console       bool
	logFile       bool
	jobmartFile   bool
	slotsFile     bool
	jobSubmitFile bool
}

// WithConsole mirrors log rows to stdout in addition to log_output.txt.
func WithConsole(enabled bool) Option { return func(c *sinkConfig) { c.console = enabled } }

// WithLogFile toggles log_output.txt.
func WithLogFile(enabled bool) Option { return func(c *sinkConfig) { c.logFile = enabled } }

// WithJobmartFile toggles jobmart_raw_replica.txt.
func WithJobmartFile(enabled bool) Option { return func(c *sinkConfig) { c.jobmartFile = enabled } }

// WithSlotsFile toggles performance.txt and pending.txt.
func WithSlotsFile(enabled bool) Option { return func(c *sinkConfig) { c.slotsFile = enabled } }

// WithJobSubmitFile toggles job_submit.txt.
func WithJobSubmitFile(enabled bool) Option { return func(c *sinkConfig) { c.jobSubmitFile = enabled } }

// NewSinks opens the requested output files under dir. Default, with no
// options, is every file enabled — matching the teacher CLI's all-on default.
func NewSinks(dir string, opts ...Option) *Sinks {
	cfg := sinkConfig{console: true, logFile: true, jobmartFile: true, slotsFile: true, jobSubmitFile: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Sinks{console: cfg.console}
	if dir == "" {
		return s
	}
	if cfg.logFile {
		s.logOutput = newSink(dir, LogOutputFile)
	}
	if cfg.jobmartFile {
		s.jobmart = newSink(dir, JobmartFile)
	}
	if cfg.slotsFile {
		s.performance = newSink(dir, PerformanceFile)
		s.pending = newSink(dir, PendingFile)
	}
	if cfg.jobSubmitFile {
		s.jobSubmit = newSink(dir, JobSubmitFile)
	}
	return s
}

// Log writes one human-readable timestamped row at the given level.
func (s *Sinks) Log(timeMs int64, level, message string) {
	line := fmt.Sprintf("[%d] %s %s", timeMs, level, message)
	if s.console {
		fmt.Println(line)
	}
	if s.logOutput != nil {
		s.logOutput.writeLine(line)
	}
}

// Jobmart writes one completed-job row.
func (s *Sinks) Jobmart(startMs, finishMs int64, queueName, hostName string, slots, jobID, pendingMs, runMs int64) {
	if s.jobmart == nil {
		return
	}
	s.jobmart.writeLine(fmt.Sprintf("%d\t%d\t%s\t%s\t%d\t%d\t%d\t%d",
		startMs, finishMs, queueName, hostName, slots, jobID, pendingMs, runMs))
}

// Performance appends one (time_ms, in_use_slots) sample.
func (s *Sinks) Performance(timeMs, inUseSlots int64) {
	if s.performance == nil {
		return
	}
	s.performance.writeLine(fmt.Sprintf("%d\t%d", timeMs, inUseSlots))
}

// Pending appends one (time_ms, pending_job_count) sample.
func (s *Sinks) Pending(timeMs, pendingCount int64) {
	if s.pending == nil {
		return
	}
	s.pending.writeLine(fmt.Sprintf("%d\t%d", timeMs, pendingCount))
}

// JobSubmit writes one submission record.
func (s *Sinks) JobSubmit(submitMs, jobID int64, queueName string, slots, mem int64) {
	if s.jobSubmit == nil {
		return
	}
	s.jobSubmit.writeLine(fmt.Sprintf("%d\t%d\t%s\t%d\t%d", submitMs, jobID, queueName, slots, mem))
}

// Close flushes and closes every opened sink.
func (s *Sinks) Close() {
	for _, sk := range []*sink{s.logOutput, s.jobmart, s.performance, s.pending, s.jobSubmit} {
		if sk != nil {
			sk.flushAndClose()
		}
	}
}
