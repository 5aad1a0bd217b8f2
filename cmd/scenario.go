package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	sim "github.com/clustersim/clustersim/sim"
)

// scenarioColumns is the fixed column order of a scenario CSV file.
var scenarioColumns = []string{
	"submit_time_ms", "queue_name", "slot_required", "mem_required", "cpu_time", "non_cpu_time", "priority",
}

// loadScenario reads an ordered sequence of sim.ScenarioEntry records from a
// CSV trace file, one row per submission, in submit-time order as given —
// the loader does not re-sort; an out-of-order trace is a configuration
// error left for the operator to notice in the output.
func loadScenario(path string) ([]sim.ScenarioEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading scenario header: %w", err)
	}

	var entries []sim.ScenarioEntry
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading scenario row: %w", err)
		}
		if len(row) < len(scenarioColumns) {
			return nil, fmt.Errorf("scenario row has %d columns, expected %d", len(row), len(scenarioColumns))
		}
		entry, err := parseScenarioRow(row)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", path, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseScenarioRow(row []string) (sim.ScenarioEntry, error) {
	submitTime, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return sim.ScenarioEntry{}, fmt.Errorf("submit_time_ms: %w", err)
	}
	slots, err := strconv.ParseInt(row[2], 10, 64)
	if err != nil {
		return sim.ScenarioEntry{}, fmt.Errorf("slot_required: %w", err)
	}
	mem, err := strconv.ParseInt(row[3], 10, 64)
	if err != nil {
		return sim.ScenarioEntry{}, fmt.Errorf("mem_required: %w", err)
	}
	cpuTime, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return sim.ScenarioEntry{}, fmt.Errorf("cpu_time: %w", err)
	}
	nonCPUTime, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return sim.ScenarioEntry{}, fmt.Errorf("non_cpu_time: %w", err)
	}
	priority := 0.0
	if row[6] != "" {
		priority, err = strconv.ParseFloat(row[6], 64)
		if err != nil {
			return sim.ScenarioEntry{}, fmt.Errorf("priority: %w", err)
		}
	}
	return sim.ScenarioEntry{
		SubmitTime:   submitTime,
		QueueName:    row[1],
		SlotRequired: slots,
		MemRequired:  mem,
		CPUTime:      cpuTime,
		NonCPUTime:   nonCPUTime,
		Priority:     priority,
	}, nil
}
