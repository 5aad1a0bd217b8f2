package cmd

import "testing"

func TestLoadScenario_ParsesRowsInOrder(t *testing.T) {
	// GIVEN a scenario CSV with a header and three data rows, the last with no priority
	path := writeTempFile(t, "scenario.csv", `submit_time_ms,queue_name,slot_required,mem_required,cpu_time,non_cpu_time,priority
0,default,1,0,500,500,1.0
100,gpu,2,1024,1000,0,2.5
250,default,1,0,100,0,
`)

	// WHEN loaded
	entries, err := loadScenario(path)

	// THEN three entries parse in file order, with a defaulted priority on the last
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].QueueName != "gpu" || entries[1].SlotRequired != 2 || entries[1].MemRequired != 1024 {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
	if entries[2].Priority != 0.0 {
		t.Errorf("expected default priority 0.0 for blank field, got %v", entries[2].Priority)
	}
	if entries[0].SubmitTime != 0 || entries[0].Priority != 1.0 {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
}

func TestLoadScenario_RejectsShortRow(t *testing.T) {
	// GIVEN a row missing trailing columns
	path := writeTempFile(t, "scenario.csv", `submit_time_ms,queue_name,slot_required,mem_required,cpu_time,non_cpu_time,priority
0,default,1
`)

	// WHEN loaded
	_, err := loadScenario(path)

	// THEN it is rejected
	if err == nil {
		t.Error("expected an error for a short row")
	}
}

func TestLoadScenario_RejectsUnparseableNumber(t *testing.T) {
	// GIVEN a row with a non-numeric slot_required
	path := writeTempFile(t, "scenario.csv", `submit_time_ms,queue_name,slot_required,mem_required,cpu_time,non_cpu_time,priority
0,default,many,0,500,500,0
`)

	// WHEN loaded
	_, err := loadScenario(path)

	// THEN it is rejected
	if err == nil {
		t.Error("expected an error for a non-numeric slot_required")
	}
}

func TestLoadScenario_EmptyFileYieldsNoEntries(t *testing.T) {
	// GIVEN a scenario file with only a header row
	path := writeTempFile(t, "scenario.csv", "submit_time_ms,queue_name,slot_required,mem_required,cpu_time,non_cpu_time,priority\n")

	// WHEN loaded
	entries, err := loadScenario(path)

	// THEN no entries result, and no error is raised
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}
}
