package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestInspect_Plain(t *testing.T) {
	isolateHome(t)
	input := writeInput(t, t.TempDir(), "run.log", extractSampleLog)

	stdout, _, err := runCommand(t, newInspectCmd(), "", "inspect", input)
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	for _, want := range []string{
		input,
		"total processing time (ms): 12.5",
		"prey: 42",
		"step: 2 measurements",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}
}

func TestInspect_JSON(t *testing.T) {
	isolateHome(t)
	input := writeInput(t, t.TempDir(), "run.log", extractSampleLog)

	stdout, _, err := runCommand(t, newInspectCmd(), "", "inspect", input, "--json")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}

	var result struct {
		Path   string `json:"path"`
		Header struct {
			TotalProcessingTime string `json:"total_processing_time"`
		} `json:"header"`
		Instrumentation []struct {
			Metric string    `json:"metric"`
			Values []float64 `json:"values"`
		} `json:"instrumentation"`
		Population []struct {
			Label string `json:"label"`
			Count int    `json:"count"`
		} `json:"population"`
		Iterations int `json:"iterations"`
	}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}

	if result.Path != input {
		t.Errorf("path = %q, want %q", result.Path, input)
	}
	if result.Header.TotalProcessingTime != "12.5" {
		t.Errorf("total_processing_time = %q, want 12.5", result.Header.TotalProcessingTime)
	}
	if len(result.Instrumentation) != 1 || result.Instrumentation[0].Metric != "step" {
		t.Fatalf("instrumentation = %+v, want one step metric", result.Instrumentation)
	}
	if len(result.Instrumentation[0].Values) != 2 {
		t.Errorf("step values = %v, want 2 entries", result.Instrumentation[0].Values)
	}
	if len(result.Population) != 1 || result.Population[0].Label != "prey" || result.Population[0].Count != 42 {
		t.Errorf("population = %+v, want prey=42", result.Population)
	}
	if result.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", result.Iterations)
	}
}

func TestInspect_RejectedFile(t *testing.T) {
	isolateHome(t)
	input := writeInput(t, t.TempDir(), "notes.txt", "not a log\n")

	_, _, err := runCommand(t, newInspectCmd(), "", "inspect", input)
	if err == nil {
		t.Fatal("expected an error for a rejected file")
	}
	if !strings.Contains(err.Error(), "not FLAME GPU console output") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInspect_RejectedFileJSON(t *testing.T) {
	isolateHome(t)
	input := writeInput(t, t.TempDir(), "notes.txt", "not a log\n")

	stdout, _, err := runCommand(t, newInspectCmd(), "", "inspect", input, "--json")
	if err != nil {
		t.Fatalf("inspect --json should report rejection as data, got error: %v", err)
	}

	var result map[string]string
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if result["status"] != "rejected" {
		t.Errorf("status = %q, want rejected", result["status"])
	}
}
