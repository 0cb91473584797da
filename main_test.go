package main

import (
	"context"
	"os/exec"
	"testing"
)

func TestRunAllRequiresProcesses(t *testing.T) {
	if err := runAll(context.Background(), nil); err == nil {
		t.Fatalf("expected error without processes")
	}
}

func TestRunAllReportsFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	err := runAll(context.Background(), []procConfig{{Name: "fail", Args: []string{"false"}}})
	if err == nil {
		t.Fatalf("expected failing process to be reported")
	}
}

func TestRunAllWaitsForSuccess(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	procs := []procConfig{{Name: "a", Args: []string{"true"}}, {Name: "b", Args: []string{"true"}}}
	if err := runAll(context.Background(), procs); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}
