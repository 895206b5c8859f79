package main

import (
	"bytes"
	"testing"
)

// execute runs the CLI in-process and returns stdout, stderr and the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("FUNNEL_LLM_ENABLED", "false")
	t.Setenv("FUNNEL_CACHE_ENABLED", "false")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
