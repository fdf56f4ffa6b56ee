package main

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newTestRoot builds the real command tree with PersistentPreRun stubbed out
// so the API client is never initialised. Only paths that fail before
// reaching the client may be executed.
func newTestRoot(t *testing.T) *cobra.Command {
	t.Helper()
	resetFlags(t)
	root := newRootCmd()
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {}
	return root
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"query requires a statement", []string{"query"}},
		{"query rejects extra args", []string{"query", "MATCH (n) RETURN n", "extra"}},
		{"graph takes no args", []string{"graph", "extra"}},
		{"init requires a file", []string{"init"}},
		{"rest requires a file", []string{"rest"}},
		{"import requires a file", []string{"import"}},
		{"share create takes no args", []string{"share", "create", "id"}},
		{"share get requires an id", []string{"share", "get"}},
		{"share update requires an id", []string{"share", "update"}},
		{"share delete rejects two ids", []string{"share", "delete", "a", "b"}},
		{"share replay requires an id", []string{"share", "replay"}},
		{"status takes no args", []string{"status", "now"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := executeArgs(t, newTestRoot(t), tc.args...); err == nil {
				t.Error("expected argument error, got nil")
			}
		})
	}
}

func TestQueryRejectsMalformedParam(t *testing.T) {
	err := executeArgs(t, newTestRoot(t), "query", "RETURN $x", "--param", "novalue")
	if err == nil || !strings.Contains(err.Error(), "name=value") {
		t.Errorf("expected param error, got %v", err)
	}
}

func TestShareUpdateRequiresAField(t *testing.T) {
	err := executeArgs(t, newTestRoot(t), "share", "update", "abc")
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Errorf("expected nothing-to-update error, got %v", err)
	}
}

func TestRestRejectsInvalidJSON(t *testing.T) {
	path := t.TempDir() + "/bad.json"
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := executeArgs(t, newTestRoot(t), "rest", path)
	if err == nil || !strings.Contains(err.Error(), "not valid JSON") {
		t.Errorf("expected invalid JSON error, got %v", err)
	}
}

func TestInitMissingFile(t *testing.T) {
	err := executeArgs(t, newTestRoot(t), "init", t.TempDir()+"/missing.cypher")
	if err == nil || !strings.Contains(err.Error(), "reading script") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"n=3", "f=1.5", "ok=true", "s=hello", "l=[1,2]", "eq=a=b"})
	if err != nil {
		t.Fatalf("parseParams: %v", err)
	}

	if got["n"] != int64(3) {
		t.Errorf("n: got %v (%T)", got["n"], got["n"])
	}
	if got["f"] != 1.5 {
		t.Errorf("f: got %v", got["f"])
	}
	if got["ok"] != true {
		t.Errorf("ok: got %v", got["ok"])
	}
	if got["s"] != "hello" {
		t.Errorf("s: got %v", got["s"])
	}
	if l, ok := got["l"].([]any); !ok || len(l) != 2 {
		t.Errorf("l: got %v (%T)", got["l"], got["l"])
	}
	if got["eq"] != "a=b" {
		t.Errorf("eq: got %v", got["eq"])
	}

	if p, err := parseParams(nil); p != nil || err != nil {
		t.Errorf("expected nil params for no flags, got %v %v", p, err)
	}
}
