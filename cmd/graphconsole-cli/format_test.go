package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/persistorai/graphconsole/client"
)

// captureStdout replaces os.Stdout with a pipe, calls f, then returns the
// captured output and restores os.Stdout. It is NOT safe for parallel use
// because os.Stdout is a package-level variable.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w

	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		io.Copy(&buf, r)
		close(done)
	}()

	f()

	w.Close()
	<-done
	os.Stdout = orig
	r.Close()
	return buf.String()
}

func TestFormatJSON(t *testing.T) {
	got := captureStdout(t, func() { formatJSON(map[string]string{"id": "abc-123"}) })

	var out map[string]string
	if err := json.Unmarshal([]byte(got), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, got)
	}
	if out["id"] != "abc-123" {
		t.Errorf("id: got %q, want %q", out["id"], "abc-123")
	}
	if !strings.Contains(got, "\n  ") {
		t.Errorf("expected indented output, got %q", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	got := captureStdout(t, func() {
		formatTable([]string{"ID", "NAME"}, [][]string{{"1", "alice"}, {"22", "b"}})
	})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), got)
	}
	if lines[0] != "ID  NAME" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "--  -----" {
		t.Errorf("separator: got %q", lines[1])
	}
	if lines[3] != "22  b" {
		t.Errorf("row: got %q", lines[3])
	}
}

func TestOutputQuiet(t *testing.T) {
	resetFlags(t)
	flagFmt = "quiet"

	got := captureStdout(t, func() { output(map[string]string{"id": "x"}, "share-1") })
	if got != "share-1\n" {
		t.Errorf("quiet output: got %q", got)
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{float64(3), "3"},
		{true, "true"},
		{map[string]any{"id": float64(1)}, `{"id":1}`},
		{[]any{"a", float64(2)}, `["a",2]`},
	}

	for _, tc := range tests {
		if got := cellString(tc.in); got != tc.want {
			t.Errorf("cellString(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOutputQueryTable(t *testing.T) {
	resetFlags(t)
	flagFmt = "table"

	resp := &client.QueryResponse{
		Columns: []string{"name", "n"},
		Rows:    [][]any{{"alice", map[string]any{"id": float64(4)}}},
		Graph:   &client.Snapshot{Nodes: map[string]map[string]any{"4": {"id": float64(4)}}},
		TimeMS:  3,
	}

	got := captureStdout(t, func() { outputQuery(resp) })

	if !strings.Contains(got, `alice  {"id":4}`) {
		t.Errorf("expected row cells, got:\n%s", got)
	}
	if !strings.Contains(got, "1 rows, 1 nodes, 0 relationships in graph (3 ms)") {
		t.Errorf("expected summary line, got:\n%s", got)
	}
}

func TestOutputGraphTable(t *testing.T) {
	resetFlags(t)
	flagFmt = "table"

	g := &client.Snapshot{
		Nodes: map[string]map[string]any{
			"10": {"id": float64(10), "labels": []any{"Person"}, "name": "bob"},
			"2":  {"id": float64(2)},
		},
		Relationships: map[string]map[string]any{
			"7": {"id": float64(7), "type": "KNOWS", "start": float64(2), "end": float64(10), "source": 0, "target": 1},
		},
	}

	got := captureStdout(t, func() { outputGraph(g, g) })

	short, long := strings.Index(got, "\n2\n"), strings.Index(got, "\n10 ")
	if short < 0 || long < 0 || short > long {
		t.Errorf("expected nodes in numeric id order:\n%s", got)
	}
	if !strings.Contains(got, `{"name":"bob"}`) {
		t.Errorf("expected non-reserved properties only:\n%s", got)
	}
	if !strings.Contains(got, "KNOWS") {
		t.Errorf("expected relationship row:\n%s", got)
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[string]int{"10": 0, "9": 0, "b": 0, "a": 0})

	if !slices.Equal(got[:2], []string{"9", "10"}) {
		t.Errorf("numeric keys out of order: %v", got)
	}
	if len(got) != 4 {
		t.Errorf("expected 4 keys, got %v", got)
	}
}
