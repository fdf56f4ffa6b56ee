package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/persistorai/graphconsole/client"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(v string) {
	if v != "" {
		fmt.Println(v)
	}
}

func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	default:
		formatJSON(v)
	}
}

// cellString renders a result cell on one line. Strings print bare,
// everything else as compact JSON.
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Sprint(c)
		}
		return string(b)
	}
}

// outputQuery prints a query response in the selected format. The table
// format shows the result rows; quiet prints only the row count.
func outputQuery(resp *client.QueryResponse) {
	switch flagFmt {
	case "table":
		rows := make([][]string, len(resp.Rows))
		for i, row := range resp.Rows {
			cells := make([]string, len(row))
			for j, c := range row {
				cells[j] = cellString(c)
			}
			rows[i] = cells
		}
		formatTable(resp.Columns, rows)
		fmt.Printf("\n%d rows, %d nodes, %d relationships in graph (%d ms)\n",
			len(resp.Rows), graphNodes(resp.Graph), graphRelationships(resp.Graph), resp.TimeMS)
	case "quiet":
		fmt.Println(len(resp.Rows))
	default:
		formatJSON(resp)
	}
}

// outputGraph prints a visualization snapshot. The table format lists the
// nodes and relationships of the graph.
func outputGraph(v any, g *client.Snapshot) {
	if flagFmt != "table" {
		output(v, fmt.Sprint(graphNodes(g)))
		return
	}

	if g == nil {
		fmt.Println("(empty graph)")
		return
	}

	nodes := make([][]string, 0, len(g.Nodes))
	for _, id := range sortedKeys(g.Nodes) {
		n := g.Nodes[id]
		nodes = append(nodes, []string{id, cellString(n["labels"]), propsString(n, "id", "labels", "selected")})
	}
	formatTable([]string{"ID", "LABELS", "PROPERTIES"}, nodes)
	fmt.Println()

	rels := make([][]string, 0, len(g.Relationships))
	for _, id := range sortedKeys(g.Relationships) {
		r := g.Relationships[id]
		rels = append(rels, []string{
			id, cellString(r["type"]), cellString(r["start"]), cellString(r["end"]),
			propsString(r, "id", "type", "start", "end", "source", "target", "selected"),
		})
	}
	formatTable([]string{"ID", "TYPE", "START", "END", "PROPERTIES"}, rels)
}

func propsString(m map[string]any, reserved ...string) string {
	props := make(map[string]any, len(m))
	for k, v := range m {
		props[k] = v
	}
	for _, k := range reserved {
		delete(props, k)
	}
	if len(props) == 0 {
		return ""
	}
	return cellString(props)
}

func graphNodes(g *client.Snapshot) int {
	if g == nil {
		return 0
	}
	return len(g.Nodes)
}

func graphRelationships(g *client.Snapshot) int {
	if g == nil {
		return 0
	}
	return len(g.Relationships)
}

// sortedKeys orders snapshot keys numerically, falling back to string order
// for keys that are not decimal ids.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ai, aerr := strconv.ParseInt(a, 10, 64)
		bi, berr := strconv.ParseInt(b, 10, 64)
		if aerr == nil && berr == nil {
			return cmp.Compare(ai, bi)
		}
		return strings.Compare(a, b)
	})
	return keys
}
