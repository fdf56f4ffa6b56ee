package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/persistorai/graphconsole/client"
	"github.com/spf13/cobra"
)

func newQueryCmd() *cobra.Command {
	var (
		selectQuery string
		params      []string
	)

	cmd := &cobra.Command{
		Use:   "query <cypher>",
		Short: "Run a Cypher statement in the console session",
		Long: `Run a Cypher statement and print its result table and the
accumulated session graph. Use "-" to read the statement from stdin.

Parameters are passed as --param name=value; numbers, booleans and JSON
arrays or objects are decoded, anything else is sent as a string.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			if query == "-" {
				raw, err := readInput("-")
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				query = string(raw)
			}

			p, err := parseParams(params)
			if err != nil {
				return err
			}

			resp, err := apiClient.Console.Query(cmd.Context(), &client.QueryRequest{
				Query:  query,
				Select: selectQuery,
				Params: p,
			})
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}

			outputQuery(resp)
			reportSession()
			return nil
		},
	}
	cmd.Flags().StringVar(&selectQuery, "select", "", "Cypher whose results are highlighted in the graph")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Query parameter as name=value (repeatable)")
	return cmd
}

func newGraphCmd() *cobra.Command {
	var selectQuery string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the whole database as a graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.Console.Graph(cmd.Context(), selectQuery)
			if err != nil {
				return fmt.Errorf("graph: %w", err)
			}

			outputGraph(resp, resp.Graph)
			reportSession()
			return nil
		},
	}
	cmd.Flags().StringVar(&selectQuery, "select", "", "Cypher whose results are highlighted in the graph")
	return cmd
}

func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", pair)
		}
		params[name] = parseParamValue(raw)
	}
	return params, nil
}

func parseParamValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{") {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}
