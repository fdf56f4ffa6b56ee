package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newRestCmd() *cobra.Command {
	var fullRow bool

	cmd := &cobra.Command{
		Use:   "rest <file>",
		Short: "Project a REST-style Cypher result into a graph",
		Long: `Convert a legacy REST Cypher result ({"columns": [...], "data": [...]})
into a visualization graph. Only the first column is read unless --full-row
is set. Use "-" to read the payload from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readJSONInput(args[0])
			if err != nil {
				return err
			}

			resp, err := apiClient.Console.Rest(cmd.Context(), raw, fullRow)
			if err != nil {
				return fmt.Errorf("rest: %w", err)
			}

			outputGraph(resp, resp.Graph)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fullRow, "full-row", false, "Project every column of each row")
	return cmd
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Recreate a graph snapshot in the database",
		Long: `Create every node and relationship of a visualization snapshot as new
database entities. Importing the same snapshot twice creates it twice.
Use "-" to read the snapshot from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readJSONInput(args[0])
			if err != nil {
				return err
			}

			result, err := apiClient.Console.Import(cmd.Context(), raw)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			output(result, fmt.Sprintf("%d %d", result.NodesCreated, result.RelationshipsCreated))
			reportSession()
			return nil
		},
	}
}

func readJSONInput(path string) (json.RawMessage, error) {
	raw, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s: not valid JSON", path)
	}
	return raw, nil
}
