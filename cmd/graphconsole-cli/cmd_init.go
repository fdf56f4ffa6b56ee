package main

import (
	"fmt"

	"github.com/persistorai/graphconsole/client"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Run a setup script in the console session",
		Long: `Run a semicolon-separated Cypher setup script. The script becomes the
session's init script and its query history is cleared. Use "-" to read the
script from stdin, and --reset to empty the database first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readInput(args[0])
			if err != nil {
				return fmt.Errorf("reading script: %w", err)
			}

			resp, err := apiClient.Console.Init(cmd.Context(), &client.InitRequest{
				Init:  string(script),
				Reset: reset,
			})
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}

			outputGraph(resp, resp.Graph)
			reportSession()
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete all data before running the script")
	return cmd
}
