package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check server health and readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			health, err := apiClient.Health(ctx)
			if err != nil {
				return fmt.Errorf("server unreachable at %s: %w", flagURL, err)
			}

			ready, readyErr := apiClient.Ready(ctx)

			switch flagFmt {
			case "json":
				formatJSON(map[string]any{"health": health, "ready": ready})
			case "quiet":
				formatQuiet(health.Status)
			default:
				fmt.Printf("Server:   %s (v%s, schema %d)\n", flagURL, health.Version, health.SchemaVersion)
				fmt.Printf("Sessions: %d, websocket clients: %d\n", health.Sessions, health.Clients)
				fmt.Printf("Uptime:   %.0fs\n\n", health.UptimeSeconds)
				if ready != nil {
					rows := make([][]string, 0, len(ready.Checks))
					names := make([]string, 0, len(ready.Checks))
					for name := range ready.Checks {
						names = append(names, name)
					}
					sort.Strings(names)
					for _, name := range names {
						rows = append(rows, []string{name, ready.Checks[name]})
					}
					formatTable([]string{"CHECK", "STATUS"}, rows)
				}
			}

			if readyErr != nil {
				return fmt.Errorf("server not ready: %w", readyErr)
			}
			return nil
		},
	}
}
