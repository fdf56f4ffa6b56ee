package main

import (
	"fmt"

	"github.com/persistorai/graphconsole/client"
	"github.com/spf13/cobra"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share and restore console graphs",
	}
	cmd.AddCommand(shareCreateCmd())
	cmd.AddCommand(shareGetCmd())
	cmd.AddCommand(shareUpdateCmd())
	cmd.AddCommand(shareDeleteCmd())
	cmd.AddCommand(shareReplayCmd())
	return cmd
}

func shareCreateCmd() *cobra.Command {
	var (
		id      string
		message string
		noRoot  bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Save the session's init script and query history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := apiClient.Shares.Create(cmd.Context(), &client.ShareRequest{
				ID:      id,
				Message: message,
				NoRoot:  noRoot,
			})
			if err != nil {
				if client.IsConflict(err) {
					return fmt.Errorf("share id %q is already taken", id)
				}
				return fmt.Errorf("share: %w", err)
			}

			output(info, info.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Share id (generated when empty)")
	cmd.Flags().StringVar(&message, "message", "", "Message shown with the shared graph")
	cmd.Flags().BoolVar(&noRoot, "no-root", false, "Replay without the reference root node")
	return cmd
}

func shareGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a shared graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := apiClient.Shares.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get share: %w", err)
			}

			if flagFmt == "table" {
				formatTable([]string{"ID", "VERSION", "NO ROOT", "UPDATED", "MESSAGE"}, [][]string{{
					info.ID, info.Version, fmt.Sprint(info.NoRoot),
					info.UpdatedAt.Format("2006-01-02 15:04"), info.Message,
				}})
				return nil
			}

			output(info, info.ID)
			return nil
		},
	}
}

func shareUpdateCmd() *cobra.Command {
	var (
		message   string
		initFile  string
		queryFile string
		noRoot    bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a shared graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &client.UpdateGraphRequest{}

			if cmd.Flags().Changed("message") {
				req.Message = &message
			}
			if cmd.Flags().Changed("no-root") {
				req.NoRoot = &noRoot
			}
			if initFile != "" {
				raw, err := readInput(initFile)
				if err != nil {
					return fmt.Errorf("reading init script: %w", err)
				}
				s := string(raw)
				req.Init = &s
			}
			if queryFile != "" {
				raw, err := readInput(queryFile)
				if err != nil {
					return fmt.Errorf("reading queries: %w", err)
				}
				s := string(raw)
				req.Query = &s
			}

			if req.Message == nil && req.NoRoot == nil && req.Init == nil && req.Query == nil {
				return fmt.Errorf("nothing to update: set --message, --no-root, --init or --query")
			}

			info, err := apiClient.Shares.Update(cmd.Context(), args[0], req)
			if err != nil {
				return fmt.Errorf("update share: %w", err)
			}

			output(info, info.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "New message")
	cmd.Flags().StringVar(&initFile, "init", "", "File with the new init script")
	cmd.Flags().StringVar(&queryFile, "query", "", "File with the new query script")
	cmd.Flags().BoolVar(&noRoot, "no-root", false, "Replay without the reference root node")
	return cmd
}

func shareDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a shared graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Shares.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete share: %w", err)
			}

			output(map[string]string{"deleted": args[0]}, args[0])
			return nil
		},
	}
}

func shareReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <id>",
		Short: "Restore a shared graph into the console session",
		Long: `Reset the database, run the shared init script, then run every saved
query. The session continues from the restored state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.Shares.Replay(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			outputQuery(resp)
			reportSession()
			return nil
		},
	}
}
