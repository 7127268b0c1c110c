// Command clipvaultctl is the CLI/TUI client for a running clipvaultd:
// it never touches the store directly, only the daemon's HTTP API, the
// same surface a front-end shell would use.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipvault/clipvault/internal/history"
)

var port int

func main() {
	root := &cobra.Command{
		Use:   "clipvaultctl",
		Short: "Search, paste, and browse ClipVault history from a running daemon",
	}
	root.PersistentFlags().IntVar(&port, "port", 7417, "clipvaultd HTTP/websocket API port")

	root.AddCommand(newSearchCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newPasteCmd())
	root.AddCommand(newTUICmd())
	root.AddCommand(newStatusCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the clipvaultd daemon is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := newAPIClient(port).status()
			if err != nil {
				return err
			}
			fmt.Println(status)
			return nil
		},
	}
}

func newSearchCmd() *cobra.Command {
	var limit int
	var kinds string
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search clipboard history by substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := listQuery{Search: args[0], Limit: limit}
			if kinds != "" {
				q.Kinds = strings.Split(kinds, ",")
			}
			records, err := newAPIClient(port).listHistory(q)
			if err != nil {
				return err
			}
			printHistoryTable(records)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum records to print")
	cmd.Flags().StringVar(&kinds, "kinds", "", "comma-separated content kinds (text,code,link,video,image,audio,emoji,secret)")
	return cmd
}

func newListCmd() *cobra.Command {
	var limit int
	var offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent clipboard history records",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := newAPIClient(port).listHistory(listQuery{Limit: limit, Offset: offset})
			if err != nil {
				return err
			}
			printHistoryTable(records)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum records to print")
	cmd.Flags().IntVar(&offset, "offset", 0, "records to skip")
	return cmd
}

func newPasteCmd() *cobra.Command {
	var auto bool
	var clip bool
	cmd := &cobra.Command{
		Use:   "paste <record-id>",
		Short: "Paste a history record (or, with --clip, a saved clip) onto the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient(port)
			if clip {
				return c.pasteClip(args[0], auto)
			}
			return c.pasteHistory(args[0], auto)
		},
	}
	cmd.Flags().BoolVar(&auto, "auto-paste", false, "also synthesize the paste keystroke")
	cmd.Flags().BoolVar(&clip, "clip", false, "treat the id as a saved clip (Item) instead of a history record")
	return cmd
}

func printHistoryTable(records []history.Projection) {
	for _, r := range records {
		fmt.Printf("%s  %-6s %s\n", r.ID, r.Kind, r.ValuePreview)
	}
}
