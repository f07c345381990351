package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"Doodler/internal/state"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <recording>",
	Short: "Print the commands and events of a saved recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		events, _ := cmd.Flags().GetBool("events")
		return inspect(cmd.OutOrStdout(), strings.TrimSpace(string(data)), events)
	},
}

// inspect writes a summary of a document: its command table and, when
// events is set, every event with the command it resolves to.
func inspect(w io.Writer, s string, events bool) error {
	doc, err := state.ParseDocument(s)
	if err != nil {
		return err
	}

	lines, refs := 0, 0
	for _, ev := range doc.Recording.Events() {
		if ev.Type == state.EventLine {
			lines++
		} else {
			refs++
		}
	}
	fmt.Fprintf(w, "Commands: %d\n", doc.Table.Len())
	fmt.Fprintf(w, "Events:   %d (%d lines, %d commands)\n", doc.Recording.Len(), lines, refs)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nINDEX\tKIND\tVALUE")
	for i, cmd := range doc.Table.Commands() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, cmd.Kind, cmd.Value)
	}
	if events {
		fmt.Fprintln(tw, "\n#\tEVENT\tDETAIL")
		for i, ev := range doc.Recording.Events() {
			detail := ""
			if ev.Type == state.EventCommand {
				if cmd, err := doc.Resolve(ev); err == nil {
					detail = fmt.Sprintf("%s %s", cmd.Kind, cmd.Value)
				} else {
					detail = "unresolved"
				}
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i, ev, detail)
		}
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolP("events", "e", false, "List every event")
}
