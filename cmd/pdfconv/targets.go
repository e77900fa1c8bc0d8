package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfconv/format"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the output formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-14s  %-6s  %s\n", "Target", "Ext", "MIME type")
		fmt.Fprintln(out, strings.Repeat("-", 96))
		for _, t := range format.Targets() {
			fmt.Fprintf(out, "%-14s  %-6s  %s\n", t, t.Extension(), t.MIMEType())
		}
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
