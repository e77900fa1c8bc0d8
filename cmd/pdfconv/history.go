package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfconv/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversions",
	Long: `History lists the conversions recorded with convert --history (or
history.enabled in the config file), newest first.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of records to list (0 for all)")
	historyCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No conversions recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-5s  %-19s  %-12s  %-11s  %-5s  %s\n", "ID", "Started", "Target", "Status", "Pages", "Source")
	fmt.Fprintln(out, strings.Repeat("-", 90))
	for _, r := range records {
		fmt.Fprintf(out, "%-5d  %-19s  %-12s  %-11s  %-5d  %s\n",
			r.ID, r.Started.Local().Format(time.DateTime), r.Target, r.Status, r.Pages, r.Source)
		if r.Error != "" {
			fmt.Fprintf(out, "       error: %s\n", r.Error)
		}
	}
	return nil
}
