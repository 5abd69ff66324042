package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"artisthub/videosearch/internal/app"
	"artisthub/videosearch/internal/domain"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search for long-form videos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("max")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		allowShort, _ := cmd.Flags().GetBool("allow-short")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg := app.LoadConfig()
		engine := app.BuildEngine(cfg, app.NewLogger(cfg))
		query := strings.Join(args, " ")
		result, err := engine.SearchLongform(cmd.Context(), query, domain.SearchOptions{
			Max:        limit,
			Timeout:    timeout,
			AllowShort: allowShort,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(map[string]any{"query": query, "items": result.IDs, "meta": result.Meta})
		}
		for i, id := range result.IDs {
			line := fmt.Sprintf("%2d. %s", i+1, id)
			if seconds, ok := result.Meta.Durations[id]; ok {
				line += "  " + (time.Duration(seconds) * time.Second).String()
			}
			if title := result.Meta.Titles[id]; title != "" {
				line += "  " + title
			}
			fmt.Fprintln(out, line)
		}
		if len(result.IDs) == 0 {
			fmt.Fprintln(out, "no results")
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("max", 10, "maximum number of ids to return")
	searchCmd.Flags().Duration("timeout", 12*time.Second, "overall deadline for the search")
	searchCmd.Flags().Bool("allow-short", false, "keep short videos in the final pass")
	searchCmd.Flags().Bool("json", false, "output the result and diagnostics as JSON")

	rootCmd.AddCommand(searchCmd)
}
