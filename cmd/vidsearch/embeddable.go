package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"artisthub/videosearch/internal/app"
	"artisthub/videosearch/internal/domain"
)

var embeddableCmd = &cobra.Command{
	Use:   "embeddable <id...>",
	Short: "Keep the ids that can be embedded, in input order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("max")
		concurrency, _ := cmd.Flags().GetInt("concurrency")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		cfg := app.LoadConfig()
		engine := app.BuildEngine(cfg, app.NewLogger(cfg))
		ids := engine.FilterEmbeddable(cmd.Context(), args, domain.FilterOptions{
			Max:         limit,
			Timeout:     timeout,
			Concurrency: concurrency,
		})
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	embeddableCmd.Flags().Int("max", 10, "maximum number of ids to return")
	embeddableCmd.Flags().Int("concurrency", 8, "parallel probes")
	embeddableCmd.Flags().Duration("timeout", 8*time.Second, "overall deadline for probing")

	rootCmd.AddCommand(embeddableCmd)
}
