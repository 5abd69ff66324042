package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"artisthub/videosearch/internal/ranking"
)

var intentCmd = &cobra.Command{
	Use:   "intent <query...>",
	Short: "Report whether a query asks for long-form content",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		q := ranking.NewQueryContext(query)
		fmt.Fprintf(cmd.OutOrStdout(), "longform=%t core=%q script=%s\n", q.Longform, q.Core, q.Script)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(intentCmd)
}
