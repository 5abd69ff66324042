// Command vidsearch runs long-form video searches from the terminal using the
// same environment configuration as the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vidsearch",
	Short: "Find playable long-form videos",
	Long: `vidsearch resolves a free-text query into an ordered list of embeddable
video ids, preferring complete long-form content over trailers and clips.

Collaborator endpoints are read from the environment (SEARCH_API_BASE_URL,
SEARCH_HTML_ENDPOINT, EMBED_PROBE_ENDPOINT and friends).`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
