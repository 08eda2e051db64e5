package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/matheuskafuri/subnews/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagSubreddit string
	flagConfig    string
	flagCheck     bool
)

var rootCmd = &cobra.Command{
	Use:   "subnews",
	Short: "Terminal reader for the newest posts of a subreddit",
	Long:  "subnews shows the newest posts of any subreddit in a single terminal view, with copy-to-clipboard for titles and post text.",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.Flags().StringVarP(&flagSubreddit, "subreddit", "s", "", "subreddit to open on launch (e.g., golang)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "subnews %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return
		}
		rel, err := update.NewChecker().Latest(context.Background())
		if err != nil {
			fmt.Fprintf(out, "update check failed: %v\n", err)
			return
		}
		if update.Newer(version, rel.Version) {
			fmt.Fprintf(out, "subnews %s is available: %s\n", rel.Version, rel.URL)
		} else {
			fmt.Fprintln(out, "You are on the latest release.")
		}
	},
}

func Execute() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
