package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/matheuskafuri/subnews/internal/config"
	"github.com/matheuskafuri/subnews/internal/reddit"
	"github.com/spf13/cobra"
)

var flagFetchLimit int

var fetchCmd = &cobra.Command{
	Use:          "fetch NAME",
	Short:        "Print the newest posts of a subreddit and exit",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if flagFetchLimit > 0 {
			cfg.Limit = flagFetchLimit
		}

		fetcher, err := newFetcher(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		posts, err := fetcher.Fetch(ctx, args[0])
		if err != nil {
			name, _ := reddit.NormalizeSubreddit(args[0])
			return errors.New(reddit.Message(err, name))
		}
		printPosts(cmd.OutOrStdout(), posts)
		return nil
	},
}

func init() {
	fetchCmd.Flags().IntVarP(&flagFetchLimit, "limit", "n", 0, "maximum number of posts (1-100)")
}

func printPosts(w io.Writer, posts []reddit.Post) {
	for i, p := range posts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", p.Title)
		fmt.Fprintf(w, "  ▲ %d · %d comments · u/%s\n", p.Ups, p.NumComments, p.Author)
		fmt.Fprintf(w, "  %s\n", p.Link())
	}
}
