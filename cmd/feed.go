package cmd

import (
	"errors"
	"fmt"

	"feedsync/core/utils"
	"feedsync/feature/feeds"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var refreshAll bool

// feedCmd groups the feed subcommands
var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Register, refresh and preview feeds",
}

var feedRegisterCmd = &cobra.Command{
	Use:   "register [url]",
	Short: "Fetch a feed and store it with its articles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer d.close()

		svc := feeds.NewFeature(d.db, d.fetcher, d.metrics, d.logger).Service()
		res, err := svc.Register(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println("\n--- Feed Registered ---")
		fmt.Printf("Feed ID:        %d\n", res.FeedID)
		fmt.Printf("New Articles:   %d\n", len(res.Articles))
		for _, a := range res.Articles {
			fmt.Printf("  - %s (%s)\n", a.Title, a.Link)
		}
		fmt.Println("-----------------------")
		return nil
	},
}

var feedRefreshCmd = &cobra.Command{
	Use:   "refresh [id...]",
	Short: "Re-fetch stored feeds",
	Long:  `Re-fetches the given feeds, or every stored feed with --all. Runs once and exits.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if refreshAll && len(args) > 0 {
			return errors.New("pass feed ids or --all, not both")
		}
		if !refreshAll && len(args) == 0 {
			return errors.New("pass at least one feed id or --all")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := utils.ParseIDs(args)
		if err != nil {
			return err
		}

		d, err := bootstrap(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer d.close()

		svc := feeds.NewFeature(d.db, d.fetcher, d.metrics, d.logger).Service()

		if refreshAll {
			outcomes, err := svc.RefreshAll(cmd.Context())
			if err != nil {
				return err
			}
			failed := 0
			fmt.Println("\n--- Refresh Summary ---")
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					fmt.Printf("#%-6d %-50s FAILED: %v\n", o.FeedID, o.XMLURL, o.Err)
					continue
				}
				fmt.Printf("#%-6d %-50s +%d\n", o.FeedID, o.XMLURL, o.Created)
			}
			fmt.Printf("Feeds: %d, failed: %d\n", len(outcomes), failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d feeds failed to refresh", failed, len(outcomes))
			}
			return nil
		}

		var failed int
		for _, id := range ids {
			res, err := svc.Refresh(cmd.Context(), id)
			if err != nil {
				failed++
				d.logger.Error("Refresh failed", zap.Uint("feed_id", id), zap.Error(err))
				continue
			}
			fmt.Printf("#%-6d %-40s %d articles\n", id, res.Feed.Title, len(res.Articles))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d feeds failed to refresh", failed, len(ids))
		}
		return nil
	},
}

var feedPreviewCmd = &cobra.Command{
	Use:   "preview [url]",
	Short: "Fetch and print a feed without storing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer d.close()

		svc := feeds.NewFeature(d.db, d.fetcher, d.metrics, d.logger).Service()
		doc, err := svc.Preview(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Println("\n--- Feed Preview ---")
		fmt.Printf("Title:          %s\n", doc.Meta.Title)
		fmt.Printf("Link:           %s\n", doc.Meta.Link)
		fmt.Printf("Self Link:      %s\n", doc.Meta.XMLURL)
		fmt.Printf("Language:       %s\n", doc.Meta.Language)
		fmt.Printf("Items:          %d\n", len(doc.Items))
		for _, item := range doc.Items {
			fmt.Printf("  - %s (%s)\n", item.Title, item.Link)
		}
		if doc.Meta.XMLURL == "" {
			fmt.Println("Warning: no self link, this feed cannot be registered")
		}
		fmt.Println("--------------------")
		return nil
	},
}

func init() {
	feedRefreshCmd.Flags().BoolVar(&refreshAll, "all", false, "Refresh every stored feed")
	feedCmd.AddCommand(feedRegisterCmd, feedRefreshCmd, feedPreviewCmd)
	RootCmd.AddCommand(feedCmd)
}
