package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glabrego/fotoflix-cli/internal/feed"
	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Pages  int
	Format string
}

// NewSearchCommand creates the search command. An empty query lists the
// latest photos instead.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Print photos matching a query",
		Long:  "Search Unsplash and print the merged results of the first N pages. Without a query the latest photos are listed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runSearch(cmd, opts, query)
		},
	}

	cmd.Flags().IntVarP(&opts.Pages, "pages", "n", 1, "number of pages to fetch")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "output format (text, json, yaml)")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *SearchOptions, query string) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	if opts.Pages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", opts.Pages)
	}

	ctx := commandContext(cmd)
	env, err := opts.open(ctx, true)
	if err != nil {
		return err
	}
	defer env.Close()

	photos, err := collectPages(ctx, feed.NewLoop(nil, env.service.Fetch, env.logger), strings.TrimSpace(query), opts.Pages)
	if err != nil {
		return err
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Photos(photos)
}

// collectPages runs loop until pages have been merged, a page comes back
// empty, or a fetch fails. Each further page is requested the way a reader
// reaching the end of the list would.
func collectPages(ctx context.Context, loop *feed.Loop, query string, pages int) ([]unsplash.Photo, error) {
	events := make(chan feed.Event, 1)
	events <- feed.SearchEvent{Query: query}

	var (
		items    []unsplash.Photo
		fetchErr error
		closed   bool
	)
	stop := func() {
		if !closed {
			closed = true
			close(events)
		}
	}

	err := loop.Run(ctx, events, func(s feed.Snapshot) {
		if s.Completed == nil || closed {
			return
		}
		if s.Err != nil {
			fetchErr = s.Err
			stop()
			return
		}
		grew := len(s.Items) > len(items)
		items = s.Items
		if s.Page >= pages || !grew {
			stop()
			return
		}
		events <- feed.AtBottom(len(s.Items))
	})
	if err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return items, nil
}
