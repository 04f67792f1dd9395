package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// FavoritesOptions holds flags for the favorites commands.
type FavoritesOptions struct {
	*RootOptions
	Format string
}

// NewFavoritesCommand creates the favorites command, which prints the
// current session's favorites.
func NewFavoritesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FavoritesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Print the favorites of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFavoritesList(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "output format (text, json, yaml)")

	cmd.AddCommand(newFavoritesClearCommand(rootOpts))
	return cmd
}

func newFavoritesClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every favorite of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			env, err := rootOpts.open(ctx, false)
			if err != nil {
				return err
			}
			defer env.Close()

			before := env.service.LoadFavorites(ctx).Len()
			env.service.ClearFavorites(ctx)
			env.logger.Info("favorites cleared", "session", env.sessionID, "removed", before)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d favorites from session %s\n", before, env.sessionID)
			return err
		},
	}
}

func runFavoritesList(cmd *cobra.Command, opts *FavoritesOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}
	ctx := commandContext(cmd)
	env, err := opts.open(ctx, false)
	if err != nil {
		return err
	}
	defer env.Close()

	set := env.service.LoadFavorites(ctx)
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Photos(set.Photos())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
