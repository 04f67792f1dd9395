package cli

import (
	"github.com/spf13/cobra"

	"github.com/glabrego/fotoflix-cli/internal/session"
)

// NewSessionCommand creates the session command, which prints the session
// id favorites are stored under.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		fresh  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Print the current session id",
		Long:  "Print the session id favorites are scoped to. Use --new to mint an id for FOTOFLIX_SESSION or --session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			formatter := &OutputFormatter{Format: format, Writer: cmd.OutOrStdout()}
			if fresh {
				return formatter.Line("session", session.NewID())
			}
			cfg, err := rootOpts.resolveConfig()
			if err != nil {
				return err
			}
			return formatter.Line("session", session.ResolveID(cfg.SessionID))
		},
	}

	cmd.Flags().BoolVar(&fresh, "new", false, "print a freshly generated session id")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	return cmd
}
