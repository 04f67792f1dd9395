package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/glabrego/fotoflix-cli/internal/app"
	"github.com/glabrego/fotoflix-cli/internal/config"
	"github.com/glabrego/fotoflix-cli/internal/favorites"
	"github.com/glabrego/fotoflix-cli/internal/logging"
	"github.com/glabrego/fotoflix-cli/internal/session"
	"github.com/glabrego/fotoflix-cli/internal/tui"
	"github.com/glabrego/fotoflix-cli/internal/unsplash"
)

const setupTimeout = 15 * time.Second

// RootOptions holds global flags for all commands.
type RootOptions struct {
	SessionID string
	DBPath    string
	EnvFile   string

	// loadConfig is replaced in tests.
	loadConfig func() (config.Config, error)
}

// NewRootCommand creates the root command. Without a subcommand it starts
// the photo browser.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{loadConfig: config.LoadFromEnv})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fotoflix",
		Short:         "Browse Unsplash photos from the terminal",
		Long:          "Fotoflix browses the latest Unsplash photos, searches them and keeps per-session favorites.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(opts.EnvFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.SessionID, "session", "", "session id (default: FOTOFLIX_SESSION or the terminal session)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "sqlite database path (default: FOTOFLIX_DB_PATH)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))

	return cmd
}

// loadEnvFile applies path to the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// resolveConfig resolves the configuration and applies flag overrides.
func (o *RootOptions) resolveConfig() (config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.SessionID != "" {
		cfg.SessionID = o.SessionID
	}
	return cfg, nil
}

// environment is everything a command needs once configuration is loaded.
type environment struct {
	cfg       config.Config
	logger    *log.Logger
	repo      *session.Repository
	sessionID string
	service   *app.Service
	closers   []io.Closer
}

func (e *environment) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// open sets up logging, storage and the service. needAPI additionally
// validates the Unsplash settings.
func (o *RootOptions) open(ctx context.Context, needAPI bool) (*environment, error) {
	cfg, err := o.resolveConfig()
	if err != nil {
		return nil, err
	}
	if needAPI {
		if err := cfg.ValidateAPI(); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	logger, logCloser, err := logging.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logging init error: %w", err)
	}
	env := &environment{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	repo, err := session.NewRepository(cfg.DBPath)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	env.repo = repo
	env.closers = append(env.closers, repo)

	setupCtx, cancel := context.WithTimeout(ctx, setupTimeout)
	defer cancel()

	if err := repo.Init(setupCtx); err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(setupCtx); err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("storage write check failed (%v). Verify FOTOFLIX_DB_PATH is writable: %s", err, cfg.DBPath)
	}
	if cfg.SessionTTL > 0 {
		purged, err := repo.PurgeIdle(setupCtx, cfg.SessionTTL)
		if err != nil {
			logger.Warn("could not purge idle sessions", "ttl", cfg.SessionTTL, "err", err)
		} else if purged > 0 {
			logger.Info("purged idle sessions", "rows", purged, "ttl", cfg.SessionTTL)
		}
	}

	env.sessionID = session.ResolveID(cfg.SessionID)
	store := favorites.NewStore(repo.Scope(env.sessionID), favorites.DefaultKey, logger)

	var client app.PhotoClient
	if needAPI {
		client = unsplash.NewClient(cfg.APIBaseURL, cfg.AccessKey, cfg.PerPage, nil)
	}
	env.service = app.NewService(client, store)
	logger.Debug("environment ready", "session", env.sessionID, "db", cfg.DBPath, "api", needAPI)
	return env, nil
}

func runBrowse(ctx context.Context, opts *RootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := opts.open(ctx, true)
	if err != nil {
		return err
	}
	defer env.Close()

	model := tui.NewModel(env.service, tui.Options{
		Logger:             env.logger,
		InlineImagePreview: env.cfg.InlineImagePreview,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		env.logger.Error("tui exited with error", "err", err)
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
