package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/cartograph"
	"github.com/aretw0/cartograph/internal/config"
	"github.com/aretw0/cartograph/internal/logging"
	"github.com/aretw0/cartograph/internal/presentation/tui"
	"github.com/aretw0/cartograph/pkg/adapters/loam"
	"github.com/aretw0/cartograph/pkg/domain"
	"github.com/aretw0/cartograph/pkg/observability"
	"github.com/aretw0/cartograph/pkg/view"
)

// session bundles what every subcommand needs.
type session struct {
	cfg     config.Config
	logger  *slog.Logger
	editor  *cartograph.Editor
	metrics *observability.Metrics
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, path != "")
	if err != nil {
		return cfg, err
	}

	if v, _ := flags.GetString("lang"); v != "" {
		cfg.Language = v
	}
	if v, _ := flags.GetString("renderer"); v != "" {
		cfg.Preferences.Renderer = domain.RendererKind(v)
	}
	if flags.Changed("compact") {
		cfg.Preferences.Compact, _ = flags.GetBool("compact")
	}
	if v, _ := flags.GetString("examples"); v != "" {
		cfg.Examples = v
	}
	if v, _ := flags.GetString("policy"); v != "" {
		cfg.LoadPolicy = v
	}
	if v, _ := flags.GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// stdout is the terminal the interactive commands draw on.
var stdout = os.Stdout

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// newSession builds the editor from config and flags. interactive enables
// colour and glamour rendering when stdout is a terminal.
func newSession(cmd *cobra.Command, interactive bool) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, _ := cfg.Level()
	logger := logging.NewTo(os.Stderr, level, logging.Format(cfg.Log.Format))
	policy, _ := cfg.Policy()
	metrics := observability.NewMetrics()

	hooks := []domain.LifecycleHooks{metrics.Hooks()}
	if level <= slog.LevelDebug {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	opts := []cartograph.Option{
		cartograph.WithLogger(logger),
		cartograph.WithLifecycleHooks(observability.Compose(hooks...)),
		cartograph.WithLoadPolicy(policy),
		cartograph.WithLanguage(cfg.Language),
		cartograph.WithPreferences(cfg.Preferences),
	}

	if cfg.Examples != "" {
		catalog, err := loam.Open(cfg.Examples)
		if err != nil {
			return nil, fmt.Errorf("failed to open examples: %w", err)
		}
		opts = append(opts, cartograph.WithCatalog(catalog))
	}

	if interactive && isTerminal(stdout) {
		width := 80
		if w, _, err := term.GetSize(int(stdout.Fd())); err == nil && w > 0 {
			width = w
		}
		opts = append(opts,
			cartograph.WithGraphicalOptions(view.WithColorProfile(termenv.NewOutput(stdout).ColorProfile())),
			cartograph.WithPreviewOptions(view.WithMarkdown(tui.NewRenderer(width-4))),
		)
	}

	editor, err := cartograph.New(opts...)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: logger, editor: editor, metrics: metrics}
	if err := s.loadInitial(cmd.Context(), cmd); err != nil {
		return nil, err
	}
	return s, nil
}

// loadInitial applies --style and --data.
func (s *session) loadInitial(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	stylePath, _ := cmd.Flags().GetString("style")
	dataPath, _ := cmd.Flags().GetString("data")

	if stylePath != "" {
		in, err := tui.InputFor(domain.LoadStyle, stylePath)
		if err != nil {
			return err
		}
		if err := s.editor.LoadStyle(ctx, in); err != nil {
			return fmt.Errorf("failed to load style: %w", err)
		}
	}
	if dataPath != "" {
		in, err := tui.InputFor(domain.LoadData, dataPath)
		if err != nil {
			return err
		}
		if err := s.editor.LoadData(ctx, in); err != nil {
			return fmt.Errorf("failed to load data: %w", err)
		}
	}
	return nil
}
