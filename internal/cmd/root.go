// Package cmd provides the CLI commands for docflow.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docflow-ai/docflow-go/internal/adapters"
	"github.com/docflow-ai/docflow-go/internal/config"
	"github.com/docflow-ai/docflow-go/internal/metrics"
	"github.com/docflow-ai/docflow-go/internal/output"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"
	// Commit is set at build time via ldflags.
	Commit = "none"
	// Date is set at build time via ldflags.
	Date = "unknown"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile string
	noColor bool

	cfg     *config.Config
	baseDir string
	logger  *zap.Logger
	metrics *metrics.Recorder

	// newBackend builds the effect backend; tests replace it.
	newBackend func(cfg *config.Config, logger *zap.Logger) (adapters.Backend, error)
}

func defaultBackend(cfg *config.Config, logger *zap.Logger) (adapters.Backend, error) {
	return adapters.New(cfg, logger)
}

// Execute runs the docflow command tree until it finishes or ctx is done.
// This is called by main.main().
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the docflow command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{newBackend: defaultBackend})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "docflow",
		Short: "TPA document-compliance portal",
		Long: `docflow manages sponsor organizations, document requirements and
document reviews for a third-party administrator.

Every screen keeps its records in memory for the length of one invocation.
Use "docflow session" to script several steps against the same state.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: .docflow/config.yaml or docflow.yaml)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newVersionCmd(),
		newConfigCmd(a),
		newSponsorsCmd(a),
		newRequirementsCmd(a),
		newDashboardCmd(a),
		newReviewCmd(a),
		newSessionCmd(a),
		newCheckCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger and metrics recorder.
func (a *app) setup(cmd *cobra.Command) error {
	if a.noColor {
		output.DisableColor()
	}

	cfg, baseDir, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.baseDir = baseDir

	logger, err := newLogger(cfg.Docflow.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger

	if cfg.Docflow.Metrics.Enabled {
		a.metrics = metrics.New()
	}
	return nil
}

// loadConfig reads --config when given, otherwise searches upward from the
// working directory. Relative paths in the config resolve against the
// project directory.
func (a *app) loadConfig() (*config.Config, string, error) {
	if a.cfgFile != "" {
		cfg, err := config.Load(a.cfgFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, projectDir(a.cfgFile), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}
	path, err := config.FindConfig(cwd)
	if err != nil {
		return config.DefaultConfig(), cwd, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, projectDir(path), nil
}

// projectDir returns the directory a config file belongs to. Files inside
// .docflow/ belong to its parent.
func projectDir(configPath string) string {
	dir := filepath.Dir(configPath)
	if filepath.Base(dir) == ".docflow" {
		return filepath.Dir(dir)
	}
	return dir
}
