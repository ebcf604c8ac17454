package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docflow-ai/docflow-go/internal/config"
	"github.com/docflow-ai/docflow-go/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	var (
		validate bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or validate docflow configuration",
		Long: `Display the effective configuration after merging defaults with docflow.yaml.

Examples:
    docflow config                     # Show current config
    docflow config --validate          # Check config paths
    docflow config --format yaml       # Output as YAML
    docflow config init                # Write a default docflow.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if validate {
				return validateConfig(cmd, a)
			}
			switch format {
			case "json":
				return displayConfigJSON(cmd, a.cfg)
			case "yaml":
				return displayConfigYAML(cmd, a.cfg)
			default:
				displayConfigTerminal(cmd, a)
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "validate configuration and check paths")
	cmd.Flags().StringVar(&format, "format", "terminal", "output format: terminal, yaml, json")

	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default docflow.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path := filepath.Join(dir, "docflow.yaml")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			cmd.Printf("%s Created %s\n", output.Checkmark(true), path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func validateConfig(cmd *cobra.Command, a *app) error {
	width := 80
	cmd.Println(output.Header("Configuration Validation", width))
	cmd.Println()

	var errs, warnings []string
	pass := output.Color("[PASS]", output.Green)

	configPath := a.cfgFile
	if configPath == "" {
		configPath, _ = config.FindConfig(a.baseDir)
	}
	if configPath == "" {
		warnings = append(warnings, "Config file not found (using defaults)")
	} else {
		cmd.Printf("  %s Config file: %s\n", pass, configPath)
	}

	if seedPath := a.cfg.SeedPath(a.baseDir); seedPath == "" {
		cmd.Printf("  %s Seed: built-in sample data\n", pass)
	} else if _, err := os.Stat(seedPath); err != nil {
		errs = append(errs, fmt.Sprintf("Seed not found: %s", seedPath))
	} else {
		cmd.Printf("  %s Seed: %s\n", pass, seedPath)
	}

	exportDir := a.cfg.ExportPath(a.baseDir)
	if info, err := os.Stat(exportDir); err == nil && !info.IsDir() {
		errs = append(errs, fmt.Sprintf("Export path is not a directory: %s", exportDir))
	} else if err != nil {
		warnings = append(warnings, fmt.Sprintf("Export directory will be created: %s", exportDir))
	} else {
		cmd.Printf("  %s Export dir: %s\n", pass, exportDir)
	}

	backend := a.cfg.Docflow.Backend
	if backend.Kind == config.BackendHTTP && os.Getenv(backend.TokenEnv) == "" {
		warnings = append(warnings, fmt.Sprintf("%s is not set; backend requests are unauthenticated", backend.TokenEnv))
	} else {
		cmd.Printf("  %s Backend: %s\n", pass, backend.Kind)
	}

	cmd.Println()
	for _, e := range errs {
		cmd.Printf("  %s %s\n", output.Color("[FAIL]", output.Red), e)
	}
	for _, w := range warnings {
		cmd.Printf("  %s %s\n", output.Color("[WARN]", output.Yellow), w)
	}
	cmd.Println()

	switch {
	case len(errs) > 0:
		cmd.Printf("Status: %s\n", output.Color("INVALID", output.Red))
		return NewExitError(ExitFailure, "configuration validation failed")
	case len(warnings) > 0:
		cmd.Printf("Status: %s\n", output.Color("VALID (with warnings)", output.Yellow))
	default:
		cmd.Printf("Status: %s\n", output.Color("VALID", output.Green))
	}
	return nil
}

func displayConfigJSON(cmd *cobra.Command, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg.Docflow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func displayConfigYAML(cmd *cobra.Command, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func displayConfigTerminal(cmd *cobra.Command, a *app) {
	width := 80
	d := a.cfg.Docflow
	cmd.Println(output.Header("docflow Configuration", width))
	cmd.Println()

	configPath := a.cfgFile
	if configPath == "" {
		configPath, _ = config.FindConfig(a.baseDir)
	}
	if configPath == "" {
		configPath = "(defaults)"
	}
	seed := a.cfg.SeedPath(a.baseDir)
	if seed == "" {
		seed = "(built-in sample data)"
	}

	cmd.Println("Paths:")
	cmd.Printf("  Config file: %s\n", configPath)
	cmd.Printf("  Seed:        %s\n", seed)
	cmd.Printf("  Export dir:  %s\n", a.cfg.ExportPath(a.baseDir))
	cmd.Println()

	cmd.Println("Reviewer:")
	cmd.Printf("  Name: %s\n", d.Reviewer.Name)
	cmd.Printf("  Role: %s\n", d.Reviewer.Role)
	cmd.Println()

	cmd.Println("Review:")
	cmd.Printf("  Submit latency:     %s\n", d.Review.SubmitLatency)
	cmd.Printf("  Banner duration:    %s\n", d.Review.BannerDuration)
	cmd.Printf("  Max comment length: %d\n", d.Review.MaxCommentLength)
	cmd.Println()

	cmd.Println("Backend:")
	cmd.Printf("  Kind: %s\n", d.Backend.Kind)
	if d.Backend.URL != "" {
		cmd.Printf("  URL:  %s\n", d.Backend.URL)
	}
	cmd.Println()

	cmd.Printf("Log: %s (%s)\n", d.Log.Level, d.Log.Format)
	cmd.Printf("Metrics: %v\n", d.Metrics.Enabled)
}
