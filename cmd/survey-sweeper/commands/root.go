// Package commands implements the survey-sweeper CLI.
package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rflorenc/survey-sweeper/internal/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "survey-sweeper",
	Short: "Remove debug leftovers from an ArcGIS portal",
	Long: `survey-sweeper signs in to an ArcGIS portal and removes what form
development leaves behind: debug-tagged forms and their linked items,
Survey123 feature services whose form is gone, and empty folders.

Credentials come from a YAML config file, a .env file (USER, PASSWORD,
PORTAL) and the environment (PASSWORD, PORTAL, or the SWEEPER_ prefixed
forms). The shell's own USER is only used when no username is set
anywhere else; export SWEEPER_USER to override the file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			return nil
		}
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		zerolog.SetGlobalLevel(lvl)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (YAML)")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("portal", "", "Portal base URL, e.g. https://www.arcgis.com")
	flags.String("username", "", "Portal username")
	flags.String("debug-tag", "", "Typekeyword that marks debug forms")
	flags.Duration("timeout", 0, "Per-request timeout")
	flags.Int("token-expiration", 0, "Token lifetime in minutes")
	flags.Bool("insecure", false, "Skip TLS verification")
	flags.Bool("dry-run", false, "Log what would be removed without removing it")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig reads the config file and environment, then applies any flags
// the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && !cmd.Flags().Changed("log-level") {
		zerolog.SetGlobalLevel(lvl)
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("portal") {
		cfg.Portal, _ = f.GetString("portal")
	}
	if f.Changed("username") {
		cfg.Username, _ = f.GetString("username")
	}
	if f.Changed("debug-tag") {
		cfg.DebugTag, _ = f.GetString("debug-tag")
	}
	if f.Changed("timeout") {
		cfg.Timeout, _ = f.GetDuration("timeout")
	}
	if f.Changed("token-expiration") {
		cfg.TokenExpiration, _ = f.GetInt("token-expiration")
	}
	if f.Changed("insecure") {
		cfg.Insecure, _ = f.GetBool("insecure")
	}
	if f.Changed("dry-run") {
		cfg.DryRun, _ = f.GetBool("dry-run")
	}
	if f.Lookup("no-forms") != nil && f.Changed("no-forms") {
		cfg.Sweeps.Forms = false
	}
	if f.Lookup("no-orphan-services") != nil && f.Changed("no-orphan-services") {
		cfg.Sweeps.OrphanServices = false
	}
	if f.Lookup("no-empty-folders") != nil && f.Changed("no-empty-folders") {
		cfg.Sweeps.EmptyFolders = false
	}
}
