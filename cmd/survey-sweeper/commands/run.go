package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rflorenc/survey-sweeper/internal/config"
	"github.com/rflorenc/survey-sweeper/internal/portal"
	"github.com/rflorenc/survey-sweeper/internal/sweep"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Remove debug forms, orphaned services and empty folders",
	Long: `Run signs in, then runs three sweeps in order:

  forms             debug-tagged forms and their service, view,
                    fieldworker and stakeholder items
  orphan-services   survey123_<formId> services whose form is gone
  empty-folders     folders with no items

A sweep that fails is reported and the run moves on. Only a failed
sign-in stops the run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := newSweeper(ctx, cfg)
		if err != nil {
			return err
		}
		report, err := s.Run(ctx)
		if report != nil {
			if perr := printReport(cmd.OutOrStdout(), report); perr != nil && err == nil {
				err = perr
			}
		}
		return err
	},
}

func init() {
	runCmd.Flags().Bool("no-forms", false, "Skip the debug form sweep")
	runCmd.Flags().Bool("no-orphan-services", false, "Skip the orphan service sweep")
	runCmd.Flags().Bool("no-empty-folders", false, "Skip the empty folder sweep")
}

// newSweeper signs in and returns a Sweeper bound to the session.
func newSweeper(ctx context.Context, cfg *config.Config) (*sweep.Sweeper, error) {
	client, err := portal.Login(ctx, cfg.Session(), portalOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("signing in to %s: %w", cfg.Portal, err)
	}
	sess := client.Session()
	log.Info().
		Str("portal", sess.Portal).
		Str("user", sess.Username).
		Str("password", sess.MaskedPassword()).
		Time("expires", sess.Expires).
		Bool("dry_run", cfg.DryRun).
		Msg("Signed in")

	return sweep.New(client, cfg.Username, sweepOptions(cfg), log.Logger), nil
}

func portalOptions(cfg *config.Config) portal.Options {
	return portal.Options{
		Timeout:    cfg.Timeout,
		Insecure:   cfg.Insecure,
		Expiration: cfg.TokenExpiration,
	}
}

func sweepOptions(cfg *config.Config) sweep.Options {
	return sweep.Options{
		DebugTag:       cfg.DebugTag,
		PageSize:       cfg.PageSize,
		DryRun:         cfg.DryRun,
		Forms:          cfg.Sweeps.Forms,
		OrphanServices: cfg.Sweeps.OrphanServices,
		EmptyFolders:   cfg.Sweeps.EmptyFolders,
	}
}
