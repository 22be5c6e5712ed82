package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rflorenc/survey-sweeper/internal/cli/prompt"
	"github.com/rflorenc/survey-sweeper/internal/models"
)

var purgeConfirm bool

var purgeCmd = &cobra.Command{
	Use:   "purge-services",
	Short: "Remove EVERY Survey123 feature service you own",
	Long: `purge-services removes every survey123_* feature service owned by the
signed-in user, whether or not its form still exists. Collected data
goes with it and cannot be recovered.

It is never part of "run". Pass --confirm to skip the prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		label := fmt.Sprintf("Remove all Survey123 services owned by %s on %s?", cfg.Username, cfg.Portal)
		ok, err := prompt.ConfirmDangerWithForce(label, "purge", purgeConfirm || cfg.DryRun)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := newSweeper(ctx, cfg)
		if err != nil {
			return err
		}
		report := models.NewReport(cfg.Username)
		report.Add(s.PurgeServices(ctx))
		report.Complete()
		return printReport(cmd.OutOrStdout(), report)
	},
}

func init() {
	purgeCmd.Flags().BoolVar(&purgeConfirm, "confirm", false, "Do not prompt for confirmation")
}
