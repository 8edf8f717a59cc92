package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/hotel_ledger/internal/core/domain"
	"github.com/SscSPs/hotel_ledger/internal/core/services"
	"github.com/SscSPs/hotel_ledger/internal/platform/seed"
	"github.com/spf13/cobra"
)

var (
	chartFile string
	seedActor string
)

// seedCmd represents the seed-accounts command.
var seedCmd = &cobra.Command{
	Use:   "seed-accounts",
	Short: "Create the chart of accounts from a YAML file",
	Long: `Create every account listed in the chart file whose code does not
exist yet. Parents are created before their children.

Example:
  ledgerctl seed-accounts --file configs/chart_of_accounts.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		chart, err := seed.LoadChartFile(chartFile)
		if err != nil {
			return err
		}

		cfg, repos, closeRepos, err := openStorage(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer closeRepos()

		container := services.NewServiceContainer(cfg, repos, nil)
		actor := domain.NewActor(seedActor, domain.CapManageAccounts)

		res, err := seed.Apply(cmd.Context(), container.Account, actor, chart)
		if res != nil {
			slog.Info("Seed finished", slog.Int("created", len(res.Created)), slog.Int("skipped", len(res.Skipped)))
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", len(res.Created), len(res.Skipped))
		}
		return err
	},
}

func init() {
	seedCmd.Flags().StringVar(&chartFile, "file", "configs/chart_of_accounts.yaml", "chart of accounts YAML file")
	seedCmd.Flags().StringVar(&seedActor, "actor", "ledgerctl", "actor id recorded as creator")
}
