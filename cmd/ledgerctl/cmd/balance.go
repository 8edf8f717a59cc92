package cmd

import (
	"fmt"
	"time"

	"github.com/SscSPs/hotel_ledger/internal/apperrors"
	"github.com/SscSPs/hotel_ledger/internal/core/services"
	"github.com/spf13/cobra"
)

var asOfFlag string

// balanceCmd represents the balance command.
var balanceCmd = &cobra.Command{
	Use:   "balance <account-code>",
	Short: "Print an account balance",
	Long: `Print debit and credit totals of posted ledger rows for an account,
and its balance on the account type's normal side.

Example:
  ledgerctl balance 4000
  ledgerctl balance 1000 --as-of 2026-10-31`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var asOf *time.Time
		if asOfFlag != "" {
			t, err := time.Parse(time.DateOnly, asOfFlag)
			if err != nil {
				return fmt.Errorf("invalid --as-of %q: %w", asOfFlag, err)
			}
			asOf = &t
		}

		cfg, repos, closeRepos, err := openStorage(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer closeRepos()

		container := services.NewServiceContainer(cfg, repos, nil)
		account, err := container.Account.GetAccountByCode(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		balance, err := container.Ledger.BalanceOf(cmd.Context(), account.AccountID, asOf)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (%s)\n", account.Code, account.Name, account.AccountType)
		if balance.AsOf != nil {
			fmt.Fprintf(out, "as of:   %s\n", balance.AsOf.Format(time.DateOnly))
		}
		fmt.Fprintf(out, "debits:  %s\n", apperrors.FormatAmount(balance.DebitTotal))
		fmt.Fprintf(out, "credits: %s\n", apperrors.FormatAmount(balance.CreditTotal))
		fmt.Fprintf(out, "balance: %s\n", apperrors.FormatAmount(balance.NormalBalance(account.AccountType)))
		return nil
	},
}

func init() {
	balanceCmd.Flags().StringVar(&asOfFlag, "as-of", "", "inclusive cutoff date (YYYY-MM-DD)")
}
