package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bokisim/bokisim/internal/store"
)

func newReportCommand() *cobra.Command {
	var period int

	cmd := &cobra.Command{
		Use:   "report <ledger.db>",
		Short: "Print persisted balances and transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(args[0], period)
		},
	}

	cmd.Flags().IntVar(&period, "period", 0, "also list transactions for this period")

	return cmd
}

func runReport(path string, period int) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	balances, err := s.Balances()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(balances))
	for name := range balances {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Balances:")
	for _, name := range names {
		if balances[name].IsZero() {
			continue
		}
		fmt.Printf("  %-30s %12s\n", name, balances[name])
	}

	if period > 0 {
		txns, err := s.Transactions(period)
		if err != nil {
			return err
		}
		fmt.Printf("Transactions in period %d:\n", period)
		for _, txn := range txns {
			fmt.Printf("  %s  %s\n", txn.ID, txn.Description)
			for _, line := range txn.Lines {
				fmt.Printf("    %-28s %12s\n", line.Account, line.Amount)
			}
		}
	}
	return nil
}
