package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bokisim/bokisim/internal/accounts"
	"github.com/bokisim/bokisim/internal/config"
	"github.com/bokisim/bokisim/internal/fixedasset"
	"github.com/bokisim/bokisim/internal/game"
	"github.com/bokisim/bokisim/internal/inventory"
	"github.com/bokisim/bokisim/internal/ledger"
	"github.com/bokisim/bokisim/internal/logging"
	"github.com/bokisim/bokisim/internal/model"
)

func newDemoCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted sample game and print the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "simulation directory")

	return cmd
}

func runDemo(dir string) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Console)

	master, err := newMasterFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	chart, err := loadChart(dir, cfg)
	if err != nil {
		return err
	}

	player, err := game.NewPlayer("demo", master, decimal.NewFromInt(cfg.Game.InitialCash),
		game.WithChart(chart),
		game.WithPlayerLogger(logger),
		game.WithAuditRoot(dir),
	)
	if err != nil {
		return err
	}

	apple, err := player.Purchasing().AcquireProduct("apple", 10, decimal.NewFromInt(50), inventory.MethodFIFO)
	if err != nil {
		return err
	}
	if err := player.Purchasing().PurchaseProduct(apple, 10, decimal.NewFromInt(60), decimal.Zero); err != nil {
		return err
	}
	if err := player.Sales().SellProduct(apple, 15, decimal.NewFromInt(100), decimal.Zero); err != nil {
		return err
	}
	if _, err := player.Buildings().AcquireBuilding("shop", "1 Market St", decimal.NewFromInt(1000), 10, decimal.Zero, fixedasset.StraightLine); err != nil {
		return err
	}

	// The master closes the books when the clock crosses the period
	// boundary.
	if err := master.AdvanceDays(cfg.Game.PeriodDays, player); err != nil {
		return err
	}

	fmt.Printf("Period %d opened on %s\n", player.Ledger().Period(), master.Now().Format("2006-01-02"))
	if re, err := player.Ledger().Balance(accounts.RetainedEarnings); err == nil {
		fmt.Printf("Cumulative net income: %s\n", re.Neg())
	}
	printTrialBalance(player.Ledger())
	return nil
}

func printTrialBalance(l *ledger.Ledger) {
	fmt.Println("Trial balance:")
	for _, a := range l.Accounts() {
		if a.Balance.IsZero() {
			continue
		}
		fmt.Printf("  %-30s %12s\n", a.Name, a.Balance)
	}
}

// newMasterFromConfig builds the game master with the configured start
// date and market seed.
func newMasterFromConfig(cfg *config.Config, logger zerolog.Logger) (*game.Master, error) {
	start, err := time.Parse("2006-01-02", cfg.Game.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start date %q: %w", cfg.Game.StartDate, err)
	}

	opts := []game.MasterOption{
		game.WithLogger(logger),
		game.WithPeriodDays(cfg.Game.PeriodDays),
	}
	if cfg.Game.MarketSeed != 0 {
		opts = append(opts, game.WithSeed(cfg.Game.MarketSeed))
	}
	return game.NewMaster(start, opts...), nil
}

// loadChart resolves the chart of accounts: the CSV named by chart.path
// relative to the simulation directory, or the built-in default when the
// path is empty.
func loadChart(dir string, cfg *config.Config) ([]model.Account, error) {
	if cfg.Chart.Path == "" {
		return accounts.DefaultChart(), nil
	}
	svc, err := accounts.Load(filepath.Join(dir, cfg.Chart.Path))
	if err != nil {
		return nil, err
	}
	return svc.All(), nil
}
