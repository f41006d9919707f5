package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bokisim/bokisim/internal/config"
	"github.com/bokisim/bokisim/internal/game"
	"github.com/bokisim/bokisim/internal/logging"
	"github.com/bokisim/bokisim/internal/scenario"
	"github.com/bokisim/bokisim/internal/store"
)

func newRunCommand() *cobra.Command {
	var dir string
	var players []string

	cmd := &cobra.Command{
		Use:   "run <scenario.csv>",
		Short: "Replay a scenario script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(dir, args[0], players)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "simulation directory")
	cmd.Flags().StringSliceVar(&players, "players", []string{"alice"}, "player names")

	return cmd
}

func runScenario(dir, scriptPath string, names []string) error {
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

	events, err := scenario.Load(scriptPath)
	if err != nil {
		return err
	}

	playerList := make([]*game.Player, 0, len(names))
	for _, name := range names {
		opts := []game.PlayerOption{
			game.WithChart(chart),
			game.WithPlayerLogger(logger),
			game.WithAuditRoot(dir),
		}
		if cfg.Storage.Path != "" {
			// One database per player: a recorder persists exactly one
			// ledger.
			dbPath := playerDBPath(dir, cfg.Storage.Path, name)
			s, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("opening store for %s: %w", name, err)
			}
			defer s.Close()
			opts = append(opts, game.WithRecorder(s))
		}

		p, err := game.NewPlayer(name, master, decimal.NewFromInt(cfg.Game.InitialCash), opts...)
		if err != nil {
			return err
		}
		playerList = append(playerList, p)
	}

	if err := scenario.NewRunner(master, playerList...).Run(events); err != nil {
		return err
	}

	for _, p := range playerList {
		fmt.Printf("%s (period %d):\n", p.Name(), p.Ledger().Period())
		printTrialBalance(p.Ledger())
	}
	return nil
}

// playerDBPath derives a per-player database file from the configured
// storage path, e.g. ledger.db -> ledger-alice.db.
func playerDBPath(dir, storagePath, player string) string {
	ext := filepath.Ext(storagePath)
	base := strings.TrimSuffix(storagePath, ext)
	return filepath.Join(dir, fmt.Sprintf("%s-%s%s", base, player, ext))
}
