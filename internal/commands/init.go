package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bokisim/bokisim/internal/accounts"
	"github.com/bokisim/bokisim/internal/config"
	"github.com/bokisim/bokisim/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var startDate string
	var initialCash int64
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new simulation directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, startDate, initialCash, noGit)
		},
	}

	cmd.Flags().StringVar(&startDate, "start-date", "2024-01-01", "game start date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&initialCash, "initial-cash", 5000, "starting cash per player")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git initialization")

	return cmd
}

func runInit(dir, startDate string, initialCash int64, noGit bool) error {
	// Create directory structure.
	dirs := []string{
		"logs",
		"scenarios",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write bokisim.yaml.
	cfg := config.Default()
	cfg.Game.StartDate = startDate
	cfg.Game.InitialCash = initialCash
	cfg.Chart.Path = "accounts.csv"
	cfg.Storage.Path = "ledger.db"
	if err := config.Save(filepath.Join(dir, "bokisim.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(filepath.Join(dir, "accounts.csv")); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Write .gitignore.
	gitignore := "ledger.db\nlogs/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if noGit {
		fmt.Printf("Initialized bokisim directory at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitAll(dir, "init: new simulation", "bokisim", "bokisim@localhost")
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized bokisim directory at %s (%s)\n", dir, hash)
	return nil
}
