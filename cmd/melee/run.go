package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go.creack.net/melee/cli"
	"go.creack.net/melee/config"
	"go.creack.net/melee/engine"
	"go.creack.net/melee/storage"
	"go.creack.net/melee/tournament"
)

var (
	flagWarriors string
	flagZombies  string
	flagBattles  int
	flagSize     int
	flagSeed     int64
	flagWorkers  int
	flagLabel    string
	flagNoSave   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full competition over a warriors directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		ecfg := cfg.Engine()
		if flagBattles > 0 {
			ecfg.BattlesPerCombination = flagBattles
		}
		if flagSize > 0 {
			ecfg.CombinationSize = flagSize
		}
		if flagWorkers > 0 {
			ecfg.Parallelism = flagWorkers
		}
		if cmd.Flags().Changed("seed") {
			ecfg.Seed = flagSeed
		}

		e := engine.New()
		loaded, err := cli.LoadDir(e, flagWarriors, flagZombies)
		if err != nil {
			return err
		}
		logger.Info("warriors loaded", "count", len(loaded), "dir", flagWarriors)

		res, err := e.RunCompetition(cmd.Context(), ecfg)
		if err != nil {
			return err
		}
		rows := res.Scores()
		printRows(rows)
		if teams := res.TeamScores(); len(teams) > 0 {
			fmt.Println()
			printTeams(teams)
		}

		if flagNoSave {
			return nil
		}
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveCompetition(flagLabel, ecfg.Seed, rows)
		if err != nil {
			return err
		}
		logger.Info("standings saved", "competition", id, "db", flagDBPath)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagWarriors, "warriors", "", "Directory of warrior files (required)")
	runCmd.Flags().StringVar(&flagZombies, "zombies", "", "Directory of zombie files")
	runCmd.Flags().IntVar(&flagBattles, "battles", 0, "Battles per combination (overrides config)")
	runCmd.Flags().IntVar(&flagSize, "size", 0, "Combination size (overrides config)")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Placement seed (overrides config)")
	runCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel battles (overrides config)")
	runCmd.Flags().StringVar(&flagLabel, "label", "competition", "Label stored with the standings")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Skip writing standings to the database")
	cobra.CheckErr(runCmd.MarkFlagRequired("warriors"))
}

func printRows(rows []tournament.Row) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WARRIOR\tTEAM\tSCORE\tWINS\tLOSSES\tDRAWS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%d\t%d\n", r.Warrior, r.Team, r.Score, r.Wins, r.Losses, r.Draws)
	}
	w.Flush()
}

func printTeams(teams []tournament.TeamRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEAM\tMEMBERS\tSCORE")
	for _, tr := range teams {
		fmt.Fprintf(w, "%s\t%d\t%.1f\n", tr.Team, tr.Members, tr.Score)
	}
	w.Flush()
}
