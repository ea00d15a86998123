// melee runs warrior competitions in a shared circular arena.
//
// Usage:
//
//	melee run --warriors dir [--zombies dir]   - Run a full competition
//	melee standings                            - Show stored standings
//	melee watch a.red b.red                    - Watch one battle live
//
// Global flags:
//
//	--config <path>  - Engine config file (default: ~/.melee/config.yaml)
//	--db <path>      - Standings database (default: ~/.melee/standings.db)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig string
	flagDBPath string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "melee",
	Short: "Warrior battles in a shared circular arena",
	Long: `melee pits assembly-style warriors against each other in a
shared wrap-around memory and scores them across full tournaments.

Examples:
  melee run --warriors ./warriors --zombies ./zombies
  melee run --warriors ./warriors --battles 50 --size 3
  melee standings
  melee watch warriors/imp.red warriors/dwarf.red`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.melee/standings.db", "Path to standings database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(watchCmd)
}
