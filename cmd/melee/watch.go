package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.creack.net/melee/cli"
	"go.creack.net/melee/config"
	"go.creack.net/melee/engine"
	"go.creack.net/melee/vm"
)

var flagDelay int

var watchCmd = &cobra.Command{
	Use:   "watch <warrior>...",
	Short: "Watch a single battle live in the terminal",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		e := engine.New()
		var warriors []*vm.Warrior
		for _, path := range args {
			w, err := cli.LoadFile(e, path)
			if err != nil {
				return err
			}
			warriors = append(warriors, w)
		}

		// Even spacing keeps a demo battle readable.
		placements := make([]vm.Placement, len(warriors))
		for i, w := range warriors {
			placements[i] = vm.Placement{Warrior: w, Offset: i * cfg.ArenaSize / len(warriors)}
		}
		battle, err := vm.NewBattle(vm.Config{
			ArenaSize:     cfg.ArenaSize,
			MaxCycles:     cfg.MaxCycles,
			MinSeparation: cfg.MinSeparation,
		}, placements)
		if err != nil {
			return err
		}

		return watchBattle(battle, flagDelay)
	},
}

func init() {
	watchCmd.Flags().IntVar(&flagDelay, "delay", 20, fmt.Sprintf("Milliseconds between rounds (min %d)", minWatchDelay))
}
