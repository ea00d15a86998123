package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"go.creack.net/melee/storage"
)

var standingsCmd = &cobra.Command{
	Use:   "standings [competition-id]",
	Short: "Show stored standings (latest competition by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		var id int64
		if len(args) == 1 {
			id, err = strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid competition id %q", args[0])
			}
		} else {
			latest, ok, err := store.Latest()
			if err != nil {
				return err
			}
			if !ok {
				logger.Warn("no competitions recorded yet", "db", flagDBPath)
				return nil
			}
			id = latest.ID
			logger.Info("showing latest competition", "id", id, "label", latest.Label, "ran", latest.CreatedAt)
		}

		rows, err := store.Standings(id)
		if err != nil {
			return err
		}
		printRows(rows)
		return nil
	},
}
