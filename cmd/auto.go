package cmd

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/cleansweeper/director/constraint"
	"github.com/they4kman/cleansweeper/game"
)

func newAutoCmd(opts *options) *cobra.Command {
	numGames := 100

	autoCmd := &cobra.Command{
		Use:   "auto",
		Short: "Let the computer play a series of games without a window",
		Long: `auto plays games with the deducing director and reports how many were
won. Board flags apply as for the interactive game.

	cleansweeper auto --games 500 --torus
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(opts.logLevel, opts.logFile, false)
			if err != nil {
				return err
			}
			defer closeLog()

			config, err := opts.gameConfig(cmd.Flags().Changed("seed"))
			if err != nil {
				return err
			}

			wins, err := autoPlay(config, numGames)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "won %d of %d games (%.1f%%)\n",
				wins, numGames, 100*float64(wins)/float64(numGames))
			return nil
		},
	}

	autoCmd.Flags().IntVarP(&numGames, "games", "n", numGames, "Number of games to play")

	return autoCmd
}

// autoPlay plays numGames games with the constraint director, returning how
// many were won
func autoPlay(config game.GameConfig, numGames int) (int, error) {
	if numGames < 1 {
		return 0, fmt.Errorf("need at least one game, got %d", numGames)
	}

	config.Director = constraint.New(rand.New(rand.NewSource(config.Seed)))
	g, err := game.NewGame(config)
	if err != nil {
		return 0, err
	}

	wins := 0
	for i := 0; i < numGames; i++ {
		if i > 0 {
			if err := g.Restart(); err != nil {
				return wins, err
			}
		}

		// Every move changes a hidden cell, so a game takes at most one move per cell
		maxSteps := int(g.Board().NumCells())
		for step := 0; step < maxSteps && g.CanPlay(); step++ {
			if _, _, ok := g.Step(); !ok {
				break
			}
		}

		if g.State() == game.Won {
			wins++
		}
		logrus.WithFields(logrus.Fields{
			"game":  i + 1,
			"state": g.State(),
			"seed":  g.Board().Seed(),
		}).Debug("auto game finished")
	}

	logrus.WithFields(logrus.Fields{
		"games": numGames,
		"wins":  wins,
	}).Info("auto play finished")
	return wins, nil
}
