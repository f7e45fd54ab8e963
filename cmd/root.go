package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/faiface/pixel/pixelgl"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/they4kman/cleansweeper/director/constraint"
	"github.com/they4kman/cleansweeper/game"
	"github.com/they4kman/cleansweeper/ui/gui"
	"github.com/they4kman/cleansweeper/ui/term"
)

type options struct {
	config game.GameConfig

	loadPath    string
	useDirector bool
	terminal    bool
	logLevel    string
	logFile     string
}

func newRootCmd(defaults envDefaults) *cobra.Command {
	opts := &options{
		config:   defaults.gameConfig(),
		logLevel: defaults.LogLevel,
	}

	rootCmd := &cobra.Command{
		Use:   "cleansweeper",
		Short: "Play Cleansweeper, a Minesweeper where flags are final",
		Long: `cleansweeper is a Minesweeper variant. Left click flags a cell, right
click opens it. Flagging a safe cell loses just like opening a mine, and
a cell whose unflagged mines are all found opens its neighbours itself.

Run with no arguments to play in a window
	cleansweeper

Play in the terminal, on a board whose edges wrap around
	cleansweeper --terminal --torus

Allow taking moves back
	cleansweeper --easy
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(opts.logLevel, opts.logFile, opts.terminal)
			if err != nil {
				return err
			}
			defer closeLog()

			config, err := opts.gameConfig(cmd.Flags().Changed("seed"))
			if err != nil {
				return err
			}
			if opts.useDirector {
				config.Director = constraint.New(rand.New(rand.NewSource(config.Seed)))
			}

			g, err := game.NewGame(config)
			if err != nil {
				return err
			}

			if opts.terminal {
				return term.Run(g)
			}

			var runErr error
			pixelgl.Run(func() {
				runErr = gui.Run(g)
			})
			return runErr
		},
	}

	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	rootCmd.PersistentFlags().Bool("help", false, "Help for this command")

	opts.bindBoardFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().StringVar(&opts.loadPath, "load", "", "Snapshot file to load the first board from")
	rootCmd.Flags().BoolVar(&opts.config.LoadSnapshotFresh, "load-fresh", true, "Hide every cell of the loaded snapshot and start over")
	rootCmd.Flags().BoolVarP(&opts.useDirector, "director", "d", false, "Make the computer play")
	rootCmd.Flags().BoolVar(&opts.terminal, "terminal", false, "Play in the terminal instead of a window")

	rootCmd.AddCommand(newAutoCmd(opts))

	return rootCmd
}

func (opts *options) bindBoardFlags(flags *pflag.FlagSet) {
	config := &opts.config
	flags.UintVarP(&config.Height, "height", "h", config.Height, "Height of game board, in cells")
	flags.UintVarP(&config.Width, "width", "w", config.Width, "Width of game board, in cells")
	flags.Float64VarP(&config.Fraction, "fraction", "f", config.Fraction, "Fraction of cells which contain mines")
	flags.BoolVarP(&config.Easy, "easy", "e", config.Easy, "Easy mode: moves, including a losing one, can be undone")
	flags.BoolVarP(&config.Torus, "torus", "t", config.Torus, "Torus mode: board edges wrap around")
	flags.Var(newTopologyValue(config.Topology(), &config.Torus), "topology", `Board topology, same as --torus when set to torus.
bounded: edge cells have fewer neighbours
torus: opposite edges are adjacent`)
	flags.Int64Var(&config.Seed, "seed", 0, "Seed for mine placement (random when unset)")
	flags.IntVar(&config.HistoryLimit, "history", config.HistoryLimit, "Number of moves kept for undo in easy mode")
	flags.StringVar(&config.SavedSnapshotsDir, "snapshots-dir", config.SavedSnapshotsDir, "Directory where snapshots of finished boards are saved")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "Append logs to this file")
}

// gameConfig validates the flags and loads the snapshot, if any
func (opts *options) gameConfig(seedSet bool) (game.GameConfig, error) {
	config := opts.config
	if !seedSet {
		config.Seed = time.Now().UnixNano()
	}

	if opts.loadPath != "" {
		in, err := os.ReadFile(opts.loadPath)
		if err != nil {
			return config, fmt.Errorf("read snapshot: %w", err)
		}
		snapshot, err := game.LoadSnapshot(string(in))
		if err != nil {
			return config, fmt.Errorf("%w: %s: %v", game.ErrInvalidSnapshot, opts.loadPath, err)
		}
		config.Snapshot = snapshot
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

func Execute() {
	defaults, err := loadEnvDefaults()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := newRootCmd(defaults).Execute(); err != nil {
		os.Exit(1)
	}
}

type topologyValue bool

func newTopologyValue(val game.Topology, p *bool) *topologyValue {
	*p = val == game.Torus
	return (*topologyValue)(p)
}

func (topologyVal *topologyValue) String() string {
	if *topologyVal {
		return game.Torus.String()
	}
	return game.Bounded.String()
}

func (topologyVal *topologyValue) Set(value string) error {
	topology, err := game.ParseTopology(value)
	if err != nil {
		return err
	}
	*topologyVal = topologyValue(topology == game.Torus)
	return nil
}

func (topologyVal *topologyValue) Type() string {
	return "game.Topology"
}
