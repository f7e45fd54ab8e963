package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type GameConfig struct {
	Height, Width uint
	Fraction      float64

	// Keep an undo history, which also allows taking back a losing move
	Easy bool
	// Wrap the board edges around, connecting opposite sides
	Torus bool

	Seed int64

	// Maximum number of moves kept for undo in easy mode
	HistoryLimit int

	// Snapshot to load the first board from
	Snapshot *BoardSnapshot
	// Whether to set all cells as hidden when loading the Snapshot
	LoadSnapshotFresh bool

	Director Director

	// Path to directory where final snapshots of boards should be saved
	SavedSnapshotsDir string

	// Called every time a game is won or lost
	OnGameEnd func(*Game)
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Height:            DefaultHeight,
		Width:             DefaultWidth,
		Fraction:          DefaultFraction,
		HistoryLimit:      DefaultHistoryLimit,
		Snapshot:          nil,
		LoadSnapshotFresh: true,
		Director:          nil,
	}
}

func (config GameConfig) Topology() Topology {
	if config.Torus {
		return Torus
	}
	return Bounded
}

func (config GameConfig) BoardConfig() BoardConfig {
	return BoardConfig{
		Height:   int(config.Height),
		Width:    int(config.Width),
		Fraction: config.Fraction,
		Topology: config.Topology(),
		Seed:     config.Seed,
	}
}

func (config GameConfig) Validate() error {
	return config.BoardConfig().Validate()
}

func (config GameConfig) createBoard() (*Board, error) {
	if config.Snapshot == nil {
		return NewBoard(config.BoardConfig())
	}
	return config.Snapshot.CreateBoard(config.LoadSnapshotFresh)
}

type Game struct {
	config  GameConfig
	board   *Board
	state   BoardState
	history history

	log *logrus.Entry
}

func NewGame(config GameConfig) (*Game, error) {
	board, err := config.createBoard()
	if err != nil {
		return nil, err
	}

	game := &Game{
		config:  config,
		history: history{limit: config.HistoryLimit},
	}
	game.reset(board)
	return game, nil
}

// Restart starts a fresh random board, seeded from the current one
func (game *Game) Restart() error {
	config := game.config
	config.Snapshot = nil
	config.Seed = game.board.Rand().Int63()

	board, err := config.createBoard()
	if err != nil {
		return err
	}

	game.config = config
	game.reset(board)
	return nil
}

func (game *Game) reset(board *Board) {
	game.board = board
	game.state = Ongoing
	game.history.clear()
	game.log = logrus.WithFields(logrus.Fields{
		"seed":     board.Seed(),
		"size":     fmt.Sprintf("%dx%d", board.height, board.width),
		"topology": board.Topology(),
	})

	game.log.WithField("mines", board.NumMines()).Debug("board started")

	// Loaded snapshots and mine-free boards may already be decided
	switch {
	case board.IsExploded():
		game.state = Lost
	case board.IsWin():
		game.state = Won
	}
}

func (game *Game) Config() GameConfig {
	return game.config
}

func (game *Game) Board() *Board {
	return game.board
}

func (game *Game) State() BoardState {
	return game.state
}

func (game *Game) CanPlay() bool {
	return game.state == Ongoing
}

// MinesRemaining is the number of mines not yet flagged
func (game *Game) MinesRemaining() int {
	return game.board.NumMines() - game.board.NumFlags()
}

func (game *Game) Open(pos Pos) Outcome {
	return game.Apply(Action{Kind: Open, Pos: pos})
}

func (game *Game) Flag(pos Pos) Outcome {
	return game.Apply(Action{Kind: Flag, Pos: pos})
}

func (game *Game) Apply(action Action) Outcome {
	if !game.CanPlay() {
		return Unchanged
	}

	if game.config.Easy {
		game.board.track()
	}

	var outcome Outcome
	switch action.Kind {
	case Open:
		outcome = game.board.Open(action.Pos)
	case Flag:
		outcome = game.board.Flag(action.Pos)
	}

	if game.config.Easy {
		changes := game.board.untrack()
		if outcome != Unchanged {
			game.history.push(changes)
		}
	}
	if outcome == Unchanged {
		return outcome
	}
	game.log.WithField("action", action).Debug("applied")

	if outcome == Exploded {
		game.finish(Lost)
	} else if game.board.IsWin() {
		game.finish(Won)
	}
	return outcome
}

// Step lets the configured director make a single move
func (game *Game) Step() (Action, Outcome, bool) {
	if game.config.Director == nil || !game.CanPlay() {
		return Action{}, Unchanged, false
	}

	action, ok := game.config.Director.Next(game.board)
	if !ok {
		return Action{}, Unchanged, false
	}
	return action, game.Apply(action), true
}

func (game *Game) CanUndo() bool {
	return game.config.Easy && game.history.len() > 0
}

// Undo takes back the last move, including a losing one. Only available in
// easy mode.
func (game *Game) Undo() bool {
	if !game.config.Easy {
		return false
	}

	changes, ok := game.history.pop()
	if !ok {
		return false
	}

	game.board.revert(changes)
	game.state = Ongoing
	game.log.Debug("undone")
	return true
}

func (game *Game) finish(state BoardState) {
	game.state = state
	game.log.WithFields(logrus.Fields{
		"state":           state,
		"mines_remaining": game.MinesRemaining(),
	}).Info("game over")

	if game.config.SavedSnapshotsDir != "" {
		if _, err := SaveSnapshot(game.config.SavedSnapshotsDir, game, time.Now()); err != nil {
			game.log.WithError(err).Warn("could not save board snapshot")
		}
	}

	if game.config.OnGameEnd != nil {
		game.config.OnGameEnd(game)
	}
}

// SaveSnapshot writes the game's board into dir and returns the file path
func SaveSnapshot(dir string, game *Game, t time.Time) (string, error) {
	stat, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return "", err
		}
	} else if !stat.Mode().IsDir() {
		return "", fmt.Errorf("%s is not a directory; cannot save snapshots to it", dir)
	}

	snapshot := game.board.Snapshot()
	path := filepath.Join(dir, generateReplayFilename(game.state, snapshot.ID, t))

	if err := os.WriteFile(path, []byte(snapshot.Serialize()), 0o644); err != nil {
		return "", err
	}

	game.log.WithField("path", path).Debug("saved board snapshot")
	return path, nil
}

func generateReplayFilename(state BoardState, id string, t time.Time) string {
	filenameBuilder := strings.Builder{}

	filenameBuilder.WriteString(t.Format("20060102_150405_"))

	var stateStr string
	switch state {
	case Won:
		stateStr = "win"
	case Lost:
		stateStr = "loss"
	default:
		stateStr = "other"
	}
	filenameBuilder.WriteString(stateStr)

	// Games finishing within the same second must not overwrite each other
	if shortID := strings.ReplaceAll(id, "-", ""); shortID != "" {
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		filenameBuilder.WriteByte('_')
		filenameBuilder.WriteString(shortID)
	}

	filenameBuilder.WriteString(".yaml")

	return filenameBuilder.String()
}
