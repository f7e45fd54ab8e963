package game

import (
	"fmt"
	"math"
	"math/rand"
)

type BoardConfig struct {
	Height, Width int
	Fraction      float64
	Topology      Topology
	Seed          int64
}

func (config BoardConfig) Validate() error {
	if config.Height < 1 || config.Height > MaxDimension || config.Width < 1 || config.Width > MaxDimension {
		return fmt.Errorf("%w: %dx%d (each side must be within 1..%d)",
			ErrInvalidDimensions, config.Height, config.Width, MaxDimension)
	}
	if math.IsNaN(config.Fraction) || config.Fraction < 0 || config.Fraction > 1 {
		return fmt.Errorf("%w: %v (must be within 0..1)", ErrInvalidFraction, config.Fraction)
	}
	return nil
}

type Board struct {
	height, width int // in number of cells
	fraction      float64
	topology      Topology
	numMines      int

	cells     []CellState
	neighbors [][]Pos

	// Previous states of cells changed while tracking
	tracking bool
	changes  []cellChange

	seed int64
	rand *rand.Rand
}

// NewBoard places mines and performs the opening move.
func NewBoard(config BoardConfig) (*Board, error) {
	board, err := createBoard(config)
	if err != nil {
		return nil, err
	}
	if err := board.Start(); err != nil {
		return nil, err
	}
	return board, nil
}

func createBoard(config BoardConfig) (*Board, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	board := &Board{
		height:   config.Height,
		width:    config.Width,
		fraction: config.Fraction,
		topology: config.Topology,
		cells:    make([]CellState, config.Height*config.Width),
		seed:     config.Seed,
		rand:     rand.New(rand.NewSource(config.Seed)),
	}

	// Adjacency never changes during a game, so compute it once
	board.neighbors = make([][]Pos, len(board.cells))
	for _, pos := range board.Positions() {
		board.neighbors[board.index(pos)] = board.topology.neighbors(pos, board.height, board.width)
	}

	return board, nil
}

func (board *Board) Height() uint {
	return uint(board.height)
}

func (board *Board) Width() uint {
	return uint(board.width)
}

func (board *Board) NumCells() uint {
	return uint(len(board.cells))
}

func (board *Board) Fraction() float64 {
	return board.fraction
}

func (board *Board) Topology() Topology {
	return board.topology
}

func (board *Board) Seed() int64 {
	return board.seed
}

func (board *Board) Rand() *rand.Rand {
	return board.rand
}

func (board *Board) NumMines() int {
	return board.numMines
}

func (board *Board) NumFlags() int {
	numFlags := 0
	for _, state := range board.cells {
		if state == Flagged {
			numFlags++
		}
	}
	return numFlags
}

func (board *Board) Contains(pos Pos) bool {
	return pos.Row >= 0 && pos.Col >= 0 && pos.Row < board.height && pos.Col < board.width
}

func (board *Board) index(pos Pos) int {
	return pos.Row*board.width + pos.Col
}

// At returns the state of the cell at pos. Positions outside the board read
// as Opened, so they never take part in play.
func (board *Board) At(pos Pos) CellState {
	if !board.Contains(pos) {
		return Opened
	}
	return board.cells[board.index(pos)]
}

func (board *Board) set(pos Pos, state CellState) {
	idx := board.index(pos)
	if board.tracking {
		board.changes = append(board.changes, cellChange{idx: idx, state: board.cells[idx]})
	}
	board.cells[idx] = state
}

// Positions lists every cell, row by row
func (board *Board) Positions() []Pos {
	out := make([]Pos, 0, len(board.cells))
	for row := 0; row < board.height; row++ {
		for col := 0; col < board.width; col++ {
			out = append(out, Pos{Row: row, Col: col})
		}
	}
	return out
}

func (board *Board) Neighbors(pos Pos) []Pos {
	if !board.Contains(pos) {
		return nil
	}
	return board.neighbors[board.index(pos)]
}

// Count is the number of neighbouring mines that have not been flagged.
func (board *Board) Count(pos Pos) int {
	count := 0
	for _, neighbor := range board.Neighbors(pos) {
		switch board.At(neighbor) {
		case SecretMine, ExplodedMine:
			count++
		}
	}
	return count
}

// Open reveals a hidden cell. Opening a mine explodes it.
func (board *Board) Open(pos Pos) Outcome {
	if !board.Contains(pos) {
		return Unchanged
	}

	switch board.At(pos) {
	case SecretMine:
		board.set(pos, ExplodedMine)
		return Exploded
	case SecretSafe:
		board.set(pos, Opened)
		board.flood(pos)
		return Progressed
	}
	return Unchanged
}

// Flag marks a hidden cell as a mine. Flagging a safe cell explodes it.
// Flagging a mine lowers the count of its opened neighbours, which may chord.
func (board *Board) Flag(pos Pos) Outcome {
	if !board.Contains(pos) {
		return Unchanged
	}

	switch board.At(pos) {
	case SecretSafe:
		board.set(pos, ExplodedSafe)
		return Exploded
	case SecretMine:
		board.set(pos, Flagged)

		var opened []Pos
		for _, neighbor := range board.Neighbors(pos) {
			if board.At(neighbor) == Opened {
				opened = append(opened, neighbor)
			}
		}
		board.flood(opened...)
		return Progressed
	}
	return Unchanged
}

func (board *Board) IsExploded() bool {
	for _, state := range board.cells {
		if state == ExplodedSafe || state == ExplodedMine {
			return true
		}
	}
	return false
}

func (board *Board) IsWin() bool {
	for _, state := range board.cells {
		if state != Opened && state != Flagged {
			return false
		}
	}
	return true
}

// Start randomizes the mines and opens a random zero-count cell. Placements
// without any zero-count safe cell are retried a bounded number of times.
func (board *Board) Start() error {
	numMines := int(math.Round(board.fraction * float64(len(board.cells))))

	if numMines < len(board.cells) {
		for attempt := 0; attempt < maxStartAttempts; attempt++ {
			board.placeMines(numMines)
			if board.openStart() {
				return nil
			}
		}
	}

	return fmt.Errorf("%w: %d mines on %dx%d board (%s)",
		ErrNoSafeStart, numMines, board.height, board.width, board.topology)
}

func (board *Board) placeMines(numMines int) {
	for i := range board.cells {
		board.cells[i] = SecretSafe
	}

	cellIndexes := board.rand.Perm(len(board.cells))
	for _, cellIdx := range cellIndexes[:numMines] {
		board.cells[cellIdx] = SecretMine
	}
	board.numMines = numMines
}

// openStart opens a random safe cell with a zero count, reporting whether
// one existed.
func (board *Board) openStart() bool {
	var zeroPositions []Pos
	for _, pos := range board.Positions() {
		if board.At(pos) == SecretSafe && board.Count(pos) == 0 {
			zeroPositions = append(zeroPositions, pos)
		}
	}
	if len(zeroPositions) == 0 {
		return false
	}

	pos := zeroPositions[board.rand.Intn(len(zeroPositions))]
	return board.Open(pos) == Progressed
}

// track starts recording every cell changed by play
func (board *Board) track() {
	board.tracking = true
	board.changes = nil
}

// untrack stops recording and returns the changes made since track
func (board *Board) untrack() []cellChange {
	changes := board.changes
	board.tracking = false
	board.changes = nil
	return changes
}

// revert undoes changes returned by untrack
func (board *Board) revert(changes []cellChange) {
	for i := len(changes) - 1; i >= 0; i-- {
		board.cells[changes[i].idx] = changes[i].state
	}
}

func (board *Board) countMines() int {
	numMines := 0
	for _, state := range board.cells {
		if state.IsMine() {
			numMines++
		}
	}
	return numMines
}
