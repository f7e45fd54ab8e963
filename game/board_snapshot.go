package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

type BoardSnapshot struct {
	ID              string  `yaml:"id"`
	Seed            int64   `yaml:"seed"`
	Topology        string  `yaml:"topology"`
	Fraction        float64 `yaml:"fraction"`
	SerializedBoard string  `yaml:"board"`
}

func (board *Board) Snapshot() *BoardSnapshot {
	var serialized strings.Builder
	for row := 0; row < board.height; row++ {
		if row > 0 {
			serialized.WriteByte('\n')
		}
		for col := 0; col < board.width; col++ {
			serialized.WriteByte(serializeCell(board.At(Pos{Row: row, Col: col})))
		}
	}

	return &BoardSnapshot{
		ID:              uuid.NewString(),
		Seed:            board.seed,
		Topology:        board.topology.String(),
		Fraction:        board.fraction,
		SerializedBoard: serialized.String(),
	}
}

func (snapshot *BoardSnapshot) Serialize() string {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		panic(err)
	}

	return string(out)
}

// CreateBoard rebuilds the recorded board. With fresh set, every cell is
// hidden again and a new opening move is made on the recorded mines.
func (snapshot *BoardSnapshot) CreateBoard(fresh bool) (*Board, error) {
	rows := strings.Split(strings.TrimSpace(snapshot.SerializedBoard), "\n")
	for i, row := range rows {
		rows[i] = strings.TrimSuffix(row, "\r")
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty board", ErrInvalidSnapshot)
	}

	topology, err := ParseTopology(snapshot.Topology)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	board, err := createBoard(BoardConfig{
		Height:   len(rows),
		Width:    len(rows[0]),
		Fraction: snapshot.Fraction,
		Topology: topology,
		Seed:     snapshot.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	for y, row := range rows {
		if len(row) != board.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d",
				ErrInvalidSnapshot, y, len(row), board.width)
		}
		for x, c := range row {
			state, ok := deserializeCell(c, fresh)
			if !ok {
				return nil, fmt.Errorf("%w: unknown cell %q at (%d, %d)", ErrInvalidSnapshot, c, y, x)
			}
			board.set(Pos{Row: y, Col: x}, state)
		}
	}
	board.numMines = board.countMines()

	if fresh && !board.openStart() {
		return nil, fmt.Errorf("%w: %d mines on %dx%d board",
			ErrNoSafeStart, board.numMines, board.height, board.width)
	}

	return board, nil
}

func LoadSnapshot(in string) (*BoardSnapshot, error) {
	var snapshot BoardSnapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
