// Package ui holds what the window and terminal frontends share: mapping
// screen coordinates onto board cells, and the status line wording.
package ui

import (
	"math"

	"github.com/they4kman/cleansweeper/game"
)

// Grid places a board on a screen. Origin is the corner of cell (0, 0) that
// touches the board's outer edge: top-left on screens whose Y grows
// downwards, and still the top-left (highest Y) when YUp is set.
type Grid struct {
	OriginX, OriginY      float64
	CellWidth, CellHeight float64
	Rows, Cols            int
	YUp                   bool
}

func NewGrid(board *game.Board, originX, originY, cellWidth, cellHeight float64, yUp bool) Grid {
	return Grid{
		OriginX:    originX,
		OriginY:    originY,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		Rows:       int(board.Height()),
		Cols:       int(board.Width()),
		YUp:        yUp,
	}
}

// PosAt returns the cell under the screen point, if any
func (grid Grid) PosAt(x, y float64) (game.Pos, bool) {
	if grid.CellWidth <= 0 || grid.CellHeight <= 0 {
		return game.Pos{}, false
	}

	dx := x - grid.OriginX
	dy := y - grid.OriginY
	if grid.YUp {
		dy = -dy
	}
	if dx < 0 || dy < 0 {
		return game.Pos{}, false
	}

	pos := game.Pos{
		Row: int(math.Floor(dy / grid.CellHeight)),
		Col: int(math.Floor(dx / grid.CellWidth)),
	}
	if pos.Row >= grid.Rows || pos.Col >= grid.Cols {
		return game.Pos{}, false
	}
	return pos, true
}

// CellMin returns the screen corner of the cell with the smallest coordinates
func (grid Grid) CellMin(pos game.Pos) (x, y float64) {
	x = grid.OriginX + float64(pos.Col)*grid.CellWidth
	if grid.YUp {
		y = grid.OriginY - float64(pos.Row+1)*grid.CellHeight
	} else {
		y = grid.OriginY + float64(pos.Row)*grid.CellHeight
	}
	return x, y
}

func (grid Grid) Size() (width, height float64) {
	return float64(grid.Cols) * grid.CellWidth, float64(grid.Rows) * grid.CellHeight
}

func StatusText(state game.BoardState) string {
	switch state {
	case game.Won:
		return "You win!"
	case game.Lost:
		return "Try again?"
	default:
		return "Good luck!"
	}
}

// Clamp keeps pos on the board, wrapping instead on a torus
func Clamp(board *game.Board, pos game.Pos) game.Pos {
	rows, cols := int(board.Height()), int(board.Width())
	if board.Topology() == game.Torus {
		return game.Pos{Row: ((pos.Row % rows) + rows) % rows, Col: ((pos.Col % cols) + cols) % cols}
	}
	return game.Pos{Row: clampInt(pos.Row, 0, rows-1), Col: clampInt(pos.Col, 0, cols-1)}
}

func clampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
