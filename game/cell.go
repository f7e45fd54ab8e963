package game

import "fmt"

type Pos struct {
	Row, Col int
}

func (pos Pos) String() string {
	return fmt.Sprintf("Cell(%v, %v)", pos.Row, pos.Col)
}

type Action struct {
	Kind ActionKind
	Pos  Pos
}

func (action Action) String() string {
	return fmt.Sprintf("%s %s", action.Kind, action.Pos)
}

func OpenAt(row, col int) Action {
	return Action{Kind: Open, Pos: Pos{Row: row, Col: col}}
}

func FlagAt(row, col int) Action {
	return Action{Kind: Flag, Pos: Pos{Row: row, Col: col}}
}

func serializeCell(state CellState) byte {
	switch state {
	case SecretMine:
		return 'O'
	case Flagged:
		return 'F'
	case Opened:
		return '.'
	case ExplodedSafe:
		return 'x'
	case ExplodedMine:
		return '*'
	default:
		return '#'
	}
}

func deserializeCell(c rune, fresh bool) (CellState, bool) {
	var state CellState
	switch c {
	case '#':
		state = SecretSafe
	case 'O':
		state = SecretMine
	case 'F':
		state = Flagged
	case '.':
		state = Opened
	case 'x':
		state = ExplodedSafe
	case '*':
		state = ExplodedMine
	default:
		return SecretSafe, false
	}

	if fresh {
		if state.IsMine() {
			state = SecretMine
		} else {
			state = SecretSafe
		}
	}
	return state, true
}
