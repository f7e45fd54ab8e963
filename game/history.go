package game

import "github.com/gammazero/deque"

// cellChange is the state a cell had before a move changed it
type cellChange struct {
	idx   int
	state CellState
}

// history keeps the changes of the most recent moves, oldest at the front
type history struct {
	limit int
	moves deque.Deque
}

func (h *history) push(changes []cellChange) {
	if h.limit <= 0 {
		return
	}

	h.moves.PushBack(changes)
	for h.moves.Len() > h.limit {
		h.moves.PopFront()
	}
}

func (h *history) pop() ([]cellChange, bool) {
	if h.moves.Len() == 0 {
		return nil, false
	}
	return h.moves.PopBack().([]cellChange), true
}

func (h *history) len() int {
	return h.moves.Len()
}

// cells is the number of cell states held across all moves
func (h *history) cells() int {
	total := 0
	for i := 0; i < h.moves.Len(); i++ {
		total += len(h.moves.At(i).([]cellChange))
	}
	return total
}

func (h *history) clear() {
	for h.moves.Len() > 0 {
		h.moves.PopBack()
	}
}
