package game

import "github.com/gammazero/deque"

// flood chords outward from the given opened cells: every cell whose count
// is zero opens its hidden safe neighbours, which are then flooded in turn.
func (board *Board) flood(from ...Pos) {
	var toFlood deque.Deque
	for _, pos := range from {
		toFlood.PushBack(pos)
	}

	for toFlood.Len() > 0 {
		center := toFlood.PopBack().(Pos)
		if board.At(center) != Opened || board.Count(center) != 0 {
			continue
		}

		for _, neighbor := range board.Neighbors(center) {
			if board.At(neighbor) == SecretSafe {
				board.set(neighbor, Opened)
				toFlood.PushBack(neighbor)
			}
		}
	}
}
