package game

var neighborOffsets = [8]Pos{
	{-1, -1},
	{-1, 0},
	{-1, 1},
	{0, 1},
	{1, 1},
	{1, 0},
	{1, -1},
	{0, -1},
}

// neighbors lists the distinct cells adjacent to pos on a height x width
// grid. On a torus, coordinates wrap; a cell is never its own neighbour.
func (topology Topology) neighbors(pos Pos, height, width int) []Pos {
	out := make([]Pos, 0, len(neighborOffsets))

	for _, offset := range neighborOffsets {
		row, col := pos.Row+offset.Row, pos.Col+offset.Col

		if topology == Torus {
			row = wrap(row, height)
			col = wrap(col, width)
		} else if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}

		neighbor := Pos{Row: row, Col: col}
		if neighbor == pos || containsPos(out, neighbor) {
			continue
		}
		out = append(out, neighbor)
	}

	return out
}

func wrap(value, size int) int {
	value %= size
	if value < 0 {
		value += size
	}
	return value
}

func containsPos(positions []Pos, pos Pos) bool {
	for _, other := range positions {
		if other == pos {
			return true
		}
	}
	return false
}
