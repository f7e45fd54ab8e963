package constraint

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/they4kman/cleansweeper/director/random"
	"github.com/they4kman/cleansweeper/game"
	"github.com/they4kman/cleansweeper/util/collections"
)

// Number of passes deriving new observations from overlapping ones
const simplifyPasses = 4

// Director plays by deduction, guessing only when nothing is certain
type Director struct {
	// Guesses draw from Rand, falling back to the board's own generator when
	// nil. The board's generator also seeds the next board on restart.
	Rand *rand.Rand
}

func New(rnd *rand.Rand) *Director {
	return &Director{Rand: rnd}
}

func (director *Director) guessRand(board *game.Board) *rand.Rand {
	if director.Rand != nil {
		return director.Rand
	}
	return board.Rand()
}

type Observation struct {
	origin   *game.Pos
	numMines int
	cells    collections.Set[game.Pos]
}

func (observation Observation) String() string {
	cells := sortedPositions(observation.cells)
	cellsRepr := make([]string, len(cells))
	for i, cell := range cells {
		cellsRepr[i] = fmt.Sprintf("(%d, %d)", cell.Row, cell.Col)
	}

	originRepr := "?"
	if observation.origin != nil {
		originRepr = fmt.Sprintf("(%d, %d)", observation.origin.Row, observation.origin.Col)
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, strings.Join(cellsRepr, ", "))
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.numMines) / float64(len(observation.cells))
}

func (director *Director) Next(board *game.Board) (game.Action, bool) {
	observations := Observe(board)
	for i := 0; i < simplifyPasses; i++ {
		if !simplify(&observations) {
			break
		}
	}

	if action, ok := actDeliberate(observations); ok {
		return action, true
	}
	if action, ok := actLowestProbability(board, observations, director.guessRand(board)); ok {
		return action, true
	}

	fallback := random.Director{Rand: director.Rand}
	return fallback.Next(board)
}

// Observe records, for every opened cell bordering hidden cells, how many of
// those hidden cells are mines.
func Observe(board *game.Board) []*Observation {
	var observations []*Observation

	for _, pos := range board.Positions() {
		if board.At(pos) != game.Opened {
			continue
		}

		origin := pos
		observation := &Observation{
			origin:   &origin,
			numMines: board.Count(pos),
			cells:    make(collections.Set[game.Pos]),
		}
		for _, neighbor := range board.Neighbors(pos) {
			if board.At(neighbor).IsHidden() {
				observation.cells.Add(neighbor)
			}
		}

		addObservation(&observations, observation)
	}

	return observations
}

func addObservation(observations *[]*Observation, observation *Observation) bool {
	// Don't add vacuous observations
	if len(observation.cells) == 0 {
		return false
	}

	// Don't add duplicates
	for _, other := range *observations {
		if other.cells.Equal(observation.cells) {
			return false
		}
	}

	*observations = append(*observations, observation)
	return true
}

// simplify splits observations contained in others, reporting whether any
// new observation was found
func simplify(observations *[]*Observation) bool {
	current := *observations
	added := false

	for _, observation := range current {
		for _, containing := range current {
			if observation == containing || len(observation.cells) >= len(containing.cells) {
				continue
			}
			if !observation.cells.IsSubset(containing.cells) {
				continue
			}

			splitObs := &Observation{
				numMines: containing.numMines - observation.numMines,
				cells:    containing.cells.Difference(observation.cells),
			}
			if addObservation(observations, splitObs) {
				added = true
			}
		}
	}

	return added
}

// actDeliberate returns a move that is certain: opening a cell known to be
// safe, or flagging one known to be a mine
func actDeliberate(observations []*Observation) (game.Action, bool) {
	safeCells := make(collections.Set[game.Pos])
	mineCells := make(collections.Set[game.Pos])

	for _, observation := range observations {
		switch observation.numMines {
		case 0:
			for cell := range observation.cells {
				safeCells.Add(cell)
			}
		case len(observation.cells):
			for cell := range observation.cells {
				mineCells.Add(cell)
			}
		}
	}

	if cells := sortedPositions(safeCells); len(cells) > 0 {
		return game.Action{Kind: game.Open, Pos: cells[0]}, true
	}
	if cells := sortedPositions(mineCells); len(cells) > 0 {
		return game.Action{Kind: game.Flag, Pos: cells[0]}, true
	}
	return game.Action{}, false
}

// actLowestProbability opens the hidden cell least likely to be a mine. Cells
// outside every observation are rated by the density of unflagged mines.
func actLowestProbability(board *game.Board, observations []*Observation, rnd *rand.Rand) (game.Action, bool) {
	cellProbabilities := make(map[game.Pos]float64)
	for _, observation := range observations {
		probability := observation.MineProbability()
		for cell := range observation.cells {
			if past, ok := cellProbabilities[cell]; !ok || probability > past {
				cellProbabilities[cell] = probability
			}
		}
	}

	var hiddenCells []game.Pos
	for _, pos := range board.Positions() {
		if board.At(pos).IsHidden() {
			hiddenCells = append(hiddenCells, pos)
		}
	}
	if len(hiddenCells) == 0 {
		return game.Action{}, false
	}

	density := float64(board.NumMines()-board.NumFlags()) / float64(len(hiddenCells))

	lowestProbability := math.Inf(1)
	var lowestProbabilityCells []game.Pos
	for _, cell := range hiddenCells {
		probability, ok := cellProbabilities[cell]
		if !ok {
			probability = density
		}

		switch {
		case probability < lowestProbability:
			lowestProbability = probability
			lowestProbabilityCells = []game.Pos{cell}
		case probability == lowestProbability:
			lowestProbabilityCells = append(lowestProbabilityCells, cell)
		}
	}

	if len(lowestProbabilityCells) == 0 {
		return game.Action{}, false
	}

	pick := lowestProbabilityCells[rnd.Intn(len(lowestProbabilityCells))]
	logrus.WithFields(logrus.Fields{
		"cell":        pick,
		"probability": lowestProbability,
		"candidates":  len(lowestProbabilityCells),
	}).Debug("guessing")
	return game.Action{Kind: game.Open, Pos: pick}, true
}

func sortedPositions(set collections.Set[game.Pos]) []game.Pos {
	out := make([]game.Pos, 0, len(set))
	for pos := range set {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
