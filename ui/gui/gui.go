package gui

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/faiface/pixel/text"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/cleansweeper/game"
	"github.com/they4kman/cleansweeper/ui"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	cellWidth      = 32
	headerHeight   = 50
	minWindowWidth = 240

	// Delay between director moves, so a human can follow along
	directorInterval = 150 * time.Millisecond
)

var background = pixel.RGB(23.0/255, 23.0/255, 23.0/255)

var countColors = map[int]color.RGBA{
	1: colornames.Blue,
	2: colornames.Green,
	3: colornames.Maroon,
	4: colornames.Black,
	5: colornames.Purple,
	6: colornames.Aqua,
	7: colornames.Olive,
	8: colornames.Lime,
}

func cellColor(state game.CellState) color.RGBA {
	switch state {
	case game.Flagged:
		return colornames.Fuchsia
	case game.Opened:
		return colornames.White
	case game.ExplodedSafe, game.ExplodedMine:
		return colornames.Red
	default:
		return colornames.Gray
	}
}

func windowBounds(board *game.Board) pixel.Rect {
	return pixel.R(
		0, 0,
		math.Max(float64(board.Width()*cellWidth), minWindowWidth),
		float64(board.Height()*cellWidth+headerHeight),
	)
}

func boardGrid(bounds pixel.Rect, board *game.Board) ui.Grid {
	topLeft := bounds.Vertices()[1]
	return ui.NewGrid(board, topLeft.X, topLeft.Y-headerHeight, cellWidth, cellWidth, true)
}

// Run opens the game window and plays until it is closed. It must be called
// from within pixelgl.Run.
func Run(g *game.Game) error {
	cfg := pixelgl.WindowConfig{
		Title:  "cleansweeper",
		Bounds: windowBounds(g.Board()),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	defer win.Destroy()

	basicAtlas := text.NewAtlas(basicfont.Face7x13, text.ASCII)
	imd := imdraw.New(nil)
	board := g.Board()
	grid := boardGrid(win.Bounds(), board)
	lastStep := time.Now()

	for !win.Closed() {
		if g.Board() != board {
			board = g.Board()
			win.SetBounds(windowBounds(board))
			grid = boardGrid(win.Bounds(), board)
		}

		if win.JustPressed(pixelgl.KeyEscape) {
			win.SetClosed(true)
		}
		if win.JustPressed(pixelgl.KeyEnter) || win.JustPressed(pixelgl.KeyR) {
			if err := g.Restart(); err != nil {
				logrus.WithError(err).Error("could not restart")
			}
		}
		if win.JustPressed(pixelgl.KeyU) || win.JustPressed(pixelgl.KeyBackspace) {
			g.Undo()
		}

		if g.CanPlay() && g.Board() == board {
			if g.Config().Director != nil && time.Since(lastStep) >= directorInterval {
				g.Step()
				lastStep = time.Now()
			}

			mouse := win.MousePosition()
			if pos, ok := grid.PosAt(mouse.X, mouse.Y); ok && win.MouseInsideWindow() {
				if win.JustPressed(pixelgl.MouseButtonLeft) {
					g.Flag(pos)
				}
				if win.JustPressed(pixelgl.MouseButtonRight) {
					g.Open(pos)
				}
			}
		}

		win.Clear(background)
		drawHeader(win, basicAtlas, g)
		drawBoard(win, imd, basicAtlas, grid, g.Board())
		win.Update()
	}

	return nil
}

func drawHeader(win *pixelgl.Window, atlas *text.Atlas, g *game.Game) {
	topLeft := win.Bounds().Vertices()[1]

	scoreText := text.New(topLeft.Add(pixel.V(20, -30)), atlas)
	scoreText.Color = colornames.White
	fmt.Fprintf(scoreText, "%03d", g.MinesRemaining())

	switch g.State() {
	case game.Won:
		scoreText.Color = colornames.Green
	case game.Lost:
		scoreText.Color = colornames.Red
	}
	fmt.Fprintf(scoreText, "   %s", ui.StatusText(g.State()))
	if g.CanUndo() {
		scoreText.Color = colornames.Gray
		fmt.Fprint(scoreText, "  [U]ndo")
	}

	scoreText.Draw(win, pixel.IM.Scaled(scoreText.Orig, 1.5))
}

func drawBoard(win *pixelgl.Window, imd *imdraw.IMDraw, atlas *text.Atlas, grid ui.Grid, board *game.Board) {
	imd.Clear()
	countText := text.New(pixel.ZV, atlas)

	for _, pos := range board.Positions() {
		x, y := grid.CellMin(pos)
		start := pixel.V(x+1, y+1)
		end := pixel.V(x+cellWidth-1, y+cellWidth-1)

		state := board.At(pos)
		imd.Color = cellColor(state)
		imd.Push(start, end)
		imd.Rectangle(0) // 0 = filled

		if state != game.Opened {
			continue
		}
		count := board.Count(pos)
		if count == 0 {
			continue
		}

		label := strconv.Itoa(count)
		labelBounds := countText.BoundsOf(label)
		countText.Color = countColors[count]
		countText.Dot = pixel.V(
			x+(cellWidth-labelBounds.W())/2,
			y+(cellWidth-atlas.LineHeight())/2+atlas.Descent(),
		)
		fmt.Fprint(countText, label)
	}

	imd.Draw(win)
	countText.Draw(win, pixel.IM)
}
