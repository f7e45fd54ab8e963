package term

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/they4kman/cleansweeper/game"
	"github.com/they4kman/cleansweeper/ui"
)

const (
	boardLeft = 1
	boardTop  = 2
	// Two columns per cell keep the board roughly square in a terminal
	cellColumns = 2

	tickInterval = 150 * time.Millisecond
)

const help = "mouse: left flag, right open | keys: arrows move, f flag, space open, u undo, r restart, q quit"

var countColors = map[int]tcell.Color{
	1: tcell.ColorBlue,
	2: tcell.ColorGreen,
	3: tcell.ColorMaroon,
	4: tcell.ColorBlack,
	5: tcell.ColorPurple,
	6: tcell.ColorAqua,
	7: tcell.ColorOlive,
	8: tcell.ColorLime,
}

type Terminal struct {
	screen tcell.Screen
	game   *game.Game

	cursor  game.Pos
	buttons tcell.ButtonMask
}

func New(screen tcell.Screen, g *game.Game) *Terminal {
	return &Terminal{
		screen: screen,
		game:   g,
	}
}

// Run plays in the current terminal until the player quits
func Run(g *game.Game) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse()
	New(screen, g).loop()
	return nil
}

func (t *Terminal) loop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	t.draw()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !t.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			if t.game.Config().Director != nil {
				t.game.Step()
			}
		}
		t.draw()
	}
}

func (t *Terminal) grid() ui.Grid {
	return ui.NewGrid(t.game.Board(), boardLeft, boardTop, cellColumns, 1, false)
}

func (t *Terminal) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.handleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// handleKey applies a key press, returning false when the player quits
func (t *Terminal) handleKey(key tcell.Key, r rune) bool {
	board := t.game.Board()

	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		t.cursor = ui.Clamp(board, game.Pos{Row: t.cursor.Row - 1, Col: t.cursor.Col})
	case tcell.KeyDown:
		t.cursor = ui.Clamp(board, game.Pos{Row: t.cursor.Row + 1, Col: t.cursor.Col})
	case tcell.KeyLeft:
		t.cursor = ui.Clamp(board, game.Pos{Row: t.cursor.Row, Col: t.cursor.Col - 1})
	case tcell.KeyRight:
		t.cursor = ui.Clamp(board, game.Pos{Row: t.cursor.Row, Col: t.cursor.Col + 1})
	case tcell.KeyEnter:
		t.game.Open(t.cursor)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.game.Undo()
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case 'f':
			t.game.Flag(t.cursor)
		case ' ':
			t.game.Open(t.cursor)
		case 'u':
			t.game.Undo()
		case 'r':
			t.restart()
		}
	}
	return true
}

// handleMouse acts on buttons as they go down; tcell repeats the held mask
// on every motion event
func (t *Terminal) handleMouse(x, y int, buttons tcell.ButtonMask) {
	pressed := buttons &^ t.buttons
	t.buttons = buttons

	pos, ok := t.grid().PosAt(float64(x), float64(y))
	if !ok {
		return
	}
	t.cursor = pos

	if pressed&tcell.Button1 != 0 {
		t.game.Flag(pos)
	}
	if pressed&tcell.Button2 != 0 {
		t.game.Open(pos)
	}
}

func (t *Terminal) restart() {
	if err := t.game.Restart(); err != nil {
		logrus.WithError(err).Error("could not restart")
		return
	}
	t.cursor = ui.Clamp(t.game.Board(), t.cursor)
}

func (t *Terminal) draw() {
	t.screen.Clear()

	status := fmt.Sprintf("%03d  %s", t.game.MinesRemaining(), ui.StatusText(t.game.State()))
	if t.game.CanUndo() {
		status += "  [u]ndo"
	}
	statusStyle := tcell.StyleDefault.Bold(true)
	switch t.game.State() {
	case game.Won:
		statusStyle = statusStyle.Foreground(tcell.ColorGreen)
	case game.Lost:
		statusStyle = statusStyle.Foreground(tcell.ColorRed)
	}
	t.drawString(boardLeft, 0, status, statusStyle)

	board := t.game.Board()
	grid := t.grid()
	for _, pos := range board.Positions() {
		x, y := grid.CellMin(pos)
		glyph, style := cellGlyph(board, pos)
		if pos == t.cursor {
			style = style.Reverse(true)
		}
		t.screen.SetContent(int(x), int(y), glyph, nil, style)
		t.screen.SetContent(int(x)+1, int(y), ' ', nil, style)
	}

	_, height := grid.Size()
	t.drawString(boardLeft, boardTop+int(height)+1, help, tcell.StyleDefault.Dim(true))

	t.screen.Show()
}

func (t *Terminal) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func cellGlyph(board *game.Board, pos game.Pos) (rune, tcell.Style) {
	style := tcell.StyleDefault
	switch board.At(pos) {
	case game.Flagged:
		return 'F', style.Background(tcell.ColorFuchsia).Foreground(tcell.ColorWhite)
	case game.Opened:
		count := board.Count(pos)
		if count == 0 {
			return ' ', style.Background(tcell.ColorWhite)
		}
		return rune('0' + count), style.Background(tcell.ColorWhite).Foreground(countColors[count])
	case game.ExplodedSafe, game.ExplodedMine:
		return '*', style.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
	default:
		return ' ', style.Background(tcell.ColorGray)
	}
}
