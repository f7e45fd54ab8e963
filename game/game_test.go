package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestGame(t *testing.T, easy bool, rows ...string) *Game {
	t.Helper()

	config := NewGameConfig()
	config.Easy = easy
	config.LoadSnapshotFresh = false
	config.Snapshot = &BoardSnapshot{
		Topology:        "bounded",
		SerializedBoard: strings.Join(rows, "\n"),
	}

	g, err := NewGame(config)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

type scriptedDirector struct {
	actions []Action
}

func (director *scriptedDirector) Next(board *Board) (Action, bool) {
	if len(director.actions) == 0 {
		return Action{}, false
	}
	action := director.actions[0]
	director.actions = director.actions[1:]
	return action, true
}

func TestGameLosesOnExplosion(t *testing.T) {
	g := newTestGame(t, false, "O.#")

	if outcome := g.Flag(Pos{0, 2}); outcome != Exploded {
		t.Fatalf("Flag = %v, want Exploded", outcome)
	}
	if g.State() != Lost {
		t.Fatalf("state = %v, want %v", g.State(), Lost)
	}

	// Finished games ignore further moves
	if outcome := g.Flag(Pos{0, 0}); outcome != Unchanged {
		t.Errorf("Flag after loss = %v, want Unchanged", outcome)
	}
	if g.Board().At(Pos{0, 0}) != SecretMine {
		t.Error("board changed after the game was lost")
	}
}

func TestGameWinsWhenCleared(t *testing.T) {
	g := newTestGame(t, false, "O.#")

	if outcome := g.Apply(FlagAt(0, 0)); outcome != Progressed {
		t.Fatalf("Flag = %v, want Progressed", outcome)
	}
	if g.State() != Won {
		t.Errorf("state = %v, want %v", g.State(), Won)
	}
	if g.MinesRemaining() != 0 {
		t.Errorf("MinesRemaining = %d, want 0", g.MinesRemaining())
	}
}

func TestLoadedFinishedBoards(t *testing.T) {
	if g := newTestGame(t, false, "*.#"); g.State() != Lost {
		t.Errorf("exploded board loaded as %v", g.State())
	}
	if g := newTestGame(t, false, "F.."); g.State() != Won {
		t.Errorf("cleared board loaded as %v", g.State())
	}
}

func TestUndoTakesBackLosingMove(t *testing.T) {
	g := newTestGame(t, true, "O.#")

	g.Open(Pos{0, 0})
	if g.State() != Lost {
		t.Fatalf("state = %v, want %v", g.State(), Lost)
	}
	if !g.CanUndo() {
		t.Fatal("easy mode should allow undoing the losing move")
	}

	if !g.Undo() {
		t.Fatal("Undo returned false")
	}
	if g.State() != Ongoing {
		t.Errorf("state after undo = %v, want %v", g.State(), Ongoing)
	}
	if got := rowsOf(g.Board()); got != "O.#" {
		t.Errorf("board after undo = %q, want %q", got, "O.#")
	}

	g.Flag(Pos{0, 0})
	if g.State() != Won {
		t.Errorf("state = %v, want %v", g.State(), Won)
	}
}

func TestUndoRequiresEasyMode(t *testing.T) {
	g := newTestGame(t, false, "O.#")

	g.Open(Pos{0, 0})
	if g.CanUndo() || g.Undo() {
		t.Error("undo should not be available outside easy mode")
	}
	if g.State() != Lost {
		t.Errorf("state = %v, want %v", g.State(), Lost)
	}
}

func TestUnchangedMovesLeaveNoHistory(t *testing.T) {
	g := newTestGame(t, true, "O.#")

	g.Open(Pos{0, 1})
	g.Open(Pos{5, 5})
	if g.CanUndo() {
		t.Error("moves that change nothing should not be undoable")
	}
}

func TestHistoryLimit(t *testing.T) {
	config := NewGameConfig()
	config.Easy = true
	config.HistoryLimit = 2
	config.LoadSnapshotFresh = false
	config.Snapshot = &BoardSnapshot{SerializedBoard: "O#O#O#O"}

	g, err := NewGame(config)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	g.Flag(Pos{0, 0})
	g.Flag(Pos{0, 2})
	g.Flag(Pos{0, 4})

	undone := 0
	for g.Undo() {
		undone++
	}
	if undone != 2 {
		t.Errorf("undid %d moves, want 2", undone)
	}
	if got := rowsOf(g.Board()); got != "F#O#O#O" {
		t.Errorf("board = %q, want %q", got, "F#O#O#O")
	}
}

func TestHistoryStoresOnlyChangedCells(t *testing.T) {
	firstRow := strings.Repeat("O#", MaxDimension/2)
	otherRow := strings.Repeat("#", MaxDimension)
	rows := []string{firstRow}
	for i := 1; i < MaxDimension; i++ {
		rows = append(rows, otherRow)
	}
	g := newTestGame(t, true, rows...)

	for col := 0; col < MaxDimension; col += 2 {
		if outcome := g.Flag(Pos{0, col}); outcome != Progressed {
			t.Fatalf("Flag(0, %d) = %v, want Progressed", col, outcome)
		}
	}

	if g.history.len() != DefaultHistoryLimit {
		t.Fatalf("history holds %d moves, want %d", g.history.len(), DefaultHistoryLimit)
	}
	if cells := g.history.cells(); cells != DefaultHistoryLimit {
		t.Errorf("history holds %d cells, want one per move", cells)
	}

	for g.Undo() {
	}
	if got := rowsOf(g.Board()); got != strings.Join(rows, "\n") {
		t.Error("undoing every move should restore the loaded board")
	}
}

func TestUndoRevertsFlood(t *testing.T) {
	g := newTestGame(t, true,
		"O###",
		"####",
		"####",
	)

	g.Open(Pos{2, 3})
	if got := g.history.cells(); got != 11 {
		t.Errorf("history holds %d cells, want 11", got)
	}

	g.Undo()
	if got := rowsOf(g.Board()); got != "O###\n####\n####" {
		t.Errorf("board after undo = %q", got)
	}
}

func TestOnGameEnd(t *testing.T) {
	var ended []BoardState

	config := NewGameConfig()
	config.Easy = true
	config.LoadSnapshotFresh = false
	config.Snapshot = &BoardSnapshot{SerializedBoard: "O.#"}
	config.OnGameEnd = func(g *Game) {
		ended = append(ended, g.State())
	}

	g, err := NewGame(config)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	g.Open(Pos{0, 0})
	g.Undo()
	g.Flag(Pos{0, 0})

	if len(ended) != 2 || ended[0] != Lost || ended[1] != Won {
		t.Errorf("end states = %v, want [loss win]", ended)
	}
}

func TestRestart(t *testing.T) {
	config := NewGameConfig()
	config.Easy = true
	config.Seed = 11

	g, err := NewGame(config)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	first := g.Board()

	for _, pos := range first.Positions() {
		if first.At(pos) == SecretMine {
			g.Open(pos)
			break
		}
	}
	if g.State() != Lost {
		t.Fatalf("state = %v, want %v", g.State(), Lost)
	}

	if err := g.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if g.Board() == first {
		t.Fatal("restart should build a new board")
	}
	if g.State() != Ongoing {
		t.Errorf("state = %v, want %v", g.State(), Ongoing)
	}
	if g.CanUndo() {
		t.Error("restart should clear the undo history")
	}
	if g.Config().Seed == 11 || g.Board().Seed() != g.Config().Seed {
		t.Errorf("restart seed = %d, board seed = %d", g.Config().Seed, g.Board().Seed())
	}
	if g.Board().Height() != DefaultHeight || g.Board().Width() != DefaultWidth {
		t.Errorf("restarted board is %dx%d", g.Board().Height(), g.Board().Width())
	}
}

func TestStepUsesDirector(t *testing.T) {
	config := NewGameConfig()
	config.LoadSnapshotFresh = false
	config.Snapshot = &BoardSnapshot{SerializedBoard: "O.#"}
	config.Director = &scriptedDirector{actions: []Action{FlagAt(0, 0)}}

	g, err := NewGame(config)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	action, outcome, ok := g.Step()
	if !ok || action != FlagAt(0, 0) || outcome != Progressed {
		t.Fatalf("Step = %v, %v, %v", action, outcome, ok)
	}
	if g.State() != Won {
		t.Errorf("state = %v, want %v", g.State(), Won)
	}
	if _, _, ok := g.Step(); ok {
		t.Error("Step should do nothing once the game is over")
	}
}

func TestSaveSnapshotOnGameEnd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")

	config := NewGameConfig()
	config.LoadSnapshotFresh = false
	config.Snapshot = &BoardSnapshot{SerializedBoard: "O.#"}
	config.SavedSnapshotsDir = dir

	g, err := NewGame(config)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	g.Open(Pos{0, 0})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("found %d snapshots, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.Contains(name, "_loss_") || !strings.HasSuffix(name, ".yaml") {
		t.Errorf("unexpected snapshot name %q", name)
	}

	in, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	snapshot, err := LoadSnapshot(string(in))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snapshot.SerializedBoard != "*.#" {
		t.Errorf("saved board = %q, want %q", snapshot.SerializedBoard, "*.#")
	}
}

func TestSaveSnapshotIntoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taken")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	g := newTestGame(t, false, "O.#")
	if _, err := SaveSnapshot(path, g, time.Now()); err == nil {
		t.Error("saving into a regular file should fail")
	}
}

func TestGenerateReplayFilename(t *testing.T) {
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		state BoardState
		id    string
		want  string
	}{
		{Won, "0f8fad5b-d9cb-469f-a165-70867728950e", "20240309_140507_win_0f8fad5b.yaml"},
		{Lost, "abc", "20240309_140507_loss_abc.yaml"},
		{Ongoing, "", "20240309_140507_other.yaml"},
	}

	for _, tt := range tests {
		if got := generateReplayFilename(tt.state, tt.id, at); got != tt.want {
			t.Errorf("generateReplayFilename(%v, %q) = %q, want %q", tt.state, tt.id, got, tt.want)
		}
	}
}
