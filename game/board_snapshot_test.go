package game

import (
	"errors"
	"testing"
)

func TestSnapshotRestoresBoard(t *testing.T) {
	board, err := NewBoard(BoardConfig{Height: 9, Width: 11, Fraction: 0.2, Topology: Torus, Seed: 3})
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	board.Open(Pos{0, 0})

	snapshot := board.Snapshot()
	if snapshot.ID == "" {
		t.Error("snapshot should carry an id")
	}

	loaded, err := LoadSnapshot(snapshot.Serialize())
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if *loaded != *snapshot {
		t.Fatalf("loaded %+v, want %+v", loaded, snapshot)
	}

	restored, err := loaded.CreateBoard(false)
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if rowsOf(restored) != rowsOf(board) {
		t.Errorf("restored board differs:\n%s\n\nwant:\n%s", rowsOf(restored), rowsOf(board))
	}
	if restored.Topology() != Torus || restored.Seed() != 3 || restored.NumMines() != board.NumMines() {
		t.Errorf("restored %s board, seed %d, %d mines", restored.Topology(), restored.Seed(), restored.NumMines())
	}
}

func TestSnapshotFreshKeepsMines(t *testing.T) {
	snapshot := &BoardSnapshot{
		Topology: "bounded",
		SerializedBoard: "F.....\n" +
			"......\n" +
			"*....x",
	}

	board, err := snapshot.CreateBoard(true)
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	for _, pos := range board.Positions() {
		state := board.At(pos)
		isMinePos := pos == Pos{0, 0} || pos == Pos{2, 0}
		if isMinePos && state != SecretMine {
			t.Errorf("%v = %v, want %v", pos, state, SecretMine)
		}
		if !isMinePos && state.IsMine() {
			t.Errorf("%v = %v, want no mine", pos, state)
		}
	}
	if board.NumMines() != 2 {
		t.Errorf("NumMines = %d, want 2", board.NumMines())
	}
	if board.IsExploded() {
		t.Error("fresh board should not keep explosions")
	}

	opened := 0
	for _, pos := range board.Positions() {
		if board.At(pos) == Opened {
			opened++
		}
	}
	if opened == 0 {
		t.Error("fresh board should have made its opening move")
	}
}

func TestSnapshotAcceptsCRLF(t *testing.T) {
	snapshot := &BoardSnapshot{SerializedBoard: "O.#\r\n...\r\n"}

	board, err := snapshot.CreateBoard(false)
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}
	if got := rowsOf(board); got != "O.#\n..." {
		t.Errorf("got %q, want %q", got, "O.#\n...")
	}
}

func TestSnapshotRejectsBadBoards(t *testing.T) {
	tests := []struct {
		name     string
		snapshot BoardSnapshot
	}{
		{"empty", BoardSnapshot{SerializedBoard: ""}},
		{"ragged", BoardSnapshot{SerializedBoard: "###\n##"}},
		{"unknown cell", BoardSnapshot{SerializedBoard: "#?#"}},
		{"unknown topology", BoardSnapshot{SerializedBoard: "###", Topology: "sphere"}},
		{"bad fraction", BoardSnapshot{SerializedBoard: "###", Fraction: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.snapshot.CreateBoard(false)
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("err = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}

func TestLoadSnapshotRejectsMalformedYAML(t *testing.T) {
	if _, err := LoadSnapshot("seed: [not a number"); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
