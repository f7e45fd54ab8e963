package random

import (
	"math/rand"
	"testing"

	"github.com/they4kman/cleansweeper/game"
)

func TestNextOpensHiddenCell(t *testing.T) {
	snapshot := &game.BoardSnapshot{SerializedBoard: ".O\n#."}
	board, err := snapshot.CreateBoard(false)
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	director := &Director{Rand: rand.New(rand.NewSource(1))}
	for i := 0; i < 10; i++ {
		action, ok := director.Next(board)
		if !ok {
			t.Fatal("director made no move")
		}
		if action.Kind != game.Open || !board.At(action.Pos).IsHidden() {
			t.Fatalf("action = %v, want to open a hidden cell", action)
		}
	}
}

func TestNextWithoutHiddenCells(t *testing.T) {
	snapshot := &game.BoardSnapshot{SerializedBoard: "F.\n.."}
	board, err := snapshot.CreateBoard(false)
	if err != nil {
		t.Fatalf("CreateBoard: %v", err)
	}

	director := &Director{}
	if action, ok := director.Next(board); ok {
		t.Errorf("unexpected move %v", action)
	}
}
