package game

import (
	"errors"
	"fmt"
)

type CellState uint8
type BoardState int
type Topology int
type ActionKind int
type Outcome int

const (
	SecretSafe CellState = iota
	SecretMine
	Flagged
	Opened
	ExplodedSafe
	ExplodedMine
)

var CellStates = []CellState{
	SecretSafe,
	SecretMine,
	Flagged,
	Opened,
	ExplodedSafe,
	ExplodedMine,
}

func (state CellState) String() string {
	switch state {
	case SecretSafe:
		return "secret-safe"
	case SecretMine:
		return "secret-mine"
	case Flagged:
		return "flagged"
	case Opened:
		return "opened"
	case ExplodedSafe:
		return "exploded-safe"
	case ExplodedMine:
		return "exploded-mine"
	}
	return "unknown"
}

// IsHidden reports whether the player cannot yet see what the cell holds
func (state CellState) IsHidden() bool {
	return state == SecretSafe || state == SecretMine
}

// IsMine reports whether the cell holds a mine, flagged or not
func (state CellState) IsMine() bool {
	return state == SecretMine || state == Flagged || state == ExplodedMine
}

const (
	Ongoing BoardState = iota
	Won
	Lost
)

func (state BoardState) String() string {
	switch state {
	case Ongoing:
		return "ongoing"
	case Won:
		return "win"
	case Lost:
		return "loss"
	}
	return "other"
}

const (
	Bounded Topology = iota
	Torus
)

func (topology Topology) String() string {
	if topology == Torus {
		return "torus"
	}
	return "bounded"
}

func ParseTopology(name string) (Topology, error) {
	switch name {
	case "", "bounded":
		return Bounded, nil
	case "torus":
		return Torus, nil
	}
	return Bounded, fmt.Errorf("unknown topology %q", name)
}

const (
	Open ActionKind = iota
	Flag
)

func (kind ActionKind) String() string {
	if kind == Flag {
		return "flag"
	}
	return "open"
}

const (
	Unchanged Outcome = iota
	Progressed
	Exploded
)

const (
	DefaultHeight       = 16
	DefaultWidth        = 16
	DefaultFraction     = 0.25
	DefaultHistoryLimit = 256

	MaxDimension     = 512
	maxStartAttempts = 64
)

var (
	ErrInvalidDimensions = errors.New("invalid board dimensions")
	ErrInvalidFraction   = errors.New("invalid mine fraction")
	ErrNoSafeStart       = errors.New("no zero-count cell to start from")
	ErrInvalidSnapshot   = errors.New("invalid board snapshot")
)
