package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type MoveKind int

const (
	PlacingKind MoveKind = iota
	AttackingKind
	SwapKind
)

func (k MoveKind) String() string {
	switch k {
	case PlacingKind:
		return "placing"
	case AttackingKind:
		return "attacking"
	case SwapKind:
		return "swap"
	default:
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
}

// Move is a candidate move the current player fills in territory by
// territory. A move is applied by the engine only once Complete is true.
type Move interface {
	ID() uuid.UUID
	Kind() MoveKind
	// SelectTerritory records the next territory of the selection protocol.
	// A rejected selection leaves the move unchanged.
	SelectTerritory(w *World, player int, name string) error
	Complete() bool
	// Selected returns the territories chosen so far, in selection order.
	Selected() []string
	Reset()
	String() string
}

// Rejection explains why a selection or confirmation was refused. It is
// shown to the player and never ends the game.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func reject(format string, args ...any) error {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// lookup returns the territory or a rejection naming it.
func lookup(w *World, name string) (*Territory, error) {
	t, ok := w.Territory(name)
	if !ok {
		return nil, reject("unknown territory %q", name)
	}
	return t, nil
}
