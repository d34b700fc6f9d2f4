package game

import (
	"fmt"

	"github.com/google/uuid"
)

// TroopSwap exchanges the first qubit of two connected territories of the
// same player.
type TroopSwap struct {
	id     uuid.UUID
	First  string
	Second string
}

func NewTroopSwap() *TroopSwap {
	return &TroopSwap{id: uuid.New()}
}

func (m *TroopSwap) ID() uuid.UUID  { return m.id }
func (m *TroopSwap) Kind() MoveKind { return SwapKind }

func (m *TroopSwap) SelectTerritory(w *World, player int, name string) error {
	t, err := lookup(w, name)
	if err != nil {
		return err
	}
	switch {
	case m.First == "":
		if t.Owner != player {
			return reject("%s is not yours", name)
		}
		if !w.IsNeighborWithAlly(name) {
			return reject("%s has no allied neighbor", name)
		}
		m.First = name
	case m.Second == "":
		if name == m.First {
			return reject("%s cannot swap with itself", name)
		}
		if !w.AreConnected(m.First, name) {
			return reject("%s is not connected to %s", name, m.First)
		}
		m.Second = name
	default:
		return reject("both territories are already chosen")
	}
	return nil
}

func (m *TroopSwap) Complete() bool {
	return m.First != "" && m.Second != ""
}

func (m *TroopSwap) Selected() []string {
	var out []string
	if m.First != "" {
		out = append(out, m.First)
	}
	if m.Second != "" {
		out = append(out, m.Second)
	}
	return out
}

func (m *TroopSwap) Reset() {
	m.First, m.Second = "", ""
}

func (m *TroopSwap) String() string {
	return fmt.Sprintf("swap(%s <-> %s)", orBlank(m.First), orBlank(m.Second))
}
