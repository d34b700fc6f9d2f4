package game

import (
	"fmt"

	"qrisk/quantum"

	"github.com/google/uuid"
)

// PlacingMove applies a gate on the qubits of owned territories. A single
// gate needs one territory, a double gate a target then a distinct control.
type PlacingMove struct {
	id      uuid.UUID
	Gate    quantum.Gate
	Bonus   bool // granted by a continental bonus
	Target  string
	Control string
}

func NewPlacingMove(gate quantum.Gate, bonus bool) *PlacingMove {
	return &PlacingMove{id: uuid.New(), Gate: gate, Bonus: bonus}
}

func (m *PlacingMove) ID() uuid.UUID  { return m.id }
func (m *PlacingMove) Kind() MoveKind { return PlacingKind }

func (m *PlacingMove) SelectTerritory(w *World, player int, name string) error {
	if m.Complete() {
		return reject("%s is already complete", m)
	}
	t, err := lookup(w, name)
	if err != nil {
		return err
	}
	if t.Owner != player {
		return reject("%s is not yours", name)
	}
	if m.Target == "" {
		m.Target = name
		return nil
	}
	if name == m.Target {
		return reject("%s cannot control itself", name)
	}
	m.Control = name
	return nil
}

func (m *PlacingMove) Complete() bool {
	if m.Target == "" {
		return false
	}
	return !m.Gate.IsDouble() || m.Control != ""
}

func (m *PlacingMove) Selected() []string {
	var out []string
	if m.Target != "" {
		out = append(out, m.Target)
	}
	if m.Control != "" {
		out = append(out, m.Control)
	}
	return out
}

func (m *PlacingMove) Reset() {
	m.Target, m.Control = "", ""
}

func (m *PlacingMove) String() string {
	label := m.Gate.String()
	if m.Bonus {
		label = "bonus " + label
	}
	if m.Gate.IsDouble() {
		return fmt.Sprintf("%s(target=%s, control=%s)", label, orBlank(m.Target), orBlank(m.Control))
	}
	return fmt.Sprintf("%s(%s)", label, orBlank(m.Target))
}

func orBlank(name string) string {
	if name == "" {
		return "_"
	}
	return name
}
