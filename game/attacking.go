package game

import (
	"fmt"

	"qrisk/quantum"

	"github.com/google/uuid"
)

// AttackingMove pits the qubits of an attacker against those of an adjacent
// enemy territory. The attacker basis is fixed by the move; the defender
// basis is chosen once both territories are known.
type AttackingMove struct {
	id            uuid.UUID
	AttackerBasis quantum.Basis
	DefenderBasis quantum.Basis
	Attacker      string
	Defender      string
}

func NewAttackingMove(basis quantum.Basis) *AttackingMove {
	return &AttackingMove{id: uuid.New(), AttackerBasis: basis}
}

func (m *AttackingMove) ID() uuid.UUID  { return m.id }
func (m *AttackingMove) Kind() MoveKind { return AttackingKind }

func (m *AttackingMove) SelectTerritory(w *World, player int, name string) error {
	t, err := lookup(w, name)
	if err != nil {
		return err
	}
	switch {
	case m.Attacker == "":
		if t.Owner != player {
			return reject("%s is not yours", name)
		}
		if t.LostBattle {
			return reject("%s already fought this round", name)
		}
		if !w.IsNeighborWithOpponent(name) {
			return reject("%s has no enemy neighbor", name)
		}
		m.Attacker = name
	case m.Defender == "":
		if !w.AreDifferentOwnersAndAdjacent(m.Attacker, name) {
			return reject("%s cannot be attacked from %s", name, m.Attacker)
		}
		m.Defender = name
	default:
		return reject("attacker and defender are already chosen")
	}
	return nil
}

// SelectBasis sets the defender's measurement basis. It is only accepted
// after both territories are chosen.
func (m *AttackingMove) SelectBasis(basis quantum.Basis) error {
	if m.Attacker == "" || m.Defender == "" {
		return reject("choose attacker and defender before the defender basis")
	}
	b, err := quantum.ParseBasis(string(basis))
	if err != nil {
		return reject("%v", err)
	}
	m.DefenderBasis = b
	return nil
}

// TerritoriesChosen is true once attacker and defender are set.
func (m *AttackingMove) TerritoriesChosen() bool {
	return m.Attacker != "" && m.Defender != ""
}

func (m *AttackingMove) Complete() bool {
	return m.TerritoriesChosen() && m.AttackerBasis != "" && m.DefenderBasis != ""
}

func (m *AttackingMove) Selected() []string {
	var out []string
	if m.Attacker != "" {
		out = append(out, m.Attacker)
	}
	if m.Defender != "" {
		out = append(out, m.Defender)
	}
	return out
}

func (m *AttackingMove) Reset() {
	m.Attacker, m.Defender, m.DefenderBasis = "", "", ""
}

func (m *AttackingMove) String() string {
	return fmt.Sprintf("attack in %s(%s -> %s, defend in %s)",
		m.AttackerBasis, orBlank(m.Attacker), orBlank(m.Defender), orBlank(string(m.DefenderBasis)))
}
