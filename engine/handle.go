package engine

import (
	"fmt"
	"time"

	"qrisk/communication"
	"qrisk/game"
	"qrisk/metrics"
	"qrisk/quantum"
	"qrisk/utils"

	"github.com/rs/zerolog/log"
)

// Handle processes one event to completion and renders the result.
// Rejected events are reported to the view and leave the state unchanged.
func (e *Engine) Handle(ev communication.Event) {
	if !e.started {
		e.Start()
	}
	var err error
	switch ev := ev.(type) {
	case communication.MoveSelected:
		err = e.selectMove(ev.Index)
	case communication.TerritorySelected:
		err = e.selectTerritory(ev.Name)
	case communication.BasisSelected:
		err = e.selectBasis(ev)
	case communication.ConfirmPressed:
		err = e.confirm()
	case communication.AdvancePhase:
		if m := e.activeMove(); m != nil {
			m.Reset()
		}
		e.advance()
	default:
		err = &game.Rejection{Reason: fmt.Sprintf("unsupported event %T", ev)}
	}
	if err != nil {
		if !game.IsRejection(err) {
			log.Error().Err(err).Msg("event failed")
		} else {
			log.Debug().Msgf("player %d: %v", e.state.Player, err)
		}
		e.view.Notify(err.Error())
	}
	e.render()
}

func (e *Engine) selectMove(index int) error {
	if index < 0 || index >= len(e.state.Moves) {
		return &game.Rejection{Reason: fmt.Sprintf("no move %d in the %s phase", index, e.state.Phase)}
	}
	if m := e.activeMove(); m != nil {
		m.Reset()
	}
	e.state.Active = index
	e.state.Armed = false
	e.state.Moves[index].Reset()
	e.view.AllowSelection(true, e.state.Player, false)
	return nil
}

func (e *Engine) selectTerritory(name string) error {
	m := e.activeMove()
	if m == nil {
		return &game.Rejection{Reason: "select a move first"}
	}
	if err := m.SelectTerritory(e.world, e.state.Player, name); err != nil {
		return err
	}
	if am, ok := m.(*game.AttackingMove); ok && am.TerritoriesChosen() && e.sharedBasis {
		if err := am.SelectBasis(am.AttackerBasis); err != nil {
			return err
		}
	}
	e.afterSelection(m)
	return nil
}

func (e *Engine) selectBasis(ev communication.BasisSelected) error {
	am, ok := e.activeMove().(*game.AttackingMove)
	if !ok {
		return &game.Rejection{Reason: "only attacks take a basis"}
	}
	if e.sharedBasis {
		return &game.Rejection{Reason: "the defender measures in the attacker's basis"}
	}
	if err := am.SelectBasis(ev.Basis); err != nil {
		return err
	}
	e.afterSelection(am)
	return nil
}

// afterSelection arms the confirmation once m is complete, otherwise tells
// the views which side the next territory comes from.
func (e *Engine) afterSelection(m game.Move) {
	if m.Complete() {
		e.state.Armed = true
		e.view.AllowSelection(false, e.state.Player, false)
		e.view.RequestConfirmation()
		return
	}
	am, isAttack := m.(*game.AttackingMove)
	if isAttack && am.TerritoriesChosen() {
		e.view.AllowSelection(false, e.state.Player, false)
		return
	}
	opponent := isAttack && am.Attacker != ""
	e.view.AllowSelection(true, e.state.Player, opponent)
}

func (e *Engine) confirm() error {
	if !e.state.Armed {
		return &game.Rejection{Reason: "nothing to confirm"}
	}
	e.state.Armed = false
	m := e.activeMove()

	switch mv := m.(type) {
	case *game.PlacingMove:
		if err := e.applyPlacing(mv); err != nil {
			return err
		}
		e.state.Moves = utils.Remove(e.state.Moves, m)
		e.state.Active = -1
		if len(e.state.Moves) == 0 {
			e.advance()
		}
	case *game.AttackingMove:
		result, err := e.resolveCombat(mv)
		if err != nil {
			return err
		}
		e.lastCombat = &result
		e.enterAttacking(false)
	case *game.TroopSwap:
		if err := e.applySwap(mv); err != nil {
			return err
		}
		e.advance()
	}
	return nil
}

// applyPlacing applies the gate on the first qubit of the chosen
// territories, from control to target for double gates.
func (e *Engine) applyPlacing(m *game.PlacingMove) error {
	target, _ := e.world.Territory(m.Target)
	if !m.Gate.IsDouble() {
		if err := e.register.ApplySingleGate(m.Gate, target.Qubits[0]); err != nil {
			return fmt.Errorf("apply %s: %w", m, err)
		}
	} else {
		control, _ := e.world.Territory(m.Control)
		if err := e.register.ApplyDoubleGate(m.Gate, control.Qubits[0], target.Qubits[0]); err != nil {
			return fmt.Errorf("apply %s: %w", m, err)
		}
	}
	e.collector.AddGate()
	log.Info().Msgf("player %d applied %s", e.state.Player, m)
	return nil
}

func (e *Engine) applySwap(m *game.TroopSwap) error {
	first, _ := e.world.Territory(m.First)
	second, _ := e.world.Territory(m.Second)
	if err := e.register.ApplySwap(first.Qubits[0], second.Qubits[0]); err != nil {
		return fmt.Errorf("apply %s: %w", m, err)
	}
	e.collector.AddSwap()
	log.Info().Msgf("player %d applied %s", e.state.Player, m)
	return nil
}

// resolveCombat measures both sides and moves the defender to the attacker
// if the attacker reads strictly higher. The attacker cannot attack again
// this round, whatever the outcome.
func (e *Engine) resolveCombat(m *game.AttackingMove) (CombatResult, error) {
	attacker, _ := e.world.Territory(m.Attacker)
	defender, _ := e.world.Territory(m.Defender)

	attackValue, err := e.measureTroops(attacker, m.AttackerBasis)
	if err != nil {
		return CombatResult{}, err
	}
	defendValue, err := e.measureTroops(defender, m.DefenderBasis)
	if err != nil {
		return CombatResult{}, err
	}

	result := CombatResult{
		Attacker:      attacker.Name,
		Defender:      defender.Name,
		AttackerBasis: m.AttackerBasis,
		DefenderBasis: m.DefenderBasis,
		AttackerValue: attackValue,
		DefenderValue: defendValue,
		AttackerWon:   attackValue > defendValue,
	}
	if result.AttackerWon {
		defender.Owner = attacker.Owner
	}
	attacker.LostBattle = true

	e.collector.AddCombat(metrics.CombatRecord{
		Turn:          e.state.Turn,
		Player:        e.state.Player,
		Attacker:      result.Attacker,
		Defender:      result.Defender,
		AttackerBasis: string(result.AttackerBasis),
		DefenderBasis: string(result.DefenderBasis),
		AttackerValue: result.AttackerValue,
		DefenderValue: result.DefenderValue,
		AttackerWon:   result.AttackerWon,
		Time:          time.Now(),
	})
	log.Info().Msgf("%s (%d in %s) attacked %s (%d in %s): attacker won=%t",
		result.Attacker, attackValue, result.AttackerBasis, result.Defender, defendValue, result.DefenderBasis, result.AttackerWon)
	return result, nil
}

// measureTroops reads the qubits of t, first qubit as the most significant
// bit, with +1 read as 1 and -1 as 0.
func (e *Engine) measureTroops(t *game.Territory, basis quantum.Basis) (uint64, error) {
	var value uint64
	for _, q := range t.Qubits {
		outcome, err := e.register.MeasureInBasis(q, basis)
		if err != nil {
			return 0, fmt.Errorf("measure %s: %w", t.Name, err)
		}
		e.collector.AddMeasurement()
		value <<= 1
		if outcome == 1 {
			value |= 1
		}
	}
	return value, nil
}
