package engine

import (
	"context"
	"time"

	"qrisk/communication"

	"github.com/rs/zerolog/log"
)

// Run feeds events to Handle until ctx is done or events is closed. Every
// poll interval it takes at most one pending event; an event in progress is
// always handled to the end before cancellation is looked at again.
func (e *Engine) Run(ctx context.Context, events <-chan communication.Event) error {
	if !e.started {
		e.Start()
	}
	ticker := time.NewTicker(e.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("engine stopped at turn %d", e.state.Turn)
			return ctx.Err()
		case <-ticker.C:
			select {
			case ev, ok := <-events:
				if !ok {
					log.Info().Msg("event source closed")
					return nil
				}
				e.Handle(ev)
			default:
			}
		}
	}
}

func (e *Engine) render() {
	e.view.Render(e.Snapshot())
}

// Snapshot describes the current state for the views.
func (e *Engine) Snapshot() communication.Snapshot {
	s := communication.Snapshot{
		Player: e.state.Player,
		Phase:  e.state.Phase.String(),
		Active: e.state.Active,
		Armed:  e.state.Armed,
	}
	for _, m := range e.state.Moves {
		s.Moves = append(s.Moves, communication.MoveView{
			ID:       m.ID().String(),
			Kind:     m.Kind().String(),
			Label:    m.String(),
			Selected: m.Selected(),
		})
	}
	for _, t := range e.world.Territories() {
		tv := communication.TerritoryView{
			Name:       t.Name,
			Owner:      t.Owner,
			Continent:  t.Continent,
			Qubits:     append([]int{}, t.Qubits...),
			LostBattle: t.LostBattle,
			Neighbors:  e.world.Neighbors(t.Name),
			X:          t.X,
			Y:          t.Y,
		}
		for _, q := range t.Qubits {
			x, y, z, err := e.register.BlochVector(q)
			if err != nil {
				log.Warn().Err(err).Msgf("no Bloch vector for qubit %d", q)
				continue
			}
			tv.Bloch = append(tv.Bloch, communication.Vector{X: x, Y: y, Z: z})
		}
		s.Territories = append(s.Territories, tv)
	}
	if c := e.lastCombat; c != nil {
		s.LastCombat = &communication.CombatView{
			Attacker:      c.Attacker,
			Defender:      c.Defender,
			AttackerBasis: string(c.AttackerBasis),
			DefenderBasis: string(c.DefenderBasis),
			AttackerValue: c.AttackerValue,
			DefenderValue: c.DefenderValue,
			AttackerWon:   c.AttackerWon,
		}
	}
	return s
}
