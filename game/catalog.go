package game

import (
	"strings"

	"qrisk/meta"
	"qrisk/quantum"

	"github.com/rs/zerolog/log"
)

// PlacingMoves returns one move per territory owned by player, carrying the
// gate of its continent, followed by one move per continental bonus.
func PlacingMoves(w *World, player int) []Move {
	var moves []Move
	for _, t := range w.Possessions(player) {
		c, ok := w.Continent(t.Continent)
		if !ok {
			continue
		}
		moves = append(moves, NewPlacingMove(c.Gate, false))
	}
	for _, symbol := range w.AllContinentalBonusGates(player) {
		gate, err := quantum.ParseGate(strings.TrimPrefix(symbol, meta.BONUS_PREFIX))
		if err != nil {
			log.Warn().Msgf("skipping bonus gate %q: %v", symbol, err)
			continue
		}
		moves = append(moves, NewPlacingMove(gate, true))
	}
	return moves
}

// AttackingMoves returns the three attacks, one per attacker basis.
func AttackingMoves() []Move {
	moves := make([]Move, 0, len(quantum.Bases))
	for _, b := range quantum.Bases {
		moves = append(moves, NewAttackingMove(b))
	}
	return moves
}

func SwapMoves() []Move {
	return []Move{NewTroopSwap()}
}
