package game

import (
	"errors"
	"fmt"

	"qrisk/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrOwnershipExhausted = errors.New("no balanced ownership found")

// Possessions returns the territories owned by player, in declaration order.
func (w *World) Possessions(player int) []*Territory {
	var owned []*Territory
	for _, t := range w.Territories() {
		if t.Owner == player {
			owned = append(owned, t)
		}
	}
	return owned
}

// AreAdjacent checks if two territories share a border.
func (w *World) AreAdjacent(a, b string) bool {
	return contains(w.adjacent[a], b)
}

func (w *World) AreDifferentOwnersAndAdjacent(a, b string) bool {
	return w.Owner(a) != w.Owner(b) && w.AreAdjacent(a, b)
}

// IsNeighborWithOpponent reports whether name borders a territory of another owner.
func (w *World) IsNeighborWithOpponent(name string) bool {
	for _, adj := range w.adjacent[name] {
		if w.Owner(adj) != w.Owner(name) {
			return true
		}
	}
	return false
}

// IsNeighborWithAlly reports whether name borders a territory of the same owner.
func (w *World) IsNeighborWithAlly(name string) bool {
	for _, adj := range w.adjacent[name] {
		if w.Owner(adj) == w.Owner(name) {
			return true
		}
	}
	return false
}

// Just BFS through the territories of the owner of from
func (w *World) AreConnected(from, to string) bool {
	if _, ok := w.territories[from]; !ok {
		return false
	}
	if _, ok := w.territories[to]; !ok {
		return false
	}
	owner := w.Owner(from)
	if w.Owner(to) != owner {
		return false
	}
	if from == to {
		return true
	}
	visited := make(map[string]bool)
	queue := []string{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, adj := range w.adjacent[current] {
			if w.Owner(adj) != owner {
				continue
			}
			if adj == to {
				return true
			}
			if !visited[adj] {
				queue = append(queue, adj)
			}
		}
	}
	return false
}

// continentOwner returns the player who owns every territory of the
// continent, or 0 if it is split or neutral.
func (w *World) continentOwner(c *Continent) int {
	if len(c.Territories) == 0 {
		return 0
	}
	owner := w.Owner(c.Territories[0])
	for _, name := range c.Territories[1:] {
		if w.Owner(name) != owner {
			return 0
		}
	}
	return owner
}

// HasContinentalBonus is true iff the continent has at least two territories
// and player owns all of them.
func (w *World) HasContinentalBonus(continent string, player int) bool {
	c, ok := w.continents[continent]
	if !ok || len(c.Territories) < 2 || player == 0 {
		return false
	}
	return w.continentOwner(c) == player
}

// AllContinentalBonusGates returns one prefixed gate symbol per continent
// granting player its bonus.
func (w *World) AllContinentalBonusGates(player int) []string {
	var gates []string
	for _, c := range w.Continents() {
		if w.HasContinentalBonus(c.Name, player) {
			gates = append(gates, meta.BONUS_PREFIX+c.Gate.String())
		}
	}
	return gates
}

func (w *World) bonusCount(player int) int {
	return len(w.AllContinentalBonusGates(player))
}

// InitializeRandomOwnership splits the territories into two random halves of
// equal size (one more for player 2 on an odd count). The split is redrawn
// while any player starts with two or more continental bonuses.
func (w *World) InitializeRandomOwnership(rng *rand.Rand) error {
	names := append([]string{}, w.order...)
	for attempt := 1; attempt <= meta.MAX_OWNERSHIP_ATTEMPTS; attempt++ {
		rng.Shuffle(len(names), func(i, j int) {
			names[i], names[j] = names[j], names[i]
		})
		half := len(names) / 2
		for i, name := range names {
			if i < half {
				w.SetOwner(name, 1)
			} else {
				w.SetOwner(name, 2)
			}
		}
		if w.bonusCount(1) < 2 && w.bonusCount(2) < 2 {
			log.Info().Msgf("ownership drawn after %d attempt(s)", attempt)
			return nil
		}
	}
	return fmt.Errorf("%w after %d attempts", ErrOwnershipExhausted, meta.MAX_OWNERSHIP_ATTEMPTS)
}

// ClearLostBattles lets every territory attack again.
func (w *World) ClearLostBattles() {
	for _, t := range w.territories {
		t.LostBattle = false
	}
}

// Winner returns the player owning every territory, or 0.
func (w *World) Winner() int {
	winner := 0
	for _, t := range w.territories {
		if t.Owner == 0 {
			return 0
		}
		if winner == 0 {
			winner = t.Owner
		} else if winner != t.Owner {
			return 0
		}
	}
	return winner
}

// Opponent returns the other player.
func Opponent(player int) int {
	if player == 1 {
		return 2
	}
	return 1
}
