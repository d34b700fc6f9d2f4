package game

import (
	"testing"

	"qrisk/meta"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestAreConnected(t *testing.T) {
	w := testWorld(t, map[string]int{"A": 1, "B": 1, "C": 2, "D": 1, "E": 1})

	t.Run("is reflexive", func(t *testing.T) {
		for _, ter := range w.Territories() {
			require.True(t, w.AreConnected(ter.Name, ter.Name), ter.Name)
		}
	})

	t.Run("is symmetric", func(t *testing.T) {
		for _, a := range w.Territories() {
			for _, b := range w.Territories() {
				require.Equal(t, w.AreConnected(a.Name, b.Name), w.AreConnected(b.Name, a.Name), "%s/%s", a.Name, b.Name)
			}
		}
	})

	t.Run("follows the owner's territories only", func(t *testing.T) {
		require.True(t, w.AreConnected("A", "B"))
		require.True(t, w.AreConnected("D", "E"))
		require.False(t, w.AreConnected("A", "D"), "C belongs to the opponent and cuts the path")
		require.False(t, w.AreConnected("B", "C"), "Different owners are never connected")
	})

	t.Run("unknown territories are not connected", func(t *testing.T) {
		require.False(t, w.AreConnected("A", "nowhere"))
	})
}

func TestNeighborQueries(t *testing.T) {
	w := testWorld(t, map[string]int{"A": 1, "B": 1, "C": 2, "D": 2, "E": 1})

	require.True(t, w.AreDifferentOwnersAndAdjacent("B", "C"))
	require.False(t, w.AreDifferentOwnersAndAdjacent("A", "B"))
	require.False(t, w.AreDifferentOwnersAndAdjacent("A", "C"), "Not adjacent")
	require.True(t, w.IsNeighborWithOpponent("B"))
	require.False(t, w.IsNeighborWithOpponent("A"))
	require.True(t, w.IsNeighborWithAlly("A"))
	require.False(t, w.IsNeighborWithAlly("E"))
	require.Len(t, w.Possessions(1), 3)
	require.Len(t, w.Possessions(2), 2)
}

func TestContinentalBonus(t *testing.T) {
	t.Run("needs every territory of a multi-territory continent", func(t *testing.T) {
		w := testWorld(t, map[string]int{"A": 1, "B": 1, "C": 1, "D": 2, "E": 1})
		require.True(t, w.HasContinentalBonus("North", 1))
		require.False(t, w.HasContinentalBonus("North", 2))
		require.False(t, w.HasContinentalBonus("South", 1))
		require.False(t, w.HasContinentalBonus("Island", 1), "Single-territory continents never grant a bonus")
		require.Equal(t, []string{meta.BONUS_PREFIX + "XY"}, w.AllContinentalBonusGates(1))
		require.Empty(t, w.AllContinentalBonusGates(2))
	})

	t.Run("two territories one continent", func(t *testing.T) {
		w, err := NewWorld(Definition{
			Territories: []TerritoryDef{
				{Name: "A", Troops: 1, Continent: "Only"},
				{Name: "B", Troops: 1, Continent: "Only"},
			},
			Edges:      [][]string{{"A", "B"}},
			Continents: map[string]string{"Only": "X"},
		})
		require.NoError(t, err)
		w.SetOwner("A", 1)
		w.SetOwner("B", 1)
		require.Equal(t, []string{"+X"}, w.AllContinentalBonusGates(1), "Exactly one bonus gate")
	})
}

func TestInitializeRandomOwnership(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		w := testWorld(t, nil)
		require.NoError(t, w.InitializeRandomOwnership(rng))

		require.Len(t, w.Possessions(1), 2)
		require.Len(t, w.Possessions(2), 3, "Player 2 takes the larger half")
		require.Less(t, len(w.AllContinentalBonusGates(1)), 2)
		require.Less(t, len(w.AllContinentalBonusGates(2)), 2)
	}
}

func TestInitializeRandomOwnershipTwoContinents(t *testing.T) {
	def := Definition{}
	for _, name := range []string{"A", "B"} {
		def.Territories = append(def.Territories, TerritoryDef{Name: name, Troops: 1, Continent: "One"})
	}
	for _, name := range []string{"C", "D"} {
		def.Territories = append(def.Territories, TerritoryDef{Name: name, Troops: 1, Continent: "Two"})
	}
	w, err := NewWorld(def)
	require.NoError(t, err)
	require.NoError(t, w.InitializeRandomOwnership(rand.New(rand.NewSource(1))))
	for _, ter := range w.Territories() {
		require.NotZero(t, ter.Owner, "Every territory gets an owner")
	}
}

func TestWinnerAndLostBattles(t *testing.T) {
	w := testWorld(t, map[string]int{"A": 1, "B": 1, "C": 1, "D": 1, "E": 2})
	require.Equal(t, 0, w.Winner())
	w.SetOwner("E", 1)
	require.Equal(t, 1, w.Winner())

	a, _ := w.Territory("A")
	a.LostBattle = true
	w.ClearLostBattles()
	require.False(t, a.LostBattle)

	require.Equal(t, 2, Opponent(1))
	require.Equal(t, 1, Opponent(2))
}
