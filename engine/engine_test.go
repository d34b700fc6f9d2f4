package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"qrisk/communication"
	"qrisk/game"
	"qrisk/metrics"
	"qrisk/quantum"

	"github.com/stretchr/testify/require"
)

type recordingView struct {
	snapshots     []communication.Snapshot
	confirmations int
	notices       []string
}

func (v *recordingView) Render(s communication.Snapshot) { v.snapshots = append(v.snapshots, s) }
func (v *recordingView) RequestConfirmation()            { v.confirmations++ }
func (v *recordingView) AllowSelection(bool, int, bool)  {}
func (v *recordingView) Notify(message string)           { v.notices = append(v.notices, message) }
func (v *recordingView) last() communication.Snapshot    { return v.snapshots[len(v.snapshots)-1] }

// A has two qubits [0 1], B and C one each [2] and [3]. West is A alone,
// East is B and C with a CX gate.
func testDefinition() game.Definition {
	return game.Definition{
		Territories: []game.TerritoryDef{
			{Name: "A", Troops: 2, Continent: "West"},
			{Name: "B", Troops: 1, Continent: "East"},
			{Name: "C", Troops: 1, Continent: "East"},
		},
		Edges:      [][]string{{"A", "B"}, {"B", "C"}},
		Continents: map[string]string{"West": "X", "East": "CX"},
	}
}

func newTestEngine(t *testing.T, def game.Definition, owners map[string]int, options ...Option) (*Engine, *recordingView) {
	t.Helper()
	w, err := game.NewWorld(def)
	require.NoError(t, err)
	for name, owner := range owners {
		w.SetOwner(name, owner)
	}
	view := &recordingView{}
	e, err := New(w, quantum.NewRegister(w.QubitCount(), quantum.WithSeed(1)), view, options...)
	require.NoError(t, err)
	e.Start()
	return e, view
}

func send(e *Engine, events ...communication.Event) {
	for _, ev := range events {
		e.Handle(ev)
	}
}

func territory(t *testing.T, e *Engine, name string) *game.Territory {
	t.Helper()
	ter, ok := e.World().Territory(name)
	require.True(t, ok)
	return ter
}

func TestNew(t *testing.T) {
	w, err := game.NewWorld(testDefinition())
	require.NoError(t, err)
	_, err = New(w, quantum.NewRegister(3), nil)
	require.ErrorIs(t, err, ErrRegisterSize)
}

func TestStart(t *testing.T) {
	e, view := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 2, "C": 2})

	s := e.State()
	require.Equal(t, 1, s.Player)
	require.Equal(t, Placing, s.Phase)
	require.Equal(t, 1, s.Turn)
	require.Len(t, s.Moves, 1, "One move for A, West has a single territory")
	require.Equal(t, -1, s.Active)
	require.Len(t, view.snapshots, 1, "Start renders once")
	require.Equal(t, "placing", view.last().Phase)
	require.Len(t, view.last().Territories, 3)
	require.Len(t, view.last().Territories[0].Bloch, 2)
}

func TestConfirmationProtocol(t *testing.T) {
	t.Run("confirm without a complete move is rejected", func(t *testing.T) {
		e, view := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 2, "C": 2})
		before := e.State()

		send(e, communication.ConfirmPressed{})
		require.Len(t, view.notices, 1)
		require.Equal(t, before, e.State(), "A rejected confirmation changes nothing")
		require.Len(t, view.snapshots, 2, "Rejections are rendered too")

		send(e, communication.MoveSelected{Index: 0}, communication.ConfirmPressed{})
		require.Len(t, view.notices, 2, "Selecting a move does not arm")
	})

	t.Run("completing a move arms once and confirm consumes it", func(t *testing.T) {
		e, view := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 2, "C": 2})
		send(e, communication.MoveSelected{Index: 0}, communication.TerritorySelected{Name: "A"})
		require.True(t, e.State().Armed)
		require.Equal(t, 1, view.confirmations)
		require.True(t, view.last().Armed)

		send(e, communication.ConfirmPressed{})
		require.False(t, e.State().Armed)
		require.Equal(t, Attacking, e.State().Phase, "The only placing move is used up")

		send(e, communication.ConfirmPressed{})
		require.Len(t, view.notices, 1, "A second confirm is rejected")
	})

	t.Run("selections without a move are rejected", func(t *testing.T) {
		e, view := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 2, "C": 2})
		send(e, communication.TerritorySelected{Name: "A"}, communication.MoveSelected{Index: 9})
		require.Len(t, view.notices, 2)
		require.Equal(t, -1, e.State().Active)
	})

	t.Run("picking another move resets the previous one", func(t *testing.T) {
		e, _ := newTestEngine(t, testDefinition(), map[string]int{"A": 2, "B": 1, "C": 1})
		require.Len(t, e.State().Moves, 3, "B, C and the East bonus")

		send(e, communication.MoveSelected{Index: 0}, communication.TerritorySelected{Name: "B"})
		first := e.State().Moves[0]
		require.Equal(t, []string{"B"}, first.Selected())
		send(e, communication.MoveSelected{Index: 1})
		require.Empty(t, first.Selected())
		require.Equal(t, 1, e.State().Active)
		require.False(t, e.State().Armed)
	})
}

func TestPlacing(t *testing.T) {
	t.Run("single gate rotates the target's first qubit", func(t *testing.T) {
		e, _ := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 2, "C": 2})
		send(e, communication.MoveSelected{Index: 0}, communication.TerritorySelected{Name: "A"}, communication.ConfirmPressed{})

		p, err := e.Register().ProbabilityPlus(0)
		require.NoError(t, err)
		require.InDelta(t, math.Pow(math.Cos(math.Pi/16), 2), p, 1e-12)
		p, err = e.Register().ProbabilityPlus(1)
		require.NoError(t, err)
		require.InDelta(t, 1, p, 1e-12, "Only the first qubit is touched")
	})

	t.Run("bonus gate of a two-territory world", func(t *testing.T) {
		def := game.Definition{
			Territories: []game.TerritoryDef{
				{Name: "A", Troops: 1, Continent: "Only"},
				{Name: "B", Troops: 1, Continent: "Only"},
			},
			Edges:      [][]string{{"A", "B"}},
			Continents: map[string]string{"Only": "X"},
		}
		e, _ := newTestEngine(t, def, map[string]int{"A": 1, "B": 1})
		require.Equal(t, []string{"+X"}, e.World().AllContinentalBonusGates(1))

		moves := e.State().Moves
		require.Len(t, moves, 3)
		bonus := moves[2].(*game.PlacingMove)
		require.True(t, bonus.Bonus)

		send(e, communication.MoveSelected{Index: 2}, communication.TerritorySelected{Name: "B"}, communication.ConfirmPressed{})
		require.Len(t, e.State().Moves, 2, "The applied move is removed")
		_, _, z, err := e.Register().BlochVector(1)
		require.NoError(t, err)
		require.InDelta(t, math.Cos(math.Pi/8), z, 1e-12)

		value, err := e.Register().MeasureInBasis(1, quantum.BasisZ)
		require.NoError(t, err)
		require.Contains(t, []int{-1, 1}, value)
	})

	t.Run("double gate entangles target and control", func(t *testing.T) {
		e, _ := newTestEngine(t, testDefinition(), map[string]int{"A": 2, "B": 1, "C": 1})
		moves := e.State().Moves
		require.Equal(t, quantum.CX, moves[0].(*game.PlacingMove).Gate)

		send(e, communication.MoveSelected{Index: 0}, communication.TerritorySelected{Name: "B"})
		require.False(t, e.State().Armed, "A double gate needs a control")
		send(e, communication.TerritorySelected{Name: "C"}, communication.ConfirmPressed{})

		require.Equal(t, []int{2, 3}, e.Register().EntangledQubits(2))
		_, err := e.Register().MeasureInBasis(2, quantum.BasisZ)
		require.NoError(t, err)
		require.Equal(t, []int{3}, e.Register().EntangledQubits(3), "Measuring B frees C")
	})
}

func attack(e *Engine, attacker, defender string, basis quantum.Basis) {
	send(e,
		communication.MoveSelected{Index: 2}, // Z for the attacker
		communication.TerritorySelected{Name: attacker},
		communication.TerritorySelected{Name: defender},
		communication.BasisSelected{Basis: basis},
		communication.ConfirmPressed{},
	)
}

func TestCombat(t *testing.T) {
	t.Run("higher reading takes the territory", func(t *testing.T) {
		collector := metrics.NewCollector()
		e, _ := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 2, "C": 2}, WithCollector(collector))
		send(e, communication.AdvancePhase{})
		require.Equal(t, Attacking, e.State().Phase)

		attack(e, "A", "B", quantum.BasisZ)

		result, ok := e.LastCombat()
		require.True(t, ok)
		require.Equal(t, uint64(3), result.AttackerValue, "|00> reads 11")
		require.Equal(t, uint64(1), result.DefenderValue)
		require.True(t, result.AttackerWon)
		require.Equal(t, 1, territory(t, e, "B").Owner)
		require.True(t, territory(t, e, "A").LostBattle)
		require.Len(t, e.State().Moves, 3, "Attacking restarts with three fresh moves")
		require.Equal(t, Attacking, e.State().Phase)

		got := collector.Complete()
		require.Equal(t, 3, got.Measurements)
		require.Equal(t, 1, got.Combats)
		require.Equal(t, 1, got.Conquests)
	})

	t.Run("a tie keeps the defender", func(t *testing.T) {
		e, _ := newTestEngine(t, testDefinition(), map[string]int{"A": 2, "B": 1, "C": 2})
		send(e, communication.AdvancePhase{})
		attack(e, "B", "C", quantum.BasisZ)

		result, _ := e.LastCombat()
		require.Equal(t, result.AttackerValue, result.DefenderValue)
		require.False(t, result.AttackerWon)
		require.Equal(t, 2, territory(t, e, "C").Owner)
		require.True(t, territory(t, e, "B").LostBattle)
	})

	t.Run("a territory attacks once per round", func(t *testing.T) {
		e, view := newTestEngine(t, testDefinition(), map[string]int{"A": 2, "B": 1, "C": 2})
		send(e, communication.AdvancePhase{})
		attack(e, "B", "C", quantum.BasisZ)
		notices := len(view.notices)

		send(e, communication.MoveSelected{Index: 0}, communication.TerritorySelected{Name: "B"})
		require.Len(t, view.notices, notices+1)
		require.Empty(t, e.State().Moves[0].Selected())

		// the flag is cleared when the next attack phase opens, here player 2's
		send(e, communication.AdvancePhase{}, communication.AdvancePhase{})
		require.True(t, territory(t, e, "B").LostBattle, "Flags survive until an attack phase opens")
		send(e, communication.AdvancePhase{})
		require.Equal(t, Attacking, e.State().Phase)
		require.False(t, territory(t, e, "B").LostBattle)
	})

	t.Run("shared basis arms without a defender basis", func(t *testing.T) {
		e, view := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 2, "C": 2}, WithSharedBasis(true))
		send(e, communication.AdvancePhase{},
			communication.MoveSelected{Index: 0},
			communication.TerritorySelected{Name: "A"},
			communication.TerritorySelected{Name: "B"})
		require.True(t, e.State().Armed)
		move := e.State().Moves[0].(*game.AttackingMove)
		require.Equal(t, quantum.BasisX, move.DefenderBasis)

		send(e, communication.BasisSelected{Basis: quantum.BasisZ})
		require.Len(t, view.notices, 1)
	})
}

func TestMovingAndPhaseCycle(t *testing.T) {
	e, view := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 1, "C": 2})
	send(e, communication.MoveSelected{Index: 0}, communication.TerritorySelected{Name: "A"}, communication.ConfirmPressed{})
	require.Equal(t, Placing, e.State().Phase, "B's move is still available")

	send(e, communication.AdvancePhase{}, communication.AdvancePhase{})
	require.Equal(t, Moving, e.State().Phase)
	require.Len(t, e.State().Moves, 1)

	send(e, communication.MoveSelected{Index: 0},
		communication.TerritorySelected{Name: "A"},
		communication.TerritorySelected{Name: "B"},
		communication.ConfirmPressed{})
	require.Empty(t, view.notices)

	p, err := e.Register().ProbabilityPlus(2)
	require.NoError(t, err)
	require.InDelta(t, math.Pow(math.Cos(math.Pi/16), 2), p, 1e-12, "The rotated qubit moved to B")
	p, err = e.Register().ProbabilityPlus(0)
	require.NoError(t, err)
	require.InDelta(t, 1, p, 1e-12)

	s := e.State()
	require.Equal(t, 2, s.Player)
	require.Equal(t, Placing, s.Phase)
	require.Equal(t, 2, s.Turn)
}

func TestRun(t *testing.T) {
	t.Run("handles queued events until the source closes", func(t *testing.T) {
		w, err := game.NewWorld(testDefinition())
		require.NoError(t, err)
		w.SetOwner("A", 1)
		w.SetOwner("B", 2)
		w.SetOwner("C", 2)
		view := &recordingView{}
		e, err := New(w, quantum.NewRegister(w.QubitCount(), quantum.WithSeed(3)), view, WithPollInterval(time.Millisecond))
		require.NoError(t, err)

		events := make(chan communication.Event, 8)
		events <- communication.AdvancePhase{}
		events <- communication.MoveSelected{Index: 2}
		events <- communication.TerritorySelected{Name: "A"}
		events <- communication.TerritorySelected{Name: "B"}
		events <- communication.BasisSelected{Basis: quantum.BasisZ}
		events <- communication.ConfirmPressed{}
		close(events)

		require.NoError(t, e.Run(context.Background(), events))
		result, ok := e.LastCombat()
		require.True(t, ok)
		require.True(t, result.AttackerWon)
		require.Len(t, view.snapshots, 7, "Start and one render per event")
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		e, _ := newTestEngine(t, testDefinition(), map[string]int{"A": 1, "B": 2, "C": 2}, WithPollInterval(time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := e.Run(ctx, make(chan communication.Event))
		require.ErrorIs(t, err, context.Canceled)
	})
}
