package communication

import (
	"testing"

	"qrisk/quantum"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	valid := map[string]Event{
		"move 2":          MoveSelected{Index: 2},
		"  MOVE   0 ":     MoveSelected{Index: 0},
		"select New York": TerritorySelected{Name: "New York"},
		"basis y":         BasisSelected{Basis: quantum.BasisY},
		"confirm":         ConfirmPressed{},
		"next":            AdvancePhase{},
	}
	for line, want := range valid {
		t.Run(line, func(t *testing.T) {
			got, err := ParseCommand(line)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}

	for _, line := range []string{"", "move", "move two", "select", "basis W", "confirm now", "attack"} {
		t.Run("invalid "+line, func(t *testing.T) {
			_, err := ParseCommand(line)
			require.Error(t, err)
		})
	}
}

func TestMessageRoundTrip(t *testing.T) {
	for _, ev := range []Event{
		MoveSelected{Index: 3},
		TerritorySelected{Name: "A"},
		BasisSelected{Basis: quantum.BasisZ},
		ConfirmPressed{},
		AdvancePhase{},
	} {
		got, err := NewMessage(ev).Event()
		require.NoError(t, err)
		require.Equal(t, ev, got)
	}
}

type countingView struct {
	renders, confirmations, selections, notices int
}

func (v *countingView) Render(Snapshot)                { v.renders++ }
func (v *countingView) RequestConfirmation()           { v.confirmations++ }
func (v *countingView) AllowSelection(bool, int, bool) { v.selections++ }
func (v *countingView) Notify(string)                  { v.notices++ }

func TestMultiView(t *testing.T) {
	a, b := &countingView{}, &countingView{}
	mv := MultiView{a, b, NopView{}}
	mv.Render(Snapshot{})
	mv.RequestConfirmation()
	mv.AllowSelection(true, 1, false)
	mv.Notify("hi")
	for _, v := range []*countingView{a, b} {
		require.Equal(t, countingView{1, 1, 1, 1}, *v)
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := Snapshot{
		Active:      1,
		Moves:       []MoveView{{Label: "X(_)"}, {Label: "Y(_)"}},
		Territories: []TerritoryView{{Name: "A"}},
	}
	m, ok := s.ActiveMove()
	require.True(t, ok)
	require.Equal(t, "Y(_)", m.Label)
	_, ok = s.Territory("A")
	require.True(t, ok)
	_, ok = s.Territory("B")
	require.False(t, ok)

	s.Active = -1
	_, ok = s.ActiveMove()
	require.False(t, ok)
}

func TestUpdateApply(t *testing.T) {
	v := &countingView{}
	for _, u := range []Update{
		{Type: UpdateSnapshot, Snapshot: &Snapshot{}},
		{Type: UpdateSnapshot},
		{Type: UpdateConfirmation},
		{Type: UpdateSelection, Enabled: true, Player: 2},
		{Type: UpdateNotice, Message: "no"},
		{Type: "unknown"},
	} {
		u.Apply(v)
	}
	require.Equal(t, countingView{1, 1, 1, 1}, *v)
}
