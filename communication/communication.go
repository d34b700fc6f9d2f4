package communication

import (
	"qrisk/quantum"
)

// Event is an input delivered to the engine by a view, a console or a bot.
// The set is closed: only the types below implement it.
type Event interface {
	isEvent()
}

// MoveSelected picks the move at Index of the current move list.
type MoveSelected struct {
	Index int `json:"index"`
}

// TerritorySelected feeds one territory to the active move.
type TerritorySelected struct {
	Name string `json:"name"`
}

// BasisSelected chooses the defender basis of the active attack.
type BasisSelected struct {
	Basis quantum.Basis `json:"basis"`
}

type ConfirmPressed struct{}

// AdvancePhase ends the current phase early.
type AdvancePhase struct{}

func (MoveSelected) isEvent()      {}
func (TerritorySelected) isEvent() {}
func (BasisSelected) isEvent()     {}
func (ConfirmPressed) isEvent()    {}
func (AdvancePhase) isEvent()      {}

// View abstracts whatever presents the game to the players.
type View interface {
	// Render shows the latest snapshot. Rendering the same snapshot twice is harmless.
	Render(s Snapshot)
	// RequestConfirmation asks the player to confirm the completed move.
	RequestConfirmation()
	// AllowSelection enables or disables territory picking for player, on
	// their own territories or, with opponent set, on the enemy's.
	AllowSelection(enabled bool, player int, opponent bool)
	// Notify shows a transient message, such as a rejected selection.
	Notify(message string)
}

// MultiView fans every call out to several views.
type MultiView []View

func (mv MultiView) Render(s Snapshot) {
	for _, v := range mv {
		v.Render(s)
	}
}

func (mv MultiView) RequestConfirmation() {
	for _, v := range mv {
		v.RequestConfirmation()
	}
}

func (mv MultiView) AllowSelection(enabled bool, player int, opponent bool) {
	for _, v := range mv {
		v.AllowSelection(enabled, player, opponent)
	}
}

func (mv MultiView) Notify(message string) {
	for _, v := range mv {
		v.Notify(message)
	}
}

// NopView discards everything.
type NopView struct{}

func (NopView) Render(Snapshot)                {}
func (NopView) RequestConfirmation()           {}
func (NopView) AllowSelection(bool, int, bool) {}
func (NopView) Notify(string)                  {}
