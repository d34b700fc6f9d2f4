// Package player holds an automated opponent playing random legal-looking
// events from the snapshots the engine renders.
package player

import (
	"context"

	"qrisk/communication"
	"qrisk/quantum"
	"qrisk/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// MAX_ACTIONS_PER_PHASE bounds the events a player sends before giving up
// on a phase.
const MAX_ACTIONS_PER_PHASE = 24

// Player represents an automated game player.
type Player struct {
	ID  int
	rng *rand.Rand

	player  int
	phase   string
	actions int
}

// NewPlayer creates a random player for seat id.
func NewPlayer(id int, seed uint64) *Player {
	return &Player{
		ID:  id,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next decides on the event to send for snapshot s. It returns false when it
// is not this player's turn.
func (p *Player) Next(s communication.Snapshot) (communication.Event, bool) {
	if s.Player != p.ID {
		return nil, false
	}
	if s.Player != p.player || s.Phase != p.phase {
		p.player, p.phase, p.actions = s.Player, s.Phase, 0
	}
	p.actions++
	if p.actions > MAX_ACTIONS_PER_PHASE || len(s.Moves) == 0 {
		return communication.AdvancePhase{}, true
	}
	if s.Armed {
		return communication.ConfirmPressed{}, true
	}

	active, ok := s.ActiveMove()
	if !ok {
		// Ending the phase is one of the choices.
		i := p.rng.Intn(len(s.Moves) + 1)
		if i == len(s.Moves) {
			return communication.AdvancePhase{}, true
		}
		return communication.MoveSelected{Index: i}, true
	}

	var candidates []string
	switch active.Kind {
	case "placing":
		candidates = p.own(s, active.Selected, false)
	case "attacking":
		switch len(active.Selected) {
		case 0:
			for _, t := range s.Territories {
				if t.Owner == p.ID && !t.LostBattle && p.bordersEnemy(s, t) {
					candidates = append(candidates, t.Name)
				}
			}
		case 1:
			attacker, _ := s.Territory(active.Selected[0])
			for _, n := range attacker.Neighbors {
				if t, ok := s.Territory(n); ok && t.Owner != p.ID {
					candidates = append(candidates, n)
				}
			}
		default:
			return communication.BasisSelected{Basis: quantum.Bases[p.rng.Intn(len(quantum.Bases))]}, true
		}
	case "swap":
		candidates = p.own(s, active.Selected, len(active.Selected) == 0)
	}
	if len(candidates) == 0 {
		return communication.AdvancePhase{}, true
	}
	return communication.TerritorySelected{Name: candidates[p.rng.Intn(len(candidates))]}, true
}

// own lists the player's territories not yet selected, optionally only
// those bordering an ally.
func (p *Player) own(s communication.Snapshot, selected []string, withAlly bool) []string {
	var names []string
	for _, t := range s.Territories {
		if t.Owner != p.ID || utils.Contains(selected, t.Name) {
			continue
		}
		if withAlly && !p.bordersAlly(s, t) {
			continue
		}
		names = append(names, t.Name)
	}
	return names
}

func (p *Player) bordersEnemy(s communication.Snapshot, t communication.TerritoryView) bool {
	for _, n := range t.Neighbors {
		if adj, ok := s.Territory(n); ok && adj.Owner != t.Owner {
			return true
		}
	}
	return false
}

func (p *Player) bordersAlly(s communication.Snapshot, t communication.TerritoryView) bool {
	for _, n := range t.Neighbors {
		if adj, ok := s.Territory(n); ok && adj.Owner == t.Owner {
			return true
		}
	}
	return false
}

// Controller is a View feeding the snapshots it receives to a Player and the
// player's events to an event sink.
type Controller struct {
	player    *Player
	snapshots chan communication.Snapshot
	send      func(communication.Event) error
}

// NewController plays p by handing its events to send, for instance a
// channel write or a remote client.
func NewController(p *Player, send func(communication.Event) error) *Controller {
	return &Controller{
		player:    p,
		snapshots: make(chan communication.Snapshot, 1),
		send:      send,
	}
}

// Render keeps only the latest snapshot.
func (c *Controller) Render(s communication.Snapshot) {
	for {
		select {
		case c.snapshots <- s:
			return
		default:
		}
		select {
		case <-c.snapshots:
		default:
		}
	}
}

func (c *Controller) RequestConfirmation()           {}
func (c *Controller) AllowSelection(bool, int, bool) {}

func (c *Controller) Notify(message string) {
	log.Debug().Msgf("player %d notified: %s", c.player.ID, message)
}

// Run plays until ctx is done or sending fails.
func (c *Controller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-c.snapshots:
			ev, ok := c.player.Next(s)
			if !ok {
				continue
			}
			if err := c.send(ev); err != nil {
				return err
			}
		}
	}
}

// ChannelSender sends events on ch, giving up when ctx is done.
func ChannelSender(ctx context.Context, ch chan<- communication.Event) func(communication.Event) error {
	return func(ev communication.Event) error {
		select {
		case ch <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
