// Package engine runs the turn state machine of a session. It owns the world
// and the register and mutates them only while handling one event.
package engine

import (
	"errors"
	"fmt"
	"time"

	"qrisk/communication"
	"qrisk/game"
	"qrisk/meta"
	"qrisk/metrics"
	"qrisk/quantum"

	"github.com/rs/zerolog/log"
)

var ErrRegisterSize = errors.New("register does not match the world")

type Phase int

const (
	Placing Phase = iota
	Attacking
	Moving
)

func (p Phase) String() string {
	switch p {
	case Placing:
		return "placing"
	case Attacking:
		return "attacking"
	case Moving:
		return "moving"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// GameState is the engine-side state of the current turn.
type GameState struct {
	Player int         // 1 or 2
	Phase  Phase       // Current phase of Player's turn
	Moves  []game.Move // Moves still available in the phase
	Active int         // Index of the move being filled in, -1 when none
	Armed  bool        // The active move is complete and awaits confirmation
	Turn   int         // Starts at 1, incremented at every player switch
}

// CombatResult is the outcome of one attack.
type CombatResult struct {
	Attacker      string
	Defender      string
	AttackerBasis quantum.Basis
	DefenderBasis quantum.Basis
	AttackerValue uint64
	DefenderValue uint64
	AttackerWon   bool
}

type Option func(e *Engine)

// WithSharedBasis makes the defender measure in the attacker's basis instead
// of choosing one.
func WithSharedBasis(shared bool) Option {
	return func(e *Engine) {
		e.sharedBasis = shared
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.poll = d
		}
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(e *Engine) {
		if c != nil {
			e.collector = c
		}
	}
}

// Engine is not safe for concurrent use: events are fed either through
// Handle from a single goroutine or through Run.
type Engine struct {
	world       *game.World
	register    *quantum.Register
	view        communication.View
	collector   metrics.Collector
	sharedBasis bool
	poll        time.Duration

	started    bool
	state      GameState
	lastCombat *CombatResult
}

func New(world *game.World, register *quantum.Register, view communication.View, options ...Option) (*Engine, error) {
	if register.Size() != world.QubitCount() {
		return nil, fmt.Errorf("%w: %d qubits for %d troops", ErrRegisterSize, register.Size(), world.QubitCount())
	}
	if view == nil {
		view = communication.NopView{}
	}
	e := &Engine{
		world:     world,
		register:  register,
		view:      view,
		collector: metrics.NewDummyCollector(),
		poll:      meta.POLL_INTERVAL,
		state:     GameState{Active: -1},
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// Start opens the first turn: player 1 places.
func (e *Engine) Start() {
	e.started = true
	e.state = GameState{Player: 1, Turn: 1, Active: -1}
	e.collector.Start()
	log.Info().Msgf("player %d is starting", e.state.Player)
	e.enterPlacing()
	e.render()
}

// State returns a copy of the current turn state.
func (e *Engine) State() GameState {
	s := e.state
	s.Moves = append([]game.Move{}, e.state.Moves...)
	return s
}

func (e *Engine) LastCombat() (CombatResult, bool) {
	if e.lastCombat == nil {
		return CombatResult{}, false
	}
	return *e.lastCombat, true
}

func (e *Engine) World() *game.World {
	return e.world
}

func (e *Engine) Register() *quantum.Register {
	return e.register
}

func (e *Engine) enterPlacing() {
	e.state.Phase = Placing
	e.setMoves(game.PlacingMoves(e.world, e.state.Player))
	if len(e.state.Moves) == 0 {
		e.advance()
	}
}

// enterAttacking opens the attack phase. Battle flags are cleared only when
// coming from the placing phase, not between two attacks.
func (e *Engine) enterAttacking(clearBattles bool) {
	if clearBattles {
		e.world.ClearLostBattles()
	}
	e.state.Phase = Attacking
	e.setMoves(game.AttackingMoves())
}

func (e *Engine) enterMoving() {
	e.state.Phase = Moving
	e.setMoves(game.SwapMoves())
}

func (e *Engine) setMoves(moves []game.Move) {
	e.state.Moves = moves
	e.state.Active = -1
	e.state.Armed = false
	e.view.AllowSelection(false, e.state.Player, false)
}

// advance ends the current phase.
func (e *Engine) advance() {
	switch e.state.Phase {
	case Placing:
		e.enterAttacking(true)
	case Attacking:
		e.enterMoving()
	case Moving:
		e.state.Player = game.Opponent(e.state.Player)
		e.state.Turn++
		e.collector.AddTurn()
		log.Info().Msgf("turn %d: player %d is playing", e.state.Turn, e.state.Player)
		e.enterPlacing()
	}
}

func (e *Engine) activeMove() game.Move {
	if e.state.Active < 0 || e.state.Active >= len(e.state.Moves) {
		return nil
	}
	return e.state.Moves[e.state.Active]
}
