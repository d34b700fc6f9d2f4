package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"qrisk/communication"
	"qrisk/engine"
	"qrisk/game"
	"qrisk/metrics"
	"qrisk/quantum"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Settings of one session. The zero value plays with a time-based seed and
// an independent defender basis.
type Settings struct {
	Seed         uint64
	SharedBasis  bool
	PollInterval time.Duration
	Collector    metrics.Collector
}

// GameMaster sets up a session and runs it.
type GameMaster struct {
	World     *game.World
	Register  *quantum.Register
	Engine    *engine.Engine
	Collector metrics.Collector
	Seed      uint64
}

// NewGameMaster builds the world of def, deals the territories and creates
// the register and the engine rendering to view.
func NewGameMaster(def game.Definition, view communication.View, settings Settings) (*GameMaster, error) {
	world, err := game.NewWorld(def)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if err := world.InitializeRandomOwnership(rand.New(rand.NewSource(seed))); err != nil {
		return nil, err
	}

	collector := settings.Collector
	if collector == nil {
		collector = metrics.NewDummyCollector()
	}
	register := quantum.NewRegister(world.QubitCount(), quantum.WithSeed(seed))
	eng, err := engine.New(world, register, view,
		engine.WithSharedBasis(settings.SharedBasis),
		engine.WithPollInterval(settings.PollInterval),
		engine.WithCollector(collector),
	)
	if err != nil {
		return nil, err
	}
	log.Info().Msgf("session ready: %d territories, %d qubits, seed %d", len(world.Territories()), world.QubitCount(), seed)

	return &GameMaster{
		World:     world,
		Register:  register,
		Engine:    eng,
		Collector: collector,
		Seed:      seed,
	}, nil
}

// RunGame plays until ctx is done or events is closed and returns the
// session metrics.
func (gm *GameMaster) RunGame(ctx context.Context, events <-chan communication.Event) (metrics.SessionMetric, error) {
	err := gm.Engine.Run(ctx, events)
	m := gm.Collector.Complete()
	if winner := gm.World.Winner(); winner != 0 {
		log.Info().Msgf("player %d owns every territory", winner)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return m, err
}
