// Package experiments plays batches of bot-versus-bot games and stores
// their metrics.
package experiments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"qrisk/communication"
	"qrisk/game"
	"qrisk/gamemaster"
	"qrisk/metrics"
	"qrisk/player"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Games        int           // Number of games to play
	MaxTurns     int           // A game is stopped after this many player switches
	Seed         uint64        // Seed of the first game, incremented per game
	PollInterval time.Duration // Engine poll interval, keep it short
	SharedBasis  bool
}

// RunSelfPlay plays cfg.Games games on def between two random players and
// writes one game record per game under root when root is set.
func RunSelfPlay(ctx context.Context, def game.Definition, cfg Config, root string) ([]metrics.GameRecord, error) {
	log.Info().Msgf("starting self-play of %d games...", cfg.Games)
	records := []metrics.GameRecord{}
	for i := 0; i < cfg.Games; i++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		seed := cfg.Seed + uint64(i)
		log.Info().Msgf("starting game %d of %d...", i+1, cfg.Games)

		record, err := runGame(ctx, def, cfg, seed)
		if err != nil {
			return records, err
		}
		record.ID = i + 1
		records = append(records, record)

		log.Info().Msgf("completed game %d with winner: %d after %d turns", i+1, record.Winner, record.Turns)
	}
	log.Info().Msg("completed self-play")

	if root == "" {
		return records, nil
	}
	writer, err := metrics.NewWriter(root)
	if err != nil {
		return records, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteGameRecords(records); err != nil {
		return records, err
	}
	log.Info().Msgf("stored game records in %s", writer.Dir())
	return records, nil
}

// runGame executes a single game between two bots and returns its record
func runGame(ctx context.Context, def game.Definition, cfg Config, seed uint64) (metrics.GameRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan communication.Event)
	referee := &referee{maxTurns: cfg.MaxTurns, stop: cancel}
	views := communication.MultiView{referee}
	var controllers []*player.Controller
	for seat := 1; seat <= 2; seat++ {
		c := player.NewController(player.NewPlayer(seat, seed*10+uint64(seat)), player.ChannelSender(ctx, events))
		controllers = append(controllers, c)
		views = append(views, c)
	}

	gm, err := gamemaster.NewGameMaster(def, views, gamemaster.Settings{
		Seed:         seed,
		SharedBasis:  cfg.SharedBasis,
		PollInterval: cfg.PollInterval,
		Collector:    metrics.NewCollector(),
	})
	if err != nil {
		return metrics.GameRecord{}, err
	}

	var wg sync.WaitGroup
	for _, c := range controllers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Run(ctx)
		}()
	}
	m, err := gm.RunGame(ctx, events)
	cancel()
	wg.Wait()
	if err != nil {
		return metrics.GameRecord{}, err
	}
	return metrics.GameRecord{Seed: gm.Seed, Winner: gm.World.Winner(), SessionMetric: m}, nil
}

// referee stops a game once a player owns everything or the turn limit is hit.
type referee struct {
	communication.NopView
	maxTurns int
	stop     func()

	player int
	turns  int
}

func (r *referee) Render(s communication.Snapshot) {
	if r.player != 0 && s.Player != r.player {
		r.turns++
	}
	r.player = s.Player
	if r.maxTurns > 0 && r.turns >= r.maxTurns {
		r.stop()
		return
	}
	owner := 0
	for _, t := range s.Territories {
		if owner == 0 {
			owner = t.Owner
		} else if t.Owner != owner {
			return
		}
	}
	if owner != 0 {
		r.stop()
	}
}
