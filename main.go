package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qrisk/communication"
	"qrisk/communication/client"
	"qrisk/communication/console"
	"qrisk/communication/server"
	"qrisk/config"
	"qrisk/experiments"
	"qrisk/game"
	"qrisk/gamemaster"
	"qrisk/logging"
	"qrisk/metrics"
	"qrisk/player"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	world := flag.String("world", "", "World file (.yaml or text), the Swiss cantons when empty")
	seed := flag.Uint64("seed", 0, "Seed for ownership and measurements, time-based when 0")
	bot := flag.Int("bot", 0, "Seat (1 or 2) played by the computer")
	listen := flag.String("listen", "", "Serve the websocket view on this address")
	join := flag.String("join", "", "Play on the server at this URL instead of locally")
	selfPlay := flag.Int("selfplay", 0, "Play this many bot-versus-bot games and exit")
	maxTurns := flag.Int("maxturns", 200, "Turn limit of a self-play game")
	flag.Parse()

	loader := config.NewLoader(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *world != "" {
		cfg.Game.World = *world
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}
	if *bot != 0 {
		cfg.Game.Bots = append(cfg.Game.Bots, *bot)
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}

	closer, err := logging.Init(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()
	loader.Watch(func(c config.Config) {
		if err := logging.SetLevel(c.Log.Level); err != nil {
			log.Warn().Err(err).Msg("log level unchanged")
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *selfPlay > 0:
		err = selfPlayGames(ctx, cfg, experiments.Config{Games: *selfPlay, MaxTurns: *maxTurns, Seed: cfg.Game.Seed, PollInterval: time.Millisecond, SharedBasis: cfg.Game.SharedBasis})
	case *join != "":
		err = joinGame(ctx, *join, cfg)
	default:
		err = hostGame(ctx, cfg)
	}
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("game ended with an error")
		os.Exit(1)
	}
}

func loadWorld(cfg config.Config) (game.Definition, error) {
	if cfg.Game.World == "" {
		return gamemaster.DefaultDefinition(), nil
	}
	return gamemaster.LoadDefinition(cfg.Game.World)
}

func selfPlayGames(ctx context.Context, cfg config.Config, ecfg experiments.Config) error {
	def, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	if ecfg.Seed == 0 {
		ecfg.Seed = uint64(time.Now().UnixNano())
	}
	_, err = experiments.RunSelfPlay(ctx, def, ecfg, cfg.Metrics.Dir)
	return err
}

func hostGame(ctx context.Context, cfg config.Config) error {
	def, err := loadWorld(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	events := make(chan communication.Event, 16)
	term := console.NewView(os.Stdout)
	views := communication.MultiView{term}

	if cfg.Server.Listen != "" {
		srv := server.NewServerCommunicator(16)
		defer srv.Close()
		views = append(views, srv)
		g.Go(func() error { return srv.Start(ctx, cfg.Server.Listen) })
		g.Go(func() error { return forward(ctx, srv.Events(), events) })
	}
	for _, seat := range cfg.Game.Bots {
		c := player.NewController(player.NewPlayer(seat, cfg.Game.Seed+uint64(seat)), player.ChannelSender(ctx, events))
		views = append(views, c)
		g.Go(func() error { return c.Run(ctx) })
	}

	var collector metrics.Collector = metrics.NewDummyCollector()
	if cfg.Metrics.Dir != "" {
		collector = metrics.NewCollector()
	}
	gm, err := gamemaster.NewGameMaster(def, views, gamemaster.Settings{
		Seed:         cfg.Game.Seed,
		SharedBasis:  cfg.Game.SharedBasis,
		PollInterval: cfg.Game.PollInterval,
		Collector:    collector,
	})
	if err != nil {
		return err
	}

	go func() {
		// Stdin cannot be interrupted, so this reader is not part of the group.
		if err := console.ReadEvents(ctx, os.Stdin, events, term.Notify); err != nil {
			log.Debug().Err(err).Msg("stopped reading commands")
		}
	}()
	g.Go(func() error {
		defer cancel()
		m, err := gm.RunGame(ctx, events)
		if err != nil {
			return err
		}
		return writeMetrics(cfg.Metrics.Dir, m, collector)
	})
	return g.Wait()
}

func forward(ctx context.Context, from <-chan communication.Event, to chan<- communication.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-from:
			select {
			case to <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func writeMetrics(dir string, m metrics.SessionMetric, collector metrics.Collector) error {
	if dir == "" {
		return nil
	}
	w, err := metrics.NewWriter(dir)
	if err != nil {
		return err
	}
	if err := w.WriteSession(m); err != nil {
		return err
	}
	if err := w.WriteCombatRecords(collector.Combats()); err != nil {
		return err
	}
	log.Info().Msgf("metrics written to %s", w.Dir())
	return nil
}

// joinGame plays on a remote engine from this terminal, with a bot for the
// first configured seat if any.
func joinGame(ctx context.Context, url string, cfg config.Config) error {
	cc, err := client.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer cc.Close()

	views := communication.MultiView{console.NewView(os.Stdout)}
	if len(cfg.Game.Bots) > 0 {
		seat := cfg.Game.Bots[0]
		c := player.NewController(player.NewPlayer(seat, cfg.Game.Seed+uint64(seat)), cc.Send)
		views = append(views, c)
		go func() {
			if err := c.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("bot stopped")
			}
		}()
	}
	if s, err := cc.GetState(ctx); err != nil {
		log.Warn().Err(err).Msg("no initial state")
	} else if s != nil {
		views.Render(*s)
	}

	commands := make(chan communication.Event)
	go func() {
		if err := console.ReadEvents(ctx, os.Stdin, commands, views.Notify); err != nil {
			log.Debug().Err(err).Msg("stopped reading commands")
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-cc.Updates():
			if !ok {
				log.Info().Msg("server closed the connection")
				return nil
			}
			u.Apply(views)
		case ev := <-commands:
			if err := cc.Send(ev); err != nil {
				return err
			}
		}
	}
}
