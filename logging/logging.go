// Package logging configures the global zerolog logger: human-readable
// output on the console and, optionally, JSON lines in a rotated file.
package logging

import (
	"io"
	"strings"
	"time"

	"qrisk/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init replaces the global logger. The returned closer flushes and closes
// the log file, if any.
func Init(cfg config.LogConfig, console io.Writer) (io.Closer, error) {
	if err := SetLevel(cfg.Level); err != nil {
		return nil, err
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly}}
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}
		writers = append(writers, file)
		closer = file
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return closer, nil
}

// SetLevel changes the global level. An empty level means info.
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	if lvl != zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
		log.Info().Msgf("log level set to %s", lvl)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
