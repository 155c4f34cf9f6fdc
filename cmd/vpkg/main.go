package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openfroyo/vpkg/cmd/vpkg/commands"
	"github.com/openfroyo/vpkg/pkg/config"
	"github.com/openfroyo/vpkg/pkg/telemetry"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	// The CLI logger only reads LOG_LEVEL; command loggers follow the config file.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(telemetry.ParseLevel(os.Getenv(config.EnvLogLevel))).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx, Version, Commit, BuildDate)
	stop()

	if err != nil {
		log.Error().Err(err).Msg("vpkg failed")
		os.Exit(1)
	}
}
