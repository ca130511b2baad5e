package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lobcore/internal/config"
	"lobcore/internal/engine"
	"lobcore/internal/metrics"
	"lobcore/internal/transport"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.ParseServerFlags(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	eng := engine.New()
	srv := transport.New(cfg.ListenAddress, cfg.ListenPort, eng)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Default().Handler())
	go func() {
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			log.Error().Err(err).Msg("metrics server exited")
		}
	}()

	go srv.Run(ctx)

	<-ctx.Done()
}
