package main

import (
	"flag"

	"github.com/danmuck/pktdecode/internal/config"
	"github.com/danmuck/pktdecode/internal/decoder"
	"github.com/danmuck/pktdecode/internal/observability"
	"github.com/danmuck/pktdecode/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/decoded/config.toml", "service config path")
	flag.Parse()

	observability.InitLogger("decoded")
	cfg, err := config.LoadServiceConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load service config")
	}
	log.Info().Str("path", *configPath).Msg("loaded service config")

	svc, err := decoder.New(decoder.ConfigFrom(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build decoder")
	}
	srv, err := server.Appear(cfg, svc)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build decode server")
	}
	if err := srv.Serve(); err != nil {
		log.Fatal().Err(err).Msg("decode service stopped")
	}
}
