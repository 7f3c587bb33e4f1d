// Command matchapi serves the HTTP request-body driver surface.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"matchcore/internal/httpapi"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	addr := envOr("LISTEN_ADDR", ":8080")
	router := httpapi.NewRouter()

	log.Info().Str("address", addr).Msg("http api listening")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("http server exited")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
