// Command matchfile runs one command-file batch through a MatcherEngine
// and writes the resulting trades and residual order books to disk.
package main

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"matchcore/internal/driver"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	inputPath := envOr("INPUT_PATH", "input.json")
	orderbookOut := envOr("ORDERBOOK_OUT", "orderbook.json")
	tradesOut := envOr("TRADES_OUT", "trades.json")

	f, err := os.Open(inputPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", inputPath).Msg("unable to open input file")
	}
	defer f.Close()

	result, err := driver.RunFile(f)
	if err != nil {
		// No partial results: neither output file is touched on failure.
		log.Fatal().Err(err).Msg("failed processing command stream")
	}

	writeJSON(tradesOut, result.Trades)
	writeJSON(orderbookOut, result.OrderBooks)

	log.Info().
		Int("trades", len(result.Trades)).
		Int("books", len(result.OrderBooks)).
		Msg("run complete")
}

func writeJSON(path string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("unable to marshal output")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("unable to write output")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
