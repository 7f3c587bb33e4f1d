// Package driver implements the batch file and request-body input
// surfaces around a MatcherEngine.
package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"matchcore/internal/common"
	"matchcore/internal/engine"
)

// RunFile streams a JSON array of commands from r through a fresh
// MatcherEngine, command by command — never buffering the whole array —
// and returns the aggregated result. If any command is malformed or
// rejected, the error is returned immediately and no partial result
// should be treated as valid: the caller must not write output on error.
func RunFile(r io.Reader) (common.RunResult, error) {
	eng := engine.New()

	dec := json.NewDecoder(r)
	if _, err := dec.Token(); err != nil { // consume the opening '['
		return common.RunResult{}, fmt.Errorf("reading command array: %w", err)
	}
	for dec.More() {
		var cmd common.RawCommand
		if err := dec.Decode(&cmd); err != nil {
			return common.RunResult{}, fmt.Errorf("decoding command: %w", err)
		}
		if err := eng.Ingest(cmd); err != nil {
			return common.RunResult{}, fmt.Errorf("ingesting %s %s: %w", cmd.Op, cmd.OrderID, err)
		}
	}
	if _, err := dec.Token(); err != nil { // consume the closing ']'
		return common.RunResult{}, fmt.Errorf("reading command array: %w", err)
	}

	return eng.Finish(), nil
}

// RunCommands pushes an already-parsed batch of commands through a fresh
// MatcherEngine and returns the aggregated result — the "from request
// body" surface, with no disk I/O.
func RunCommands(commands []common.RawCommand) (common.RunResult, error) {
	eng := engine.New()
	for _, cmd := range commands {
		if err := eng.Ingest(cmd); err != nil {
			return common.RunResult{}, fmt.Errorf("ingesting %s %s: %w", cmd.Op, cmd.OrderID, err)
		}
	}
	return eng.Finish(), nil
}
