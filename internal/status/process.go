// Package status answers "is the bot behind this strategy actually running?"
// by inspecting the host process list.
package status

import (
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultProcessMap maps strategy ids to the process names their bots run
// under. Strategies not listed are never reported running.
func DefaultProcessMap() map[string]string {
	return map[string]string{
		"CCI":  "live_trader",
		"GRID": "jupiter_grid",
	}
}

// Scanner reads the process list once per Snapshot call. runPS is swappable
// for tests.
type Scanner struct {
	procs map[string]string
	runPS func() (string, error)
}

func NewScanner(procs map[string]string) *Scanner {
	if procs == nil {
		procs = DefaultProcessMap()
	}
	return &Scanner{
		procs: procs,
		runPS: func() (string, error) {
			out, err := exec.Command("ps", "aux").Output()
			return string(out), err
		},
	}
}

// Snapshot inspects the process list once and returns an immutable view valid
// for the duration of one enrichment pass. If the inspection fails, every
// strategy reports not running.
func (s *Scanner) Snapshot() Snapshot {
	running := make(map[string]bool, len(s.procs))

	out, err := s.runPS()
	if err != nil {
		log.Warn().Err(err).Msg("process inspection failed, all bots reported stopped")
		return Snapshot{running: running}
	}

	for strategyID, procName := range s.procs {
		if strings.Contains(out, procName) {
			running[strings.ToUpper(strategyID)] = true
		}
	}
	return Snapshot{running: running}
}

// Snapshot is a point-in-time liveness view. It satisfies the orchestrator's
// BotStatusProvider capability.
type Snapshot struct {
	running map[string]bool
}

func (s Snapshot) IsRunning(strategyID string) bool {
	return s.running[strings.ToUpper(strategyID)]
}
