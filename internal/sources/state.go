package sources

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/clawdia/dashboard-backend/internal/models"
)

// LiveStates indexes per-pair bot state files by pair id.
type LiveStates map[string]*models.LiveState

func (s LiveStates) Get(pairID string) (*models.LiveState, bool) {
	ls, ok := s[pairID]
	return ls, ok
}

// GridStates indexes grid bot state by asset symbol.
type GridStates map[string]*models.GridState

func (s GridStates) Get(symbol string) (*models.GridState, bool) {
	gs, ok := s[strings.ToUpper(symbol)]
	return gs, ok
}

// LoadLiveStates reads every live_state_*.json file under dataDir. The pair id
// comes from the record itself when present, otherwise from the filename.
func LoadLiveStates(dataDir string) (LiveStates, error) {
	pattern := filepath.Join(dataDir, "live_state_*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}

	states := make(LiveStates, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("skipping unreadable live state")
			continue
		}

		var ls models.LiveState
		if err := json.Unmarshal(data, &ls); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("skipping malformed live state")
			continue
		}

		pairID := ls.Pair
		if pairID == "" {
			pairID = pairIDFromFilename(file, "live_state_")
		}
		if pairID == "" {
			log.Warn().Str("file", file).Msg("live state has no pair id, skipping")
			continue
		}
		states[pairID] = &ls
	}
	return states, nil
}

// LoadGridStates reads grid bot state files under dataDir. The bare
// grid_state.json file is the original single-asset layout and keys as SOL;
// grid_state_<SYMBOL>.json files key by their symbol.
func LoadGridStates(dataDir string) (GridStates, error) {
	states := make(GridStates)

	legacy := filepath.Join(dataDir, "grid_state.json")
	if gs := readGridState(legacy); gs != nil {
		states["SOL"] = gs
	}

	pattern := filepath.Join(dataDir, "grid_state_*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	for _, file := range files {
		symbol := strings.ToUpper(pairIDFromFilename(file, "grid_state_"))
		if symbol == "" {
			continue
		}
		if gs := readGridState(file); gs != nil {
			states[symbol] = gs
		}
	}
	return states, nil
}

func readGridState(path string) *models.GridState {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", path).Msg("skipping unreadable grid state")
		}
		return nil
	}

	var gs models.GridState
	if err := json.Unmarshal(data, &gs); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("skipping malformed grid state")
		return nil
	}
	return &gs
}

func pairIDFromFilename(path, prefix string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".json")
	return strings.TrimPrefix(base, prefix)
}
