package sources

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/clawdia/dashboard-backend/internal/models"
)

// LoadStrategyConfig reads the strategy definition file. A missing or
// unparseable file degrades to an empty config so the refresh still produces
// output.
func LoadStrategyConfig(path string) *models.StrategyConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("strategy config unreadable, using empty config")
		return models.EmptyStrategyConfig()
	}

	var cfg models.StrategyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("strategy config malformed, using empty config")
		return models.EmptyStrategyConfig()
	}

	if cfg.Strategies == nil {
		cfg.Strategies = make(map[string]*models.Strategy)
	}
	if cfg.Allocation == nil {
		cfg.Allocation = make(map[string]models.StrategyAllocation)
	}
	return &cfg
}
