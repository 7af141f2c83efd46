package sources

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/clawdia/dashboard-backend/internal/models"
)

// LoadTrades reads every trades_*.jsonl file under dataDir/trades and returns
// the trade log in file order. Malformed lines and test-fixture strategies are
// skipped so one bad append never takes down a refresh.
func LoadTrades(dataDir string) ([]models.Trade, error) {
	pattern := filepath.Join(dataDir, "trades", "trades_*.jsonl")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(files)

	var trades []models.Trade
	for _, file := range files {
		fileTrades, err := loadTradeFile(file)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("skipping unreadable trade file")
			continue
		}
		trades = append(trades, fileTrades...)
	}

	log.Debug().Int("files", len(files)).Int("trades", len(trades)).Msg("loaded trade log")
	return trades, nil
}

func loadTradeFile(path string) ([]models.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var trades []models.Trade
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var trade models.Trade
		if err := json.Unmarshal(line, &trade); err != nil {
			log.Warn().Str("file", filepath.Base(path)).Int("line", lineNo).Err(err).Msg("skipping malformed trade line")
			continue
		}
		if trade.IsTestFixture() {
			continue
		}
		trades = append(trades, trade)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return trades, nil
}
