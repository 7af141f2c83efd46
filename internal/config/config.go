package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Bot data
	BotDataDir     string
	StrategiesFile string
	OutputDir      string

	// Wallet
	WalletAddress string
	SolanaRPCURL  string

	// Refresh
	UpdateIntervalSeconds int
	PriceCacheTTLSeconds  int

	// Notifications
	WebhookURL string
	BotName    string

	// API
	APIPort         int
	APIKey          string
	CORSAllowOrigin string

	// Database (report archive, optional)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Bot process detection: STRATEGY_ID=process_name pairs
	BotProcesses map[string]string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Bot data
		BotDataDir:     envStr("BOT_DATA_DIR", "./data"),
		StrategiesFile: envStr("STRATEGIES_FILE", "./data/strategies.json"),
		OutputDir:      envStr("OUTPUT_DIR", "./public/data"),

		// Wallet
		WalletAddress: envStr("WALLET_ADDRESS", "CdJSUeHX49eFK8hixbfDKNRLTakYcy59MbVEh8pDnn9U"),
		SolanaRPCURL:  envStr("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),

		// Refresh
		UpdateIntervalSeconds: envInt("UPDATE_INTERVAL_SECONDS", 60),
		PriceCacheTTLSeconds:  envInt("PRICE_CACHE_TTL_SECONDS", 300),

		// Notifications
		WebhookURL: envStr("WEBHOOK_URL", ""),
		BotName:    envStr("BOT_NAME", "ClawdiaDashboard"),

		// API
		APIPort:         envInt("API_PORT", 3001),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		// Database
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "clawdia_dashboard"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		BotProcesses: envProcessMap("BOT_PROCESSES"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.BotDataDir == "" {
		errs = append(errs, "BOT_DATA_DIR is required")
	}
	if c.OutputDir == "" {
		errs = append(errs, "OUTPUT_DIR is required")
	}
	if c.UpdateIntervalSeconds <= 0 {
		errs = append(errs, "UPDATE_INTERVAL_SECONDS must be positive")
	}
	if c.WalletAddress == "" {
		fmt.Println("[WARN] WALLET_ADDRESS not set — wallet snapshot limited to the bot's file")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}
	if !c.ArchiveEnabled() {
		fmt.Println("[WARN] DB_USER not set — report archive disabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Trading Dashboard Backend Configuration ===")
	fmt.Printf("Bot Data Dir: %s\n", c.BotDataDir)
	fmt.Printf("Strategies File: %s\n", c.StrategiesFile)
	fmt.Printf("Output Dir: %s\n", c.OutputDir)
	fmt.Println("--------------------------------------")
	if len(c.WalletAddress) > 16 {
		fmt.Printf("Wallet: %s...%s\n", c.WalletAddress[:10], c.WalletAddress[len(c.WalletAddress)-6:])
	}
	fmt.Printf("Solana RPC: %s\n", c.SolanaRPCURL)
	fmt.Println("--------------------------------------")
	fmt.Printf("Refresh Interval: %s\n", c.UpdateInterval())
	fmt.Printf("Price Cache TTL: %s\n", c.PriceCacheTTL())
	fmt.Printf("API Port: %d\n", c.APIPort)
	fmt.Printf("API Auth: %s\n", boolLabel(c.APIKey != "", "enabled (Bearer token)", "disabled"))
	fmt.Printf("Report Archive: %s\n", boolLabel(c.ArchiveEnabled(), "enabled", "disabled"))
	fmt.Printf("Notifications: %s\n", boolLabel(c.WebhookURL != "", "enabled", "disabled"))
	fmt.Println("======================================")
}

func (c *Config) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalSeconds) * time.Second
}

func (c *Config) PriceCacheTTL() time.Duration {
	return time.Duration(c.PriceCacheTTLSeconds) * time.Second
}

// ArchiveEnabled reports whether enough database config is present to run the
// report archive.
func (c *Config) ArchiveEnabled() bool {
	return c.DBUser != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envProcessMap parses "CCI=live_trader,GRID=jupiter_grid" style values. An
// empty or unset variable returns nil so the caller falls back to defaults.
func envProcessMap(key string) map[string]string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(v, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		out[strings.ToUpper(parts[0])] = parts[1]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
