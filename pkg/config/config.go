package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Trading modes
const (
	ModeLive  = "live"
	ModePaper = "paper"
)

// Config holds all configuration values
type Config struct {
	// Broker bridge
	BridgeURL     string
	BridgeTimeout time.Duration

	// Mode: live sends orders to the bridge, paper fills them in memory
	Mode         string
	PaperBalance float64

	// Trade journal
	JournalPath   string
	JournalFormat string // jsonl | parquet

	// Logging
	LogLevel  string
	LogFormat string // text | json

	// Scheduling
	CycleInterval time.Duration
	CycleTimeout  time.Duration // Wall-clock budget per cycle
	MaxRetries    int

	// Strategy parameters (file + env overrides)
	StrategyFile string
	Strategy     Strategy
}

// Load loads configuration from environment variables and the strategy file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		BridgeURL:     getEnv("BRIDGE_URL", ""),
		Mode:          strings.ToLower(getEnv("MODE", ModeLive)),
		JournalPath:   getEnv("JOURNAL_PATH", "data/trades.jsonl"),
		JournalFormat: strings.ToLower(getEnv("JOURNAL_FORMAT", "jsonl")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		StrategyFile:  getEnv("STRATEGY_FILE", "strategy.yaml"),
	}

	var err error
	if cfg.BridgeTimeout, err = getDuration("BRIDGE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CycleInterval, err = getDuration("CYCLE_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	// Original task ran under a 30s soft time limit
	if cfg.CycleTimeout, err = getDuration("CYCLE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	maxRetries, err := strconv.Atoi(getEnv("MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_RETRIES: %v", err)
	}
	cfg.MaxRetries = maxRetries

	paperBalance, err := strconv.ParseFloat(getEnv("PAPER_BALANCE", "10000"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PAPER_BALANCE: %v", err)
	}
	cfg.PaperBalance = paperBalance

	strat, err := LoadStrategy(cfg.StrategyFile)
	if err != nil {
		return nil, err
	}

	// Env overrides for the most frequently tuned fields
	if pairs := getEnv("PAIRS", ""); pairs != "" {
		strat.Pairs = parseCommaList(pairs)
	}
	if blacklist := getEnv("BLACKLIST", ""); blacklist != "" {
		strat.Blacklist = parseCommaList(blacklist)
	}
	if riskStr := getEnv("RISK_PER_TRADE", ""); riskStr != "" {
		r, err := strconv.ParseFloat(riskStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RISK_PER_TRADE: %v", err)
		}
		strat.RiskPerTrade = r
	}
	cfg.Strategy = strat

	return cfg, nil
}

// Validate checks that required configuration is present
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeLive, ModePaper:
	default:
		return fmt.Errorf("MODE must be %q or %q, got %q", ModeLive, ModePaper, c.Mode)
	}

	// Market data always comes from the bridge, even in paper mode
	if c.BridgeURL == "" {
		return fmt.Errorf("BRIDGE_URL is required")
	}

	switch c.JournalFormat {
	case "jsonl", "parquet":
	default:
		return fmt.Errorf("JOURNAL_FORMAT must be jsonl or parquet, got %q", c.JournalFormat)
	}

	if c.CycleTimeout <= 0 {
		return fmt.Errorf("CYCLE_TIMEOUT must be > 0")
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must be >= 0")
	}

	if c.Mode == ModePaper && c.PaperBalance <= 0 {
		return fmt.Errorf("PAPER_BALANCE must be > 0")
	}

	return c.Strategy.Validate()
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}

// parseCommaList parses a comma-separated list and trims whitespace
func parseCommaList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
