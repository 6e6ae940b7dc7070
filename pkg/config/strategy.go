package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fib-entry-bot/pkg/strategy"
)

// Strategy holds the per-deployment parameters of the Fibonacci entry strategy.
// It is treated as an immutable value once loaded.
type Strategy struct {
	Name string `yaml:"name" validate:"required"`

	// Instruments
	Pairs     []string `yaml:"pairs" validate:"required,min=1,dive,required"`
	Blacklist []string `yaml:"blacklist"`

	// Data windows
	PrimaryTimeframe string `yaml:"primary_timeframe" validate:"required"` // Trend and levels (higher timeframe)
	EntryTimeframe   string `yaml:"entry_timeframe" validate:"required"`   // Pattern confirmation (lower timeframe)
	Lookback         int    `yaml:"lookback" validate:"gte=5"`

	// Levels
	FibLevels      []float64 `yaml:"fib_levels" validate:"required,min=1,dive,gte=0,lte=1"`
	LevelTolerance float64   `yaml:"level_tolerance" validate:"gt=0"`

	// Trading parameters
	RiskPerTrade float64 `yaml:"risk_per_trade" validate:"gt=0,lte=1"`
	Leverage     float64 `yaml:"leverage" validate:"gt=0"`
	Deviation    int     `yaml:"deviation" validate:"gte=0"`
	MagicNumber  int64   `yaml:"magic_number"`
	FillPolicy   string  `yaml:"fill_policy" validate:"oneof=FOK IOC RETURN"`
	TPMultiplier float64 `yaml:"tp_multiplier" validate:"gt=0"`
	SLMultiplier float64 `yaml:"sl_multiplier" validate:"gt=0"`

	// Trade record labels
	Tag        string `yaml:"tag" validate:"required"`
	Broker     string `yaml:"broker"`
	AssetClass string `yaml:"asset_class"`

	Patterns PatternConfig `yaml:"patterns"`
}

// PatternConfig lists which candlestick patterns confirm each direction
type PatternConfig struct {
	Bullish []string `yaml:"bullish" validate:"dive,oneof=bullish_engulfing bearish_engulfing morning_star evening_star"`
	Bearish []string `yaml:"bearish" validate:"dive,oneof=bullish_engulfing bearish_engulfing morning_star evening_star"`
}

// DefaultStrategy returns the parameters of the original FX deployment
func DefaultStrategy() Strategy {
	return Strategy{
		Name:             "fibonacci",
		Pairs:            []string{"EURUSD.Z", "GBPUSD.Z", "USDJPY.Z", "AUDUSD.Z", "USDCAD.Z", "USDCHF.Z", "NZDUSD.Z"},
		PrimaryTimeframe: "W1",
		EntryTimeframe:   "H4",
		Lookback:         120,
		FibLevels:        []float64{0.0, 0.236, 0.382, 0.50, 0.618, 0.786, 1.0},
		LevelTolerance:   strategy.DefaultLevelTolerance,
		RiskPerTrade:     0.02,
		Leverage:         200,
		Deviation:        20,
		MagicNumber:      219000,
		FillPolicy:       "FOK",
		TPMultiplier:     3,
		SLMultiplier:     0.5,
		Tag:              "FIBONACCI",
		Broker:           "Alpari",
		AssetClass:       "FOREX",
		Patterns: PatternConfig{
			Bullish: []string{string(strategy.BullishEngulfing), string(strategy.MorningStar)},
			Bearish: []string{string(strategy.BearishEngulfing), string(strategy.EveningStar)},
		},
	}
}

// LoadStrategy reads a YAML strategy file over the defaults.
// A missing file is not an error; the defaults are returned.
func LoadStrategy(path string) (Strategy, error) {
	s := DefaultStrategy()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("failed to read strategy file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse strategy file %s: %w", path, err)
	}

	return s, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that Fibonacci ratios are strictly ascending
func (s Strategy) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid strategy: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid strategy: %w", err)
	}

	for i := 1; i < len(s.FibLevels); i++ {
		if s.FibLevels[i] <= s.FibLevels[i-1] {
			return fmt.Errorf("invalid strategy: fib_levels must be strictly ascending (%v)", s.FibLevels)
		}
	}

	return nil
}

// EntryRules converts the pattern categories and tolerance into strategy rules
func (s Strategy) EntryRules() strategy.EntryRules {
	rules := strategy.EntryRules{Tolerance: s.LevelTolerance}
	for _, label := range s.Patterns.Bullish {
		if p, ok := strategy.ParsePattern(label); ok {
			rules.Bullish = append(rules.Bullish, p)
		}
	}
	for _, label := range s.Patterns.Bearish {
		if p, ok := strategy.ParsePattern(label); ok {
			rules.Bearish = append(rules.Bearish, p)
		}
	}
	return rules
}

// Instruments returns the configured pairs minus the blacklist, in configured order
func (s Strategy) Instruments() []string {
	seen := make(map[string]bool, len(s.Pairs))
	out := make([]string, 0, len(s.Pairs))
	for _, pair := range s.Pairs {
		key := strings.ToUpper(pair)
		if seen[key] || s.IsInBlacklist(pair) {
			continue
		}
		seen[key] = true
		out = append(out, pair)
	}
	return out
}

// IsInBlacklist checks if a symbol is in the blacklist
func (s Strategy) IsInBlacklist(symbol string) bool {
	for _, blacklisted := range s.Blacklist {
		if strings.EqualFold(blacklisted, symbol) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate shared slices
func (s Strategy) Clone() Strategy {
	c := s
	c.Pairs = append([]string(nil), s.Pairs...)
	c.Blacklist = append([]string(nil), s.Blacklist...)
	c.FibLevels = append([]float64(nil), s.FibLevels...)
	c.Patterns.Bullish = append([]string(nil), s.Patterns.Bullish...)
	c.Patterns.Bearish = append([]string(nil), s.Patterns.Bearish...)
	return c
}
