// Package config holds the explicit configuration passed into every
// component constructor. There is no process-wide mutable state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete scanner + backtest configuration.
type Config struct {
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Scan     ScanConfig     `json:"scan" yaml:"scan"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// BacktestConfig drives the trade simulator and exit rules.
type BacktestConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`

	CommissionPct   float64 `json:"commission_pct" yaml:"commission_pct"`
	BaseSlippagePct float64 `json:"base_slippage_pct" yaml:"base_slippage_pct"`

	MaxOpenPositions int     `json:"max_open_positions" yaml:"max_open_positions"`
	MaxRiskPct       float64 `json:"max_risk_pct" yaml:"max_risk_pct"`
	KellySizing      bool    `json:"kelly_sizing,omitempty" yaml:"kelly_sizing,omitempty"`

	ATRStopMultiplier float64 `json:"atr_stop_multiplier" yaml:"atr_stop_multiplier"`
	StopLossLookback  int     `json:"stop_loss_lookback" yaml:"stop_loss_lookback"`
	Target1Multiplier float64 `json:"target1_multiplier" yaml:"target1_multiplier"`
	Target2Multiplier float64 `json:"target2_multiplier" yaml:"target2_multiplier"`

	MinStopDistancePct float64 `json:"min_stop_distance_pct" yaml:"min_stop_distance_pct"`
	MaxStopDistancePct float64 `json:"max_stop_distance_pct" yaml:"max_stop_distance_pct"`

	TrailMinDays    int     `json:"trail_min_days" yaml:"trail_min_days"`
	TrailMinGainPct float64 `json:"trail_min_gain_pct" yaml:"trail_min_gain_pct"`
	MaxHoldDays     int     `json:"max_hold_days" yaml:"max_hold_days"`
}

// ScanConfig drives the parallel scan orchestrator.
type ScanConfig struct {
	Workers       int      `json:"workers" yaml:"workers"`
	SymbolTimeout Duration `json:"symbol_timeout" yaml:"symbol_timeout"`
}

// Duration is a time.Duration that reads and writes the familiar "30s"
// form in both YAML and JSON config files.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		return d.parse(s)
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(n)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid duration %s", data)
	}
	*d = Duration(n)
	return nil
}

func (d *Duration) parse(s string) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// JournalConfig selects the durable sinks. Empty paths disable the
// corresponding sink.
type JournalConfig struct {
	TradesFile   string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile   string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TrainingFile string `json:"training_file,omitempty" yaml:"training_file,omitempty"`
}

// MaxWorkers is the hard upper bound on scan concurrency regardless of
// configuration.
const MaxWorkers = 16

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration; .yaml/.yml paths get YAML,
// everything else indented JSON.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if hasSuffix(path, ".yaml") || hasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Validate checks the configuration for values the simulator cannot run
// with.
func (c *Config) Validate() error {
	b := c.Backtest
	if b.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if b.CommissionPct < 0 {
		return fmt.Errorf("backtest.commission_pct must not be negative")
	}
	if b.BaseSlippagePct < 0 {
		return fmt.Errorf("backtest.base_slippage_pct must not be negative")
	}
	if b.MaxOpenPositions <= 0 {
		return fmt.Errorf("backtest.max_open_positions must be positive")
	}
	if b.MaxRiskPct <= 0 || b.MaxRiskPct > 100 {
		return fmt.Errorf("backtest.max_risk_pct must be in (0, 100]")
	}
	if b.ATRStopMultiplier <= 0 {
		return fmt.Errorf("backtest.atr_stop_multiplier must be positive")
	}
	if b.StopLossLookback <= 0 {
		return fmt.Errorf("backtest.stop_loss_lookback must be positive")
	}
	if b.Target1Multiplier <= 0 || b.Target2Multiplier <= 0 {
		return fmt.Errorf("backtest target multipliers must be positive")
	}
	if b.Target2Multiplier < b.Target1Multiplier {
		return fmt.Errorf("backtest.target2_multiplier must not be below target1_multiplier")
	}
	if b.MinStopDistancePct < 0 || b.MaxStopDistancePct <= b.MinStopDistancePct {
		return fmt.Errorf("backtest stop distance band is invalid")
	}
	if b.MaxHoldDays <= 0 {
		return fmt.Errorf("backtest.max_hold_days must be positive")
	}

	if c.Scan.Workers <= 0 {
		return fmt.Errorf("scan.workers must be positive")
	}
	if c.Scan.Workers > MaxWorkers {
		return fmt.Errorf("scan.workers must not exceed %d", MaxWorkers)
	}
	if c.Scan.SymbolTimeout <= 0 {
		return fmt.Errorf("scan.symbol_timeout must be positive")
	}
	return nil
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Backtest: BacktestConfig{
			InitialCapital:     10000,
			CommissionPct:      0.2,
			BaseSlippagePct:    0.1,
			MaxOpenPositions:   5,
			MaxRiskPct:         2.0,
			ATRStopMultiplier:  2.0,
			StopLossLookback:   20,
			Target1Multiplier:  2.0,
			Target2Multiplier:  3.0,
			MinStopDistancePct: 2.0,
			MaxStopDistancePct: 15.0,
			TrailMinDays:       2,
			TrailMinGainPct:    5.0,
			MaxHoldDays:        30,
		},
		Scan: ScanConfig{
			Workers:       4,
			SymbolTimeout: Duration(30 * time.Second),
		},
		Journal: JournalConfig{
			TrainingFile: "data_cache/ml_training_data.csv",
		},
	}
}
