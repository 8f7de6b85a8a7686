package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Trading  TradingConfig  `yaml:"trading"`
	Market   MarketConfig   `yaml:"market"`
	DeepSeek DeepSeekConfig `yaml:"deepseek"`
	Telegram TelegramConfig `yaml:"telegram"`
	Web      WebConfig      `yaml:"web"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type TradingConfig struct {
	Underlying     string  `yaml:"underlying"`
	LotSize        int     `yaml:"lot_size"`
	AccountBalance float64 `yaml:"account_balance"`
	Interval       string  `yaml:"interval"`

	RiskPerTradeFraction float64 `yaml:"risk_per_trade_fraction"`
	SpreadRiskMultiplier float64 `yaml:"spread_risk_multiplier"`
	DailyLossFraction    float64 `yaml:"daily_loss_fraction"`
	BalanceCapFraction   float64 `yaml:"balance_cap_fraction"`

	StopLossPct     float64 `yaml:"stop_loss_pct"`
	TargetPct       float64 `yaml:"target_pct"`
	MaxHoldingHours int     `yaml:"max_holding_hours"`

	TrailingEnabled  bool    `yaml:"trailing_enabled"`
	TrailingFraction float64 `yaml:"trailing_fraction"`
	TrailingMode     string  `yaml:"trailing_mode"` // "highwater" or "tick"

	MaxPositions       int `yaml:"max_positions"`
	MaxCallPositions   int `yaml:"max_call_positions"`
	MaxPutPositions    int `yaml:"max_put_positions"`
	MaxSpreadPositions int `yaml:"max_spread_positions"`

	MinConfidence int `yaml:"min_confidence"`
}

type MarketConfig struct {
	Timezone string  `yaml:"timezone"`
	Spot     float64 `yaml:"spot"`
	Seed     int64   `yaml:"seed"`
}

type DeepSeekConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type WebConfig struct {
	Port int `yaml:"port"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Trading.Underlying == "" {
		cfg.Trading.Underlying = "NIFTY"
	}
	if cfg.Trading.LotSize == 0 {
		cfg.Trading.LotSize = 50
	}
	if cfg.Trading.AccountBalance == 0 {
		cfg.Trading.AccountBalance = 100000
	}
	if cfg.Trading.Interval == "" {
		cfg.Trading.Interval = "1m"
	}
	if cfg.Trading.RiskPerTradeFraction == 0 {
		cfg.Trading.RiskPerTradeFraction = 0.03
	}
	if cfg.Trading.SpreadRiskMultiplier == 0 {
		cfg.Trading.SpreadRiskMultiplier = 1.5
	}
	if cfg.Trading.DailyLossFraction == 0 {
		cfg.Trading.DailyLossFraction = 0.05
	}
	if cfg.Trading.BalanceCapFraction == 0 {
		cfg.Trading.BalanceCapFraction = 0.10
	}
	if cfg.Trading.StopLossPct == 0 {
		cfg.Trading.StopLossPct = 0.15
	}
	if cfg.Trading.TargetPct == 0 {
		cfg.Trading.TargetPct = 0.30
	}
	if cfg.Trading.MaxHoldingHours == 0 {
		cfg.Trading.MaxHoldingHours = 6
	}
	if cfg.Trading.TrailingFraction == 0 {
		cfg.Trading.TrailingFraction = 0.05
	}
	if cfg.Trading.TrailingMode == "" {
		cfg.Trading.TrailingMode = "highwater"
	}
	if cfg.Trading.MaxPositions == 0 {
		cfg.Trading.MaxPositions = 5
	}
	if cfg.Trading.MaxCallPositions == 0 {
		cfg.Trading.MaxCallPositions = 3
	}
	if cfg.Trading.MaxPutPositions == 0 {
		cfg.Trading.MaxPutPositions = 3
	}
	if cfg.Trading.MaxSpreadPositions == 0 {
		cfg.Trading.MaxSpreadPositions = 2
	}
	if cfg.Trading.MinConfidence == 0 {
		cfg.Trading.MinConfidence = 70
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "Asia/Kolkata"
	}
	if cfg.Market.Spot == 0 {
		cfg.Market.Spot = 25000
	}
	if cfg.DeepSeek.Model == "" {
		cfg.DeepSeek.Model = "deepseek-reasoner"
	}
	if cfg.DeepSeek.TimeoutSeconds == 0 {
		cfg.DeepSeek.TimeoutSeconds = 120
	}
	if cfg.Web.Port == 0 {
		cfg.Web.Port = 8080
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Trading.Interval); err != nil {
		return fmt.Errorf("invalid trading.interval %q: %w", c.Trading.Interval, err)
	}
	if c.Trading.TrailingMode != "highwater" && c.Trading.TrailingMode != "tick" {
		return fmt.Errorf("trading.trailing_mode must be \"highwater\" or \"tick\", got %q", c.Trading.TrailingMode)
	}
	if f := c.Trading.TrailingFraction; f <= 0 || f >= 1 {
		return fmt.Errorf("trading.trailing_fraction must be in (0, 1), got %v", f)
	}
	if f := c.Trading.DailyLossFraction; f <= 0 || f > 1 {
		return fmt.Errorf("trading.daily_loss_fraction must be in (0, 1], got %v", f)
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("invalid market.timezone %q: %w", c.Market.Timezone, err)
	}
	if c.DeepSeek.Enabled && c.DeepSeek.APIKey == "" {
		return fmt.Errorf("deepseek.api_key is required when deepseek is enabled")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	return nil
}

// ExchangeLocation resolves the exchange timezone, falling back to a fixed
// IST offset when the tz database is unavailable.
func (c *Config) ExchangeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Market.Timezone)
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

func (c *Config) TradingInterval() time.Duration {
	d, _ := time.ParseDuration(c.Trading.Interval)
	return d
}

func (c *Config) MaxHolding() time.Duration {
	return time.Duration(c.Trading.MaxHoldingHours) * time.Hour
}

func (c *Config) DeepSeekTimeout() time.Duration {
	return time.Duration(c.DeepSeek.TimeoutSeconds) * time.Second
}
