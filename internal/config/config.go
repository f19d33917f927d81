// Package config loads stockcast settings from defaults, a YAML file, .env and the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/raykavin/stockcast/pkg/core"
	"github.com/raykavin/stockcast/pkg/model"
	"github.com/spf13/viper"
)

// Constants for configuration
const (
	EnvPrefix          = "STOCKCAST"
	DefaultConfigName  = "stockcast"
	DefaultStoragePath = "./stockcast.db"
)

// Config holds the application configuration
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Model     ModelConfig     `mapstructure:"model"`
	Split     SplitConfig     `mapstructure:"split"`
	Forecast  ForecastConfig  `mapstructure:"forecast"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Mail      MailConfig      `mapstructure:"mail"`
	Output    OutputConfig    `mapstructure:"output"`
}

// DataConfig points at the price table
type DataConfig struct {
	File   string `mapstructure:"file"`
	Symbol string `mapstructure:"symbol"`
	Limit  string `mapstructure:"limit"` // trailing period to keep, eg: 365d
}

// ModelConfig selects the predictor
type ModelConfig struct {
	Kind     string  `mapstructure:"kind"`
	Ridge    float64 `mapstructure:"ridge"`
	TimeStep int     `mapstructure:"time_step"`
}

// SplitConfig holds the chronological train/test split
type SplitConfig struct {
	Ratio float64 `mapstructure:"ratio"`
}

// ForecastConfig holds the number of future steps
type ForecastConfig struct {
	Horizon int `mapstructure:"horizon"`
}

// BootstrapConfig drives the test RMSE confidence interval
type BootstrapConfig struct {
	Samples    int     `mapstructure:"samples"`
	Confidence float64 `mapstructure:"confidence"`
}

// StorageConfig selects where runs are kept; an empty driver disables storage
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// LogConfig configures the console logger
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Colored bool   `mapstructure:"colored"`
	JSON    bool   `mapstructure:"json"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	Users   []int  `mapstructure:"users"`
}

// MailConfig holds SMTP notification configuration
type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Server   string `mapstructure:"server"`
	Port     int    `mapstructure:"port"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	Password string `mapstructure:"password"`
}

// OutputConfig controls what a run writes besides the terminal summary
type OutputConfig struct {
	CSV      string `mapstructure:"csv"`
	Progress bool   `mapstructure:"progress"`
}

// New returns a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()

	defaults := core.DefaultSettings()
	v.SetDefault("data.file", "")
	v.SetDefault("data.symbol", "")
	v.SetDefault("data.limit", "")
	v.SetDefault("model.kind", defaults.Model)
	v.SetDefault("model.ridge", model.DefaultRidge)
	v.SetDefault("model.time_step", defaults.TimeStep)
	v.SetDefault("split.ratio", defaults.TrainRatio)
	v.SetDefault("forecast.horizon", defaults.Horizon)
	v.SetDefault("bootstrap.samples", 1000)
	v.SetDefault("bootstrap.confidence", 0.95)
	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.path", DefaultStoragePath)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.colored", true)
	v.SetDefault("log.json", false)
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.users", []int{})
	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.server", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.to", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("output.csv", "")
	v.SetDefault("output.progress", false)

	// STOCKCAST_MODEL_TIME_STEP overrides model.time_step
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads .env files, then the config file (or ./stockcast.yaml when file is empty),
// and decodes the merged settings
func Load(v *viper.Viper, file string, envFiles ...string) (*Config, error) {
	if err := loadEnv(envFiles...); err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &config, nil
}

// loadEnv loads .env style files into the process environment, skipping missing ones
func loadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Settings returns the forecasting settings of the run
func (c *Config) Settings() core.Settings {
	return core.Settings{
		Source:     c.Data.File,
		Model:      strings.ToLower(strings.TrimSpace(c.Model.Kind)),
		TimeStep:   c.Model.TimeStep,
		Horizon:    c.Forecast.Horizon,
		TrainRatio: c.Split.Ratio,
	}
}

// Validate checks the settings that are not validated further down the pipeline
func (c *Config) Validate() error {
	if c.Data.File == "" {
		return errors.New("config: data file is required")
	}
	if c.Bootstrap.Samples > 0 && (c.Bootstrap.Confidence <= 0 || c.Bootstrap.Confidence >= 1) {
		return fmt.Errorf("config: %w: bootstrap confidence %v must be between 0 and 1",
			core.ErrInvalidConfidence, c.Bootstrap.Confidence)
	}
	if c.Telegram.Enabled && (c.Telegram.Token == "" || len(c.Telegram.Users) == 0) {
		return errors.New("config: telegram needs a token and at least one user")
	}
	if c.Mail.Enabled && (c.Mail.Server == "" || c.Mail.To == "") {
		return errors.New("config: mail needs a server and a recipient")
	}
	return nil
}
