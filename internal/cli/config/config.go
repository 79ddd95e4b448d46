package config

import (
	"fmt"
	"os"
	"time"

	"ojspace/internal/common/cache"
	"ojspace/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:8080"
	DefaultTimeout        = 10 * time.Second
	DefaultFollowInterval = time.Second
	DefaultFollowTimeout  = 5 * time.Minute
	DefaultLanguage       = "cpp"
	DefaultTheme          = "vs-dark"
	DefaultFontSize       = 14
	DefaultTabSize        = 4
	DefaultViewport       = 1280
	DefaultRatio          = 0.4
	DefaultPageSize       = 20
	DefaultHistoryFile    = ".ojspace_history"
	DefaultStatePath      = ".ojspace/state.json"
	DefaultProblemTTL     = time.Hour
)

// Config holds CLI configuration.
type Config struct {
	BaseURL        string        `yaml:"baseURL"`
	Timeout        time.Duration `yaml:"timeout"`
	Token          string        `yaml:"token"`
	FollowInterval time.Duration `yaml:"followInterval"`
	FollowTimeout  time.Duration `yaml:"followTimeout"`
	PageSize       int           `yaml:"pageSize"`
	Color          *bool         `yaml:"color"`
	HistoryFile    string        `yaml:"historyFile"`
	StatePath      string        `yaml:"statePath"`
	Editor         EditorConfig  `yaml:"editor"`
	Layout         LayoutConfig  `yaml:"layout"`
	Cache          CacheConfig   `yaml:"cache"`
	Log            logger.Config `yaml:"log"`
}

// EditorConfig holds the settings a new workspace starts with.
type EditorConfig struct {
	Language string `yaml:"language"`
	Theme    string `yaml:"theme"`
	FontSize int    `yaml:"fontSize"`
	TabSize  int    `yaml:"tabSize"`
}

// LayoutConfig holds the initial side panel geometry. A zero viewport means
// the terminal width decides.
type LayoutConfig struct {
	Viewport float64 `yaml:"viewport"`
	Ratio    float64 `yaml:"ratio"`
}

// CacheConfig enables the problem cache. An empty redis addr disables it.
type CacheConfig struct {
	Redis      cache.RedisConfig `yaml:"redis"`
	ProblemTTL time.Duration     `yaml:"problemTTL"`
}

func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file failed: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FollowInterval == 0 {
		cfg.FollowInterval = DefaultFollowInterval
	}
	if cfg.FollowTimeout <= 0 {
		cfg.FollowTimeout = DefaultFollowTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Color == nil {
		value := true
		cfg.Color = &value
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = DefaultHistoryFile
	}
	if cfg.StatePath == "" {
		cfg.StatePath = DefaultStatePath
	}
	if cfg.Editor.Language == "" {
		cfg.Editor.Language = DefaultLanguage
	}
	if cfg.Editor.Theme == "" {
		cfg.Editor.Theme = DefaultTheme
	}
	if cfg.Editor.FontSize == 0 {
		cfg.Editor.FontSize = DefaultFontSize
	}
	if cfg.Editor.TabSize == 0 {
		cfg.Editor.TabSize = DefaultTabSize
	}
	if cfg.Layout.Ratio == 0 {
		cfg.Layout.Ratio = DefaultRatio
	}
	if cfg.Cache.ProblemTTL <= 0 {
		cfg.Cache.ProblemTTL = DefaultProblemTTL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.OutputPath == "" {
		cfg.Log.OutputPath = "stderr"
	}
}
