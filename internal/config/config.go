// Package config loads capitals settings from config.yaml, CAPITALS_*
// environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/capitals/internal/logging"
	"github.com/mesh-intelligence/capitals/internal/worldtime"
	"github.com/mesh-intelligence/capitals/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// FileName is the config file inside the config directory.
	FileName = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. CAPITALS_LOG_LEVEL.
	EnvPrefix = "CAPITALS"
)

// Config keys.
const (
	KeyDataDir        = "data_dir"
	KeyDBFile         = "db_file"
	KeyTimeAPIBaseURL = "time_api.base_url"
	KeyTimeAPITimeout = "time_api.timeout"
	KeyTimeAPIRate    = "time_api.requests_per_second"
	KeyTimeAPIBurst   = "time_api.burst"
	KeyClockTick      = "clock.tick"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = logging.FormatText
	defaultClockTick = time.Second
	defaultFilePerm  = 0o644
	defaultDirPerm   = 0o755
)

// defaultFileHeader opens the config.yaml written on first run.
const defaultFileHeader = `# capitals configuration
# Every key can be overridden with a CAPITALS_* environment variable,
# e.g. CAPITALS_LOG_LEVEL=debug or CAPITALS_TIME_API_TIMEOUT=5s.

`

// Validation errors.
var (
	ErrInvalidTimeout   = errors.New("time_api.timeout must be positive")
	ErrInvalidRate      = errors.New("time_api.requests_per_second must be positive")
	ErrInvalidBurst     = errors.New("time_api.burst must be at least 1")
	ErrInvalidTick      = errors.New("clock.tick must be positive")
	ErrInvalidLogFormat = errors.New("log.format must be text or json")
	ErrInvalidBaseURL   = errors.New("time_api.base_url is required")
)

// TimeAPI configures the remote time source.
type TimeAPI struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// Clock configures the clock board.
type Clock struct {
	Tick time.Duration `mapstructure:"tick"`
}

// Settings is the resolved configuration.
type Settings struct {
	DataDir string         `mapstructure:"data_dir"`
	DBFile  string         `mapstructure:"db_file"`
	TimeAPI TimeAPI        `mapstructure:"time_api"`
	Clock   Clock          `mapstructure:"clock"`
	Log     logging.Config `mapstructure:"log"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		DBFile: types.DefaultFileName,
		TimeAPI: TimeAPI{
			BaseURL:           worldtime.DefaultBaseURL,
			Timeout:           worldtime.DefaultTimeout,
			RequestsPerSecond: worldtime.DefaultRequestsPerSecond,
			Burst:             worldtime.DefaultBurst,
		},
		Clock: Clock{Tick: defaultClockTick},
		Log:   logging.Config{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

// Validate checks the settings for values the application cannot run with.
func (s Settings) Validate() error {
	switch {
	case strings.TrimSpace(s.TimeAPI.BaseURL) == "":
		return ErrInvalidBaseURL
	case s.TimeAPI.Timeout <= 0:
		return ErrInvalidTimeout
	case s.TimeAPI.RequestsPerSecond <= 0:
		return ErrInvalidRate
	case s.TimeAPI.Burst < 1:
		return ErrInvalidBurst
	case s.Clock.Tick <= 0:
		return ErrInvalidTick
	}
	switch strings.ToLower(s.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return ErrInvalidLogFormat
	}
	return s.StoreConfig(s.DataDir).Validate()
}

// StoreConfig returns the store configuration for dataDir.
func (s Settings) StoreConfig(dataDir string) types.Config {
	return types.Config{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		FileName: s.DBFile,
	}
}

// WorldTime returns the time client configuration.
func (s Settings) WorldTime() worldtime.Config {
	return worldtime.Config{
		BaseURL:           s.TimeAPI.BaseURL,
		Timeout:           s.TimeAPI.Timeout,
		RequestsPerSecond: s.TimeAPI.RequestsPerSecond,
		Burst:             s.TimeAPI.Burst,
	}
}

// Load reads config.yaml from configDir, creating the directory and a
// default file on first run, and applies CAPITALS_* environment overrides.
func Load(configDir string) (Settings, error) {
	if err := os.MkdirAll(configDir, defaultDirPerm); err != nil {
		return Settings{}, fmt.Errorf("ensure config dir: %w", err)
	}
	path := filepath.Join(configDir, FileName)
	if err := WriteDefault(path); err != nil {
		return Settings{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	setDefaults(v, Defaults())
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	// data_dir ranks above CAPITALS_DATA_DIR, so it comes from the file only.
	s.DataDir = dataDirFromFile(path)
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault(KeyDBFile, d.DBFile)
	v.SetDefault(KeyTimeAPIBaseURL, d.TimeAPI.BaseURL)
	v.SetDefault(KeyTimeAPITimeout, d.TimeAPI.Timeout)
	v.SetDefault(KeyTimeAPIRate, d.TimeAPI.RequestsPerSecond)
	v.SetDefault(KeyTimeAPIBurst, d.TimeAPI.Burst)
	v.SetDefault(KeyClockTick, d.Clock.Tick)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
}

// dataDirFromFile reads data_dir from config.yaml. It returns an empty
// string if the file cannot be read.
func dataDirFromFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var f fileLayout
	if err := yaml.Unmarshal(data, &f); err != nil {
		return ""
	}
	return strings.TrimSpace(f.DataDir)
}

// fileLayout is what WriteDefault puts in config.yaml. Durations are
// written in their string form so the file stays hand-editable.
type fileLayout struct {
	DataDir string `yaml:"data_dir"`
	DBFile  string `yaml:"db_file"`
	TimeAPI struct {
		BaseURL           string  `yaml:"base_url"`
		Timeout           string  `yaml:"timeout"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"time_api"`
	Clock struct {
		Tick string `yaml:"tick"`
	} `yaml:"clock"`
	Log logging.Config `yaml:"log"`
}

// WriteDefault writes a config.yaml with default values to path. An
// existing file is left untouched.
func WriteDefault(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	d := Defaults()
	var f fileLayout
	f.DBFile = d.DBFile
	f.TimeAPI.BaseURL = d.TimeAPI.BaseURL
	f.TimeAPI.Timeout = d.TimeAPI.Timeout.String()
	f.TimeAPI.RequestsPerSecond = d.TimeAPI.RequestsPerSecond
	f.TimeAPI.Burst = d.TimeAPI.Burst
	f.Clock.Tick = d.Clock.Tick.String()
	f.Log = d.Log

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultFileHeader), data...), defaultFilePerm)
}

// LoadDotEnv loads environment variables from the given .env files (or
// ./.env when none are named). Missing files are ignored and variables
// already set in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
