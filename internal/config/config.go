package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/logger"
	"codeberg.org/mutker/kweeb/internal/metrics"
	"codeberg.org/mutker/kweeb/internal/pipeline"
	"codeberg.org/mutker/kweeb/internal/remote"
	"codeberg.org/mutker/kweeb/internal/topology"
	"codeberg.org/mutker/kweeb/internal/ui"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"
	defaultEnv      = "KWEEB"
	configName      = "kweeb"
	configType      = "toml"
)

type Config struct {
	SampleInterval  time.Duration `mapstructure:"sample_interval"`
	FlushInterval   time.Duration `mapstructure:"flush_interval"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LockTimeout     time.Duration `mapstructure:"lock_timeout"`
	StoreTimeout    time.Duration `mapstructure:"store_timeout"`
	SyncTimeout     time.Duration `mapstructure:"sync_timeout"`
	ScrollThreshold int           `mapstructure:"scroll_threshold"`
	DefaultPPI      float64       `mapstructure:"default_ppi"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	Database        string        `mapstructure:"database"`
	DeviceIDFile    string        `mapstructure:"device_id_file"`
	PIDFile         string        `mapstructure:"pid_file"`

	Remote   RemoteConfig             `mapstructure:"remote"`
	UI       UIConfig                 `mapstructure:"ui"`
	Monitors map[string]MonitorConfig `mapstructure:"monitors"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

type RemoteConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	APIKey  string `mapstructure:"api_key"`
	Table   string `mapstructure:"table"`
}

type UIConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Socket      string        `mapstructure:"socket"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

type MonitorConfig struct {
	PPI float64 `mapstructure:"ppi"`
}

func setDefaults(v *viper.Viper) {
	dataDir := DataDir()

	v.SetDefault("sample_interval", pipeline.DefaultSampleInterval)
	v.SetDefault("flush_interval", pipeline.DefaultFlushInterval)
	v.SetDefault("refresh_interval", pipeline.DefaultRefreshInterval)
	v.SetDefault("lock_timeout", pipeline.DefaultLockTimeout)
	v.SetDefault("store_timeout", pipeline.DefaultStoreTimeout)
	v.SetDefault("sync_timeout", pipeline.DefaultSyncTimeout)
	v.SetDefault("scroll_threshold", 15)
	v.SetDefault("default_ppi", topology.DefaultPPI)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("database", filepath.Join(dataDir, "kweeb.db"))
	v.SetDefault("device_id_file", filepath.Join(dataDir, "device_id"))
	v.SetDefault("pid_file", filepath.Join(os.TempDir(), "kweeb.pid"))

	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.table", "metrics")

	v.SetDefault("ui.enabled", true)
	v.SetDefault("ui.socket", ui.DefaultSocket)
	v.SetDefault("ui.min_interval", pipeline.DefaultUIMinInterval)
}

// RegisterFlags defines the command line overrides on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to the configuration file")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("log-file", "", "Also write logs to this file")
	fs.String("database", "", "Path to the metrics database")
	fs.Duration("sample-interval", 0, "Interval between input samples")
	fs.Duration("flush-interval", 0, "Interval between metric flushes")
	fs.Bool("no-ui", false, "Do not publish totals to the menubar")
}

// Load reads configuration from defaults, the config file, environment
// variables and flags, in increasing order of precedence, and validates it.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{envPrefix: defaultEnv}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := o.configPath
	if path == "" && o.flags != nil {
		if f := o.flags.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
	}
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	if o.flags != nil {
		applyFlags(v, o.flags)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// flagKeys maps value flags to the configuration keys they override.
var flagKeys = map[string]string{
	"log-level":       "log_level",
	"log-file":        "log_file",
	"database":        "database",
	"sample-interval": "sample_interval",
	"flush-interval":  "flush_interval",
}

// applyFlags overrides keys with the flags that were set explicitly. Flags
// RegisterFlags does not know about are ignored, so a command may carry its
// own flags on the same set.
func applyFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "debug":
			if f.Value.String() == "true" {
				v.Set("log_level", "debug")
			}
		case "verbose":
			if f.Value.String() == "true" && !flagSet(fs, "debug") {
				v.Set("log_level", "info")
			}
		case "no-ui":
			if f.Value.String() == "true" {
				v.Set("ui.enabled", false)
			}
		default:
			if key, ok := flagKeys[f.Name]; ok {
				v.Set(key, f.Value.String())
			}
		}
	})
}

func flagSet(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed && f.Value.String() == "true"
}

// Validate checks intervals, density and the remote settings.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if err := c.Pipeline().Validate(); err != nil {
		return err
	}

	if !(c.DefaultPPI > 0) {
		return invalid("default_ppi", c.DefaultPPI, "must be positive")
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Database == "" {
		return invalid("database", c.Database, "must not be empty")
	}
	if c.DeviceIDFile == "" {
		return invalid("device_id_file", c.DeviceIDFile, "must not be empty")
	}

	if c.Remote.Enabled {
		if err := c.RemoteClient().Validate(); err != nil {
			return err
		}
	}

	for id, m := range c.Monitors {
		if !(m.PPI > 0) {
			return invalid("monitors."+id+".ppi", m.PPI, "must be positive")
		}
	}

	return nil
}

func invalid(field string, value any, reason string) error {
	return errors.New().WithData(errors.ErrInvalidConfig, struct {
		Field  string
		Value  any
		Reason string
	}{
		Field:  field,
		Value:  value,
		Reason: reason,
	})
}

// Pipeline returns the loop settings.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		SampleInterval:  c.SampleInterval,
		FlushInterval:   c.FlushInterval,
		RefreshInterval: c.RefreshInterval,
		LockTimeout:     c.LockTimeout,
		StoreTimeout:    c.StoreTimeout,
		SyncTimeout:     c.SyncTimeout,
		UIMinInterval:   c.UI.MinInterval,
		ScrollThreshold: c.ScrollThreshold,
	}
}

// Density returns the PPI resolution options. Monitor IDs are matched in
// lower case because configuration keys are case-insensitive.
func (c *Config) Density() topology.DensityOptions {
	overrides := make(map[string]float64, len(c.Monitors))
	for id, m := range c.Monitors {
		overrides[strings.ToLower(id)] = m.PPI
	}
	return topology.DensityOptions{DefaultPPI: c.DefaultPPI, Overrides: overrides}
}

func (c *Config) Metrics() metrics.Config {
	return metrics.Config{DBPath: c.Database, BackupOnMigrate: true}
}

func (c *Config) RemoteClient() remote.Config {
	return remote.Config{URL: c.Remote.URL, APIKey: c.Remote.APIKey, Table: c.Remote.Table}
}

func (c *Config) Logger(isService bool) logger.Options {
	return logger.Options{Level: c.LogLevel, File: c.LogFile, IsService: isService}
}
