package config

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/khnpedu/tension-meeting/globals"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultLogLevel        = "INFO"
	defaultAdviceCacheSize = 256
)

// Config is the global configuration object which is filled via the configuration file
type Config struct {
	StoreConfig   StoreConfig   `mapstructure:"store"`
	AdviceConfig  AdviceConfig  `mapstructure:"advice"`
	AdminConfig   AdminConfig   `mapstructure:"admin"`
	SweeperConfig SweeperConfig `mapstructure:"sweeper"`
	LogLevel      string        `mapstructure:"log_level"`
}

// StoreConfig selects the room document store backend. Type is one of
// "buntdb" (default), "sqlite" or "postgres"; DSN is the file name for buntdb
// (empty = in-memory) or the database DSN for the SQL backends.
type StoreConfig struct {
	Type string `mapstructure:"type"`
	DSN  string `mapstructure:"dsn"`
}

// AdviceConfig configures the external generative-text service used by the
// meeting assistant. If Endpoint is empty the assistant answers with the fixed
// fallback text only.
type AdviceConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	ApiKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	CacheSize int    `mapstructure:"cache_size"`
}

// AdminConfig holds the single shared secret gating the organizer operations.
type AdminConfig struct {
	Secret string `mapstructure:"secret"`
}

// SweeperConfig configures the periodic removal of stale rooms. The sweeper is
// disabled unless both values are set.
type SweeperConfig struct {
	CronSpec       string `mapstructure:"cron_spec"`
	RoomTTLMinutes int    `mapstructure:"room_ttl_minutes"`
}

func GetFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("configuration", pflag.ContinueOnError)
	flagSet.StringP("admin-secret", "s", "", "shared admin secret")
	flagSet.String("log-level", "", "log level (TRACE/DEBUG/INFO/WARN/ERROR)")
	return flagSet
}

// wordSepNormalizeFunc allows for normalization of the flag names (which use - as a separator)
func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	from := "-"
	to := "_"
	name = strings.Replace(name, from, to, -1)
	return pflag.NormalizedName(name)
}

// ReadConfiguration reads and parses the configuration located at configPath, which can either point to a single TOML
// file or to a directory, in which case all *.toml files in this directory are concatenated. It returns a Config
// object.
func ReadConfiguration(configPath string, flagSet *pflag.FlagSet) (*Config, error) {
	cfg := Config{}
	flagSet.SetNormalizeFunc(wordSepNormalizeFunc)
	viper.SetDefault("log_level", defaultLogLevel)
	viper.SetDefault("advice.cache_size", defaultAdviceCacheSize)
	err := viper.BindPFlags(flagSet)
	if err != nil {
		globals.AppLogger.Error("could not bind flags (ignored)", "error", err)
	}
	viper.SetEnvPrefix("TENSION")
	viper.AutomaticEnv()
	if configPath != "" {
		fi, err := os.Stat(configPath)
		if err != nil {
			return nil, err
		}
		contents := make([]byte, 0)
		files := []string{configPath}
		if fi.IsDir() {
			files, err = filepath.Glob(filepath.Join(configPath, "*.toml"))
			if err != nil {
				return nil, err
			}
		}
		for _, configFile := range files {
			fileContents, err := ioutil.ReadFile(configFile)
			if err != nil {
				return nil, err
			}
			contents = append(contents, fileContents...)
			contents = append(contents, '\n')
		}
		viper.SetConfigType("toml")
		err = viper.ReadConfig(bytes.NewBuffer(contents))
		if err != nil {
			globals.AppLogger.Error("could not read config:", "error", err)
		}
	}
	err = viper.Unmarshal(&cfg)
	if err != nil {
		globals.AppLogger.Error("could not unmarshal config:", "error", err)
	}
	// flag names use "_" after normalization
	if secret := viper.GetString("admin_secret"); secret != "" {
		cfg.AdminConfig.Secret = secret
	}
	if level := viper.GetString("log_level"); level != "" {
		cfg.LogLevel = level
	}
	return &cfg, nil
}
