package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	Feeds struct {
		IPv4Base    string `json:"ipv4_base"`
		IPv6Base    string `json:"ipv6_base"`
		Timeout     uint32 `json:"timeout"`
		Concurrency uint32 `json:"concurrency"`
		UserAgent   string `json:"user_agent"`
	} `json:"feeds"`

	Output struct {
		Directory string `json:"directory"`
	} `json:"output"`

	Archive struct {
		Enabled bool   `json:"enabled"`
		Path    string `json:"path"`
	} `json:"archive"`

	GeoLite struct {
		DatabasePath string `json:"database_path"`
		SampleSize   uint32 `json:"sample_size"`
	} `json:"geolite"`
}

const settingsFilePath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
)

func init() {
	configValue.Store(Config{})
}

func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			err = os.MkdirAll("data", os.ModePerm)
			if err != nil {
				log.Error("Error creating directory for settings file:", err)
				return
			}

			err = os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm)
			if err != nil {
				log.Error("Error writing default settings file:", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file:", err)
			return
		}
	}

	var newConfig Config
	err = json.Unmarshal(data, &newConfig)
	if err != nil {
		log.Error("Error unmarshalling settings file:", err)
		return
	}

	configValue.Store(normalizeConfig(newConfig))
	log.Debug("Settings file loaded successfully")
}

// normalizeConfig backfills any field the settings file left empty with the
// embedded defaults, so a hand-edited partial file still yields a usable
// configuration.
func normalizeConfig(cfg Config) Config {
	var defaults Config
	if err := json.Unmarshal(defaultConfig, &defaults); err != nil {
		return cfg
	}

	if cfg.Feeds.IPv4Base == "" {
		cfg.Feeds.IPv4Base = defaults.Feeds.IPv4Base
	}
	if cfg.Feeds.IPv6Base == "" {
		cfg.Feeds.IPv6Base = defaults.Feeds.IPv6Base
	}
	if cfg.Feeds.Timeout == 0 {
		cfg.Feeds.Timeout = defaults.Feeds.Timeout
	}
	if cfg.Feeds.Concurrency == 0 {
		cfg.Feeds.Concurrency = defaults.Feeds.Concurrency
	}
	if cfg.Feeds.UserAgent == "" {
		cfg.Feeds.UserAgent = defaults.Feeds.UserAgent
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = defaults.Output.Directory
	}
	if cfg.Archive.Path == "" {
		cfg.Archive.Path = defaults.Archive.Path
	}
	if cfg.GeoLite.SampleSize == 0 {
		cfg.GeoLite.SampleSize = defaults.GeoLite.SampleSize
	}
	return cfg
}

func GetConfig() Config {
	// Get the current Config atomically
	return configValue.Load().(Config)
}
