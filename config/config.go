package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/b0bbywan/go-luminous-portal/logger"
)

const (
	AppName    = "xdg-desktop-portal-luminous"
	AppVersion = "0.1.0"

	DefaultBusName = "org.freedesktop.impl.portal.desktop.luminous"

	serviceConfigName = "portal"
	settingsFileName  = "config.toml"
	envPrefix         = "LUMINOUS"
)

type Config struct {
	BusName    string
	Settings   *SettingsConfig
	ScreenCast *ScreenCastConfig
	LogLevel   logger.Level
	LogLevels  map[string]logger.Level
}

type SettingsConfig struct {
	// Path of the user settings document. Empty when it could not be resolved,
	// in which case defaults are served and nothing is watched.
	Path  string
	Watch bool
}

type ScreenCastConfig struct {
	Enabled bool
	// SessionTTL expires idle sessions when > 0.
	SessionTTL time.Duration
}

// SettingsPath returns the default location of the user settings document,
// $HOME/.config/<AppName>/config.toml.
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, settingsFileName), nil
}

func parseLogLevels(raw map[string]string) map[string]logger.Level {
	levels := make(map[string]logger.Level, len(raw))
	for component, level := range raw {
		levels[strings.ToLower(component)] = logger.ParseLevel(level)
	}
	return levels
}

func New() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("LogLevel", "WARN")
	v.SetDefault("logLevels", map[string]string{})
	v.SetDefault("busName", DefaultBusName)
	v.SetDefault("settings.path", "")
	v.SetDefault("settings.watch", true)
	v.SetDefault("screencast.enabled", true)
	v.SetDefault("screencast.sessionTTL", "0s")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Service configuration, distinct from the user settings document
	v.SetConfigName(serviceConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join("/etc", AppName))
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", AppName))
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional, continue with defaults if not found
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); !isNotFound {
			logger.Warn("[config] failed to read %s: %v", serviceConfigName, err)
		}
	}

	busName := strings.TrimSpace(v.GetString("busName"))
	if busName == "" {
		return nil, fmt.Errorf("invalid bus name: empty")
	}

	settingsPath := v.GetString("settings.path")
	if settingsPath == "" {
		p, err := SettingsPath()
		if err != nil {
			logger.Warn("[config] cannot locate settings document, serving defaults: %v", err)
		}
		settingsPath = p
	}

	ttl := v.GetDuration("screencast.sessionTTL")
	if ttl < 0 {
		return nil, fmt.Errorf("invalid screencast session TTL: %s", ttl)
	}

	settingsCfg := SettingsConfig{
		Path:  settingsPath,
		Watch: v.GetBool("settings.watch") && settingsPath != "",
	}

	screencastCfg := ScreenCastConfig{
		Enabled:    v.GetBool("screencast.enabled"),
		SessionTTL: ttl,
	}

	cfg := Config{
		BusName:    busName,
		Settings:   &settingsCfg,
		ScreenCast: &screencastCfg,
		LogLevel:   logger.ParseLevel(v.GetString("LogLevel")),
		LogLevels:  parseLogLevels(v.GetStringMapString("logLevels")),
	}

	return &cfg, nil
}
