package main

import (
	"fmt"
	"strings"

	"github.com/lomoval/event-organizer/internal/app"
	"github.com/lomoval/event-organizer/internal/logger"
	"github.com/spf13/viper"
)

const envConfigPrefix = "$env:"

type OrganizerConfig struct {
	UpcomingDays int
}

type Config struct {
	Logger    logger.Config
	Organizer OrganizerConfig
	Users     []app.SeedUser
	Events    []app.SeedEvent
}

func NewConfig(configFile string) (Config, error) {
	config := Config{}
	v := viper.New()
	v.SetConfigFile(configFile)

	v.SetDefault("logger.level", "WARN")
	v.SetDefault("organizer.upcomingDays", 7)

	err := v.ReadInConfig()
	if err != nil {
		return config, fmt.Errorf("failed to read config %q: %w", configFile, err)
	}
	keys := v.AllKeys()
	for _, key := range keys {
		env := v.GetString(key)
		if strings.HasPrefix(env, envConfigPrefix) {
			err := v.BindEnv(key, env[len(envConfigPrefix):])
			if err != nil {
				return Config{}, fmt.Errorf("failed to prepare config: %w", err)
			}
		}
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return config, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	if config.Organizer.UpcomingDays <= 0 {
		return config, fmt.Errorf("organizer.upcomingDays must be positive, got %d", config.Organizer.UpcomingDays)
	}
	return config, nil
}
