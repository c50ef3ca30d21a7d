package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
)

type BotConfig struct {
	Token             string  `mapstructure:"token"`
	Admins            []int64 `mapstructure:"admins"`
	Subscribers       []int64 `mapstructure:"subscribers"`
	SendRatePerSecond float32 `mapstructure:"send_rate_per_second" validate:"gte=0"`
}

func (config BotConfig) validate() error {

	var missingFields []string

	if config.Token == "" {
		missingFields = append(missingFields, "token")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	return nil
}

func (config BotConfig) bindEnvironmentVariables() error {
	if err := viper.BindEnv("bot.token", "BOT_TOKEN"); err != nil {
		return err
	}

	if err := viper.BindEnv("bot.admins", "AUTH_RECIPIENTS"); err != nil {
		return err
	}

	if err := viper.BindEnv("bot.subscribers", "ALERT_RECIPIENTS"); err != nil {
		return err
	}

	return viper.BindEnv("bot.send_rate_per_second", "SEND_RATE_PER_SECOND")
}
