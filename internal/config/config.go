package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"os"
	"reflect"
	"strings"
)

type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	Bot     BotConfig     `mapstructure:"bot"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Storage StorageConfig `mapstructure:"storage"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

const defaultConfigFile = "./configs/config.yaml"

func Get() *Config {

	configFile := defaultConfigFile
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		configFile = value
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.Reset()
	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	setDefaults()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err = viper.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file %s: %w", file, err)
		}
		log.Warnf("config file %s not found, using defaults and environment", file)
	}

	config := Config{}
	if err = viper.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		jsonArrayHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("bot.admins", []int64{})
	viper.SetDefault("bot.subscribers", []int64{})
	viper.SetDefault("bot.send_rate_per_second", 25)
	viper.SetDefault("feed.timeout", "30s")
	viper.SetDefault("feed.cache_ttl", "5m")
	viper.SetDefault("storage.listings_file", "./data/job_ids.json")
	viper.SetDefault("storage.connection_string", "./data/bot.db")
	viper.SetDefault("storage.visitor_expiration_days", 90)
	viper.SetDefault("logger.log_level", string(LevelInfo))
	viper.SetDefault("logger.output_file", "./logs/bot.log")
	viper.SetDefault("metrics.address", ":8080")
}

func bindEnvironmentVariables() error {
	var errs []error

	bot, feed, storage, logger, metrics := BotConfig{}, FeedConfig{}, StorageConfig{}, LoggerConfig{}, MetricsConfig{}

	if err := bot.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("BotConfig: %w", err))
	}

	if err := feed.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("FeedConfig: %w", err))
	}

	if err := storage.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("StorageConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := metrics.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("MetricsConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := validator.New().Struct(config); err != nil {
		errs = append(errs, err)
	}

	if err := config.Bot.validate(); err != nil {
		errs = append(errs, fmt.Errorf("BotConfig: %w", err))
	}

	if err := config.Storage.validate(); err != nil {
		errs = append(errs, fmt.Errorf("StorageConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

// jsonArrayHookFunc lets list settings come from env as JSON, e.g. AUTH_RECIPIENTS="[1, 2]".
func jsonArrayHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
			return data, nil
		}

		str := strings.TrimSpace(data.(string))
		if !strings.HasPrefix(str, "[") {
			return data, nil
		}

		decoder := json.NewDecoder(strings.NewReader(str))
		decoder.UseNumber()

		var values []any
		if err := decoder.Decode(&values); err != nil {
			return nil, fmt.Errorf("invalid JSON array %q: %w", str, err)
		}
		return values, nil
	}
}
