package config

import (
	"github.com/spf13/viper"
	"time"
)

type FeedConfig struct {
	URL                  string        `mapstructure:"url" validate:"omitempty,url"`
	LinkBase             string        `mapstructure:"link_base" validate:"omitempty,url"`
	PollPeriodSeconds    int           `mapstructure:"poll_period_seconds" validate:"gt=0"`
	Timeout              time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second" validate:"gte=0"`
	CacheTTL             time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

func (config FeedConfig) PollPeriod() time.Duration {
	return time.Duration(config.PollPeriodSeconds) * time.Second
}

func (config FeedConfig) bindEnvironmentVariables() error {
	bindings := map[string]string{
		"feed.url":                     "FEED_URL",
		"feed.link_base":               "FEED_LINK_BASE",
		"feed.poll_period_seconds":     "SCRAPE_PERIODS",
		"feed.timeout":                 "FEED_TIMEOUT",
		"feed.max_requests_per_second": "FEED_MAX_REQUESTS_PER_SECOND",
		"feed.cache_ttl":               "FEED_CACHE_TTL",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}
