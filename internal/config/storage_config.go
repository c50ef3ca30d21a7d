package config

import (
	"errors"
	"fmt"
	"github.com/spf13/viper"
)

type StorageConfig struct {
	ListingsFile          string `mapstructure:"listings_file"`
	ConnectionString      string `mapstructure:"connection_string"`
	VisitorExpirationDays int    `mapstructure:"visitor_expiration_days" validate:"gt=0"`
}

func (config StorageConfig) validate() error {
	var errs []error

	if config.ListingsFile == "" {
		errs = append(errs, fmt.Errorf("missing variable: listings_file"))
	}
	if config.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("missing variable: connection_string"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config StorageConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("storage.listings_file", "LISTINGS_FILE")
	if err != nil {
		return err
	}

	err = viper.BindEnv("storage.connection_string", "DB_CONNECTION_STRING")
	if err != nil {
		return err
	}

	return viper.BindEnv("storage.visitor_expiration_days", "VISITOR_EXPIRATION_DAYS")
}
