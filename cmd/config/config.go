package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("formfield_server")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = AppConfig{
			General: GeneralConfig{
				LogLevel: viper.GetString("general.log_level"),
			},
			Server: ServerConfig{
				Addr: viper.GetString("server.addr"),
			},
			Postgresql: PostgresqlConfig{
				URL: viper.GetString("database.url"),
				DSN: viper.GetString("database.dsn"),
			},
			Migration: MigrationConfig{
				Schedule:        viper.GetString("migration.schedule"),
				IntervalSeconds: viper.GetInt("migration.interval_seconds"),
			},
		}
	})

	return configInstance
}

type AppConfig struct {
	General    GeneralConfig
	Server     ServerConfig
	Postgresql PostgresqlConfig
	Migration  MigrationConfig
}

type GeneralConfig struct {
	LogLevel string
}

type ServerConfig struct {
	Addr string
}

type PostgresqlConfig struct {
	URL string
	DSN string
}

// MigrationConfig drives the background settings-migration worker. Schedule
// is a cron expression gating sweeps; an empty schedule sweeps every tick.
type MigrationConfig struct {
	Schedule        string
	IntervalSeconds int
}
