package config

import (
	"errors"
	"time"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverBadger   = "badger"

	// NominationsCollection is not configurable.
	NominationsCollection = "Nominations"
)

type Config struct {
	App    AppConfig    `koanf:"app"`
	Store  StoreConfig  `koanf:"store"`
	Redis  RedisConfig  `koanf:"redis"`
	Events EventsConfig `koanf:"events"`
}

type AppConfig struct {
	AppName          string `koanf:"name"`
	Environment      string `koanf:"env"`
	HTTPPort         string `koanf:"http_port"`
	LogLevel         string `koanf:"log_level"`
	CORSAllowOrigins string `koanf:"cors_allow_origins"`
}

type StoreConfig struct {
	Driver            string        `koanf:"driver"`
	ConnectionString  string        `koanf:"connection_string"`
	Database          string        `koanf:"database"`
	ExpertsCollection string        `koanf:"experts_collection"`
	Path              string        `koanf:"path"`
	ConnectTimeout    time.Duration `koanf:"connect_timeout"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type EventsConfig struct {
	AMQPURI   string `koanf:"amqp_uri"`
	Exchange  string `koanf:"exchange"`
	WSEnabled bool   `koanf:"ws_enabled"`
}

var (
	errUnknownDriver           = errors.New("unknown store driver")
	errMissingConnectionString = errors.New("missing store connection string")
	errMissingRequiredSetting  = errors.New("missing required setting")
)

// Defaults returns the configuration used when nothing else is provided.
func Defaults() Config {
	return Config{
		App: AppConfig{
			AppName:          "expertise-marketplace",
			Environment:      "development",
			HTTPPort:         "8080",
			LogLevel:         "info",
			CORSAllowOrigins: "*",
		},
		Store: StoreConfig{
			Driver:            DriverMongo,
			Database:          "ExpertiseMarketplace",
			ExpertsCollection: "Experts",
			ConnectTimeout:    10 * time.Second,
		},
		Redis: RedisConfig{
			TTL: 10 * time.Minute,
		},
		Events: EventsConfig{
			Exchange:  "expertise.events",
			WSEnabled: true,
		},
	}
}
