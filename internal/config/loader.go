package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigFileEnv names the optional YAML file layered between defaults and env.
const ConfigFileEnv = "CONFIG_FILE"

// legacyEnvKeys are the names the Azure Cosmos deployment used. They are
// loaded first so the canonical names below win when both are set.
var legacyEnvKeys = map[string]string{
	"COSMOS_CONNECTION_STRING": "store.connection_string",
	"COSMOS_DATABASE_NAME":     "store.database",
	"COSMOS_CONTAINER_NAME":    "store.experts_collection",
}

var envKeys = map[string]string{
	"APP_NAME":                 "app.name",
	"APP_ENV":                  "app.env",
	"HTTP_PORT":                "app.http_port",
	"LOG_LEVEL":                "app.log_level",
	"CORS_ALLOW_ORIGINS":       "app.cors_allow_origins",
	"STORE_DRIVER":             "store.driver",
	"STORE_CONNECTION_STRING":  "store.connection_string",
	"STORE_DATABASE_NAME":      "store.database",
	"STORE_EXPERTS_COLLECTION": "store.experts_collection",
	"STORE_PATH":               "store.path",
	"STORE_CONNECT_TIMEOUT":    "store.connect_timeout",
	"REDIS_ADDR":               "redis.addr",
	"REDIS_PASSWORD":           "redis.password",
	"REDIS_DB":                 "redis.db",
	"REDIS_TTL":                "redis.ttl",
	"RABBITMQ_URI":             "events.amqp_uri",
	"RABBITMQ_EXCHANGE":        "events.exchange",
	"WS_ENABLED":               "events.ws_enabled",
}

// Load layers defaults, the optional CONFIG_FILE YAML and environment
// variables (lowest to highest precedence) and validates the result.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv(ConfigFileEnv)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	for _, keys := range []map[string]string{legacyEnvKeys, envKeys} {
		if err := k.Load(envProvider(keys), nil); err != nil {
			return Config{}, fmt.Errorf("load env: %w", err)
		}
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envProvider(keys map[string]string) *env.Env {
	return env.Provider("", ".", func(s string) string {
		return keys[s]
	})
}

func normalize(cfg *Config) {
	cfg.App.HTTPPort = strings.TrimSpace(cfg.App.HTTPPort)
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	cfg.Store.ConnectionString = strings.TrimSpace(cfg.Store.ConnectionString)
	cfg.Store.Database = strings.TrimSpace(cfg.Store.Database)
	cfg.Store.ExpertsCollection = strings.TrimSpace(cfg.Store.ExpertsCollection)
	cfg.Redis.Addr = strings.TrimSpace(cfg.Redis.Addr)
	cfg.Events.AMQPURI = strings.TrimSpace(cfg.Events.AMQPURI)
}

func (c Config) Validate() error {
	var missing []string
	if c.App.HTTPPort == "" {
		missing = append(missing, "app.http_port")
	}
	if c.Store.Database == "" {
		missing = append(missing, "store.database")
	}
	if c.Store.ExpertsCollection == "" {
		missing = append(missing, "store.experts_collection")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredSetting, strings.Join(missing, ", "))
	}

	switch c.Store.Driver {
	case DriverMongo, DriverPostgres:
		if c.Store.ConnectionString == "" {
			return fmt.Errorf("%w for driver %s", errMissingConnectionString, c.Store.Driver)
		}
	case DriverBadger:
	default:
		return fmt.Errorf("%w: %q", errUnknownDriver, c.Store.Driver)
	}
	return nil
}
