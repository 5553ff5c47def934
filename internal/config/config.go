// Package config loads the service settings from SALE_* environment
// variables.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

const Prefix = "SALE_"

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	// GRPCAddr serves gRPC health; empty disables it.
	GRPCAddr     string `env:"GRPC_ADDR" envDefault:":9090"`
	OTELEndpoint string `env:"OTEL_ENDPOINT"`
	Timezone     string `env:"TIMEZONE" envDefault:"Europe/Amsterdam"`

	Store   Store   `envPrefix:"STORE_"`
	Catalog Catalog `envPrefix:"CATALOG_"`
	Orders  Orders  `envPrefix:"ORDERS_"`
	Notify  Notify  `envPrefix:"NOTIFY_"`
	Kafka   Kafka   `envPrefix:"KAFKA_"`
	Redis   Redis   `envPrefix:"REDIS_"`
}

type Store struct {
	// Driver is one of memory, sqlite, mysql or postgres.
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"file:sale.db"`
}

type Catalog struct {
	Sheet          string `env:"SHEET" envDefault:"Sheet1"`
	MaterialColumn string `env:"MATERIAL_COLUMN" envDefault:"Materiaal"`
	WeightColumn   string `env:"WEIGHT_COLUMN" envDefault:"Gewicht"`
	PriceColumn    string `env:"PRICE_COLUMN" envDefault:"2de hands prijs"`
	OriginalColumn string `env:"ORIGINAL_COLUMN" envDefault:"Origineel"`
}

type Orders struct {
	Sheet string `env:"SHEET" envDefault:"Bestellingen"`
}

type Notify struct {
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"10s"`
	WebhookURL string        `env:"WEBHOOK_URL"`
	SMTP       SMTP          `envPrefix:"SMTP_"`
}

type SMTP struct {
	Host     string   `env:"HOST"`
	Port     int      `env:"PORT" envDefault:"587"`
	Username string   `env:"USERNAME"`
	Password string   `env:"PASSWORD"`
	From     string   `env:"FROM"`
	To       []string `env:"TO" envSeparator:","`
}

type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"sale.orders"`
	Group   string   `env:"GROUP" envDefault:"sale-stock-watcher"`
}

type Redis struct {
	Addr string        `env:"ADDR"`
	TTL  time.Duration `env:"TTL" envDefault:"24h"`
}

// Load parses the environment and checks the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "mysql", "postgres":
	default:
		return errors.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver != "memory" && c.Store.DSN == "" {
		return errors.New("store dsn is required")
	}
	if c.Catalog.Sheet == "" || c.Orders.Sheet == "" {
		return errors.New("catalog and order sheet names are required")
	}
	if c.Catalog.Sheet == c.Orders.Sheet {
		return errors.Errorf("catalog and orders share sheet %q", c.Catalog.Sheet)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Wrapf(err, "timezone %q", c.Timezone)
	}
	if c.Notify.SMTP.Host != "" && len(c.Notify.SMTP.To) == 0 {
		return errors.New("smtp host set without recipients")
	}
	return nil
}

// Location returns the configured timezone. Call after Validate.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
