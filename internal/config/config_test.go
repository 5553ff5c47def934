package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "Sheet1", cfg.Catalog.Sheet)
	assert.Equal(t, "Origineel", cfg.Catalog.OriginalColumn)
	assert.Equal(t, "2de hands prijs", cfg.Catalog.PriceColumn)
	assert.Equal(t, "Bestellingen", cfg.Orders.Sheet)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "Europe/Amsterdam", cfg.Location().String())
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SALE_STORE_DRIVER", "postgres")
	t.Setenv("SALE_STORE_DSN", "postgres://localhost/sale")
	t.Setenv("SALE_CATALOG_ORIGINAL_COLUMN", "Voorraad")
	t.Setenv("SALE_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SALE_NOTIFY_SMTP_HOST", "smtp.example.com")
	t.Setenv("SALE_NOTIFY_SMTP_TO", "a@example.com,b@example.com")
	t.Setenv("SALE_NOTIFY_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "Voorraad", cfg.Catalog.OriginalColumn)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Notify.SMTP.To)
	assert.Equal(t, 3*time.Second, cfg.Notify.Timeout)
}

func TestValidate(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":  {"SALE_STORE_DRIVER": "excel"},
		"shared sheet":    {"SALE_ORDERS_SHEET": "Sheet1"},
		"bad timezone":    {"SALE_TIMEZONE": "Mars/Olympus"},
		"smtp without to": {"SALE_NOTIFY_SMTP_HOST": "smtp.example.com"},
		"bad duration":    {"SALE_NOTIFY_TIMEOUT": "soon"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestValidateDSN(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Store.DSN = ""
	require.Error(t, cfg.Validate())

	cfg.Store.Driver = "memory"
	require.NoError(t, cfg.Validate())
}
