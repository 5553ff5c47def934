package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/clearance-sale/internal/config"
	inventoryapp "github.com/dmehra2102/clearance-sale/internal/inventory/application"
	inventorystore "github.com/dmehra2102/clearance-sale/internal/inventory/infrastructure/store"
	orderapp "github.com/dmehra2102/clearance-sale/internal/order/application"
	orderkafka "github.com/dmehra2102/clearance-sale/internal/order/infrastructure/kafka"
	"github.com/dmehra2102/clearance-sale/internal/order/infrastructure/notify"
	orderstore "github.com/dmehra2102/clearance-sale/internal/order/infrastructure/store"
	"github.com/dmehra2102/clearance-sale/internal/sheet"
	"github.com/dmehra2102/clearance-sale/internal/sheet/migrations"
	"github.com/dmehra2102/clearance-sale/internal/sheet/pgstore"
	"github.com/dmehra2102/clearance-sale/internal/sheet/sqlstore"
	"github.com/dmehra2102/clearance-sale/pkg/events"
	"github.com/dmehra2102/clearance-sale/pkg/idempotency"
	"github.com/dmehra2102/clearance-sale/pkg/logging"
)

// env holds what every command needs: settings, logger and the open store.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	store   sheet.Store
	closers []func()

	idem     *idempotency.Store
	idemOnce bool
}

func setup(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: logging.New(cfg.LogLevel)}

	store, closeStore, err := openStore(ctx, e.log, cfg.Store)
	if err != nil {
		return nil, err
	}
	e.store = store
	e.onClose(closeStore)
	return e, nil
}

func (e *env) onClose(fn func()) { e.closers = append(e.closers, fn) }

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// openStore connects the configured sheet store and applies its schema.
func openStore(ctx context.Context, log *slog.Logger, cfg config.Store) (sheet.Store, func(), error) {
	switch cfg.Driver {
	case "memory":
		log.Warn("using in-memory sheet store; data is lost on exit")
		return sheet.NewMemory(), func() {}, nil
	case "sqlite", "mysql":
		dialect := migrations.SQLite
		if cfg.Driver == "mysql" {
			dialect = migrations.MySQL
		}
		s, err := sqlstore.Open(ctx, log, dialect, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, errors.Wrap(err, "pg connect")
		}
		s := pgstore.NewStore(log, pool)
		if err := s.Migrate(); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	default:
		return nil, nil, errors.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (e *env) layout() inventorystore.Layout {
	c := e.cfg.Catalog
	return inventorystore.Layout{
		Sheet:    c.Sheet,
		Material: c.MaterialColumn,
		Weight:   c.WeightColumn,
		Price:    c.PriceColumn,
		Original: c.OriginalColumn,
	}
}

func (e *env) catalog() *inventorystore.CatalogRepository {
	return inventorystore.NewCatalogRepository(e.log, e.store, e.layout())
}

func (e *env) orderLog() *orderstore.OrderLog {
	return orderstore.NewOrderLog(e.log, e.store, e.cfg.Orders.Sheet, e.cfg.Location())
}

func (e *env) inventoryService() *inventoryapp.Service {
	return inventoryapp.NewService(e.log, e.catalog(), e.orderLog())
}

// orderService registers a notifier for every configured sink.
func (e *env) orderService() *orderapp.Service {
	n := e.cfg.Notify
	opts := []orderapp.Option{orderapp.WithNotifyTimeout(n.Timeout)}

	if n.WebhookURL != "" {
		client := &http.Client{Timeout: n.Timeout}
		opts = append(opts, orderapp.WithNotifier("webhook", notify.NewWebhook(e.log, client, n.WebhookURL, e.cfg.Location())))
	}
	if n.SMTP.Host != "" {
		opts = append(opts, orderapp.WithNotifier("email", notify.NewEmail(e.log, notify.EmailConfig{
			Host:     n.SMTP.Host,
			Port:     n.SMTP.Port,
			Username: n.SMTP.Username,
			Password: n.SMTP.Password,
			From:     n.SMTP.From,
			To:       n.SMTP.To,
		}, e.cfg.Location())))
	}
	if len(e.cfg.Kafka.Brokers) > 0 {
		writer := orderkafka.NewWriter(e.cfg.Kafka.Brokers)
		e.onClose(func() { _ = writer.Close() })
		dispatch := events.NewDispatcher(e.log, writer, e.cfg.Kafka.Topic)
		opts = append(opts, orderapp.WithNotifier("kafka", orderkafka.NewNotifier(e.log, dispatch)))
	}
	return orderapp.NewService(e.log, e.orderLog(), opts...)
}

// idempotency returns nil when no Redis address is configured. The client
// is shared by every caller.
func (e *env) idempotency(ctx context.Context) *idempotency.Store {
	if e.idemOnce || e.cfg.Redis.Addr == "" {
		return e.idem
	}
	e.idemOnce = true
	rdb := redis.NewClient(&redis.Options{Addr: e.cfg.Redis.Addr})
	e.onClose(func() { _ = rdb.Close() })

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		e.log.Warn("redis unreachable; idempotency checks will fail open", "addr", e.cfg.Redis.Addr, "err", err)
	}
	e.idem = idempotency.NewStore(rdb, e.cfg.Redis.TTL)
	return e.idem
}
