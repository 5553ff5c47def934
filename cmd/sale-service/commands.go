package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/clearance-sale/internal/httpapi"
	inventorygrpc "github.com/dmehra2102/clearance-sale/internal/inventory/infrastructure/grpc"
	inventoryhttp "github.com/dmehra2102/clearance-sale/internal/inventory/infrastructure/http"
	inventorykafka "github.com/dmehra2102/clearance-sale/internal/inventory/infrastructure/kafka"
	orderhttp "github.com/dmehra2102/clearance-sale/internal/order/infrastructure/http"
	"github.com/dmehra2102/clearance-sale/internal/sheet"
	"github.com/dmehra2102/clearance-sale/pkg/shutdown"
	"github.com/dmehra2102/clearance-sale/pkg/tracing"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the inventory and order HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "watch-stock", Usage: "also consume OrderPlaced events and log sold out items"},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context
			e, err := setup(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			shutdownTracing, err := tracing.Init(ctx, "sale-service", e.cfg.OTELEndpoint, e.log)
			if err != nil {
				return errors.Wrap(err, "otel init")
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			router := httpapi.NewRouter(httpapi.Deps{
				Log:         e.log,
				Inventory:   inventoryhttp.NewHandler(e.log, e.inventoryService()),
				Orders:      orderhttp.NewHandler(e.log, e.orderService()),
				Idempotency: e.idempotency(ctx),
			})
			srv := &http.Server{
				Addr:         e.cfg.HTTPAddr,
				Handler:      router,
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 30 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			steps := []shutdown.Step{{Name: "http", Stop: srv.Shutdown}}

			if e.cfg.GRPCAddr != "" {
				health := inventorygrpc.NewServer(e.log, e.store)
				if _, err := inventorygrpc.Run(e.cfg.GRPCAddr, health); err != nil {
					return errors.Wrap(err, "grpc listen")
				}
				steps = append(steps, shutdown.Step{Name: "grpc", Stop: func(context.Context) error {
					health.Stop()
					return nil
				}})
				e.log.Info("grpc health listening", "addr", e.cfg.GRPCAddr)
				g.Go(func() error {
					health.Watch(gctx, 15*time.Second)
					return nil
				})
			}

			if c.Bool("watch-stock") {
				watcher, err := e.stockWatcher(gctx)
				if err != nil {
					return err
				}
				g.Go(func() error { return watcher.Run(gctx) })
			}

			g.Go(func() error {
				e.log.Info("http listening", "addr", e.cfg.HTTPAddr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return errors.Wrap(err, "http server")
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				return shutdown.Graceful(e.log, 10*time.Second, steps...)
			})

			err = g.Wait()
			e.log.Info("sale-service shutdown complete")
			return err
		},
	}
}

func (e *env) stockWatcher(ctx context.Context) (*inventorykafka.StockWatcher, error) {
	if len(e.cfg.Kafka.Brokers) == 0 {
		return nil, errors.New("stock watcher needs SALE_KAFKA_BROKERS")
	}
	reader := inventorykafka.NewReader(e.cfg.Kafka.Brokers, e.cfg.Kafka.Topic, e.cfg.Kafka.Group)
	var dedup inventorykafka.Deduplicator
	if idem := e.idempotency(ctx); idem != nil {
		dedup = idem
	}
	return inventorykafka.NewStockWatcher(e.log, reader, e.inventoryService(), dedup), nil
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "consume OrderPlaced events and log items that sold out",
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.Close()

			watcher, err := e.stockWatcher(c.Context)
			if err != nil {
				return err
			}
			return watcher.Run(c.Context)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the sheet store schema and exit",
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.Close()
			e.log.Info("schema up to date", "driver", e.cfg.Store.Driver)
			return nil
		},
	}
}

func importCatalogCommand() *cli.Command {
	return &cli.Command{
		Name:      "import-catalog",
		Usage:     "create the catalog sheet from a CSV export",
		ArgsUsage: "<file.csv>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sheet", Usage: "target sheet, defaults to SALE_CATALOG_SHEET"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("import-catalog needs exactly one CSV file", 2)
			}
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.Close()

			name := c.String("sheet")
			if name == "" {
				name = e.cfg.Catalog.Sheet
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := sheet.ImportCSV(c.Context, e.store, name, f)
			if err != nil {
				return err
			}
			e.log.Info("catalog imported", "sheet", name, "rows", n)
			return nil
		},
	}
}

func inventoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "inventory",
		Usage: "print the current availability of every item",
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.Close()

			stock, err := e.inventoryService().Inventory(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%d items\n", len(stock))
			for _, s := range stock {
				fmt.Fprintf(c.App.Writer, "- row %d %s %s: %d available (original %d, ordered %d)\n",
					s.Row.RowIndex, s.Row.Name(), s.Row.WeightLabel(), s.Available, s.Row.OriginalQuantity, s.Ordered)
			}
			return nil
		},
	}
}

func columnsCommand() *cli.Command {
	return &cli.Command{
		Name:  "columns",
		Usage: "check that the catalog headers can be found",
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.Close()

			cols, err := e.catalog().Columns(c.Context)
			if err != nil {
				return err
			}
			missing := 0
			for _, col := range cols {
				switch {
				case col.Index >= 0:
					fmt.Fprintf(c.App.Writer, "%-20s found at index %d (column %d)\n", col.Name, col.Index, col.Index+1)
				case col.Required:
					missing++
					fmt.Fprintf(c.App.Writer, "%-20s MISSING\n", col.Name)
				default:
					fmt.Fprintf(c.App.Writer, "%-20s not found (optional)\n", col.Name)
				}
			}
			if missing > 0 {
				return cli.Exit(fmt.Sprintf("%d required column(s) missing", missing), 1)
			}
			return nil
		},
	}
}

func orderedCommand() *cli.Command {
	return &cli.Command{
		Name:  "ordered",
		Usage: "print the ordered quantity per catalog row and unmatched order lines",
		Action: func(c *cli.Context) error {
			e, err := setup(c.Context)
			if err != nil {
				return err
			}
			defer e.Close()

			ordered, unmatched, err := e.inventoryService().OrderedQuantities(c.Context)
			if err != nil {
				return err
			}
			out := struct {
				Ordered   map[int]int `json:"ordered"`
				Unmatched []string    `json:"unmatched"`
			}{Ordered: ordered, Unmatched: unmatched}
			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
