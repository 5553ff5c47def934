package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/urfave/cli/v2"

	"github.com/dmehra2102/clearance-sale/pkg/shutdown"
)

func main() {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "sale-service:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sale-service",
		Usage: "inventory and order backend for the equipment clearance sale",
		Description: "Settings are read from SALE_* environment variables, " +
			"e.g. SALE_STORE_DRIVER, SALE_STORE_DSN, SALE_HTTP_ADDR.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			importCatalogCommand(),
			inventoryCommand(),
			columnsCommand(),
			orderedCommand(),
			watchCommand(),
		},
	}
}
