package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gw2/crafter/internal/api"
	"gw2/crafter/internal/config"
	"gw2/crafter/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	item := flag.String("item", "", "item id or name for one-shot mode; empty starts the HTTP server")
	quantity := flag.Int64("quantity", 1, "quantity to resolve in one-shot mode")
	tree := flag.Bool("tree", false, "print the crafting tree instead of the buy-vs-craft comparison")
	owned := flag.String("owned", "", "owned materials as id:qty,id:qty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *item != "" {
		if err := runOnce(ctx, app, *item, *quantity, *tree, *owned); err != nil {
			log.Fatalf("Resolution failed: %v", err)
		}
		return
	}

	log.Info("Starting crafting valuation server...")
	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Info("Application finished successfully")
}

// runOnce resolves a single item and prints the result as JSON.
func runOnce(ctx context.Context, app *container.Container, item string, quantity int64, printTree bool, rawOwned string) error {
	itemID, err := strconv.Atoi(item)
	if err != nil {
		meta, resolveErr := app.Service.ResolveItemName(ctx, item)
		if resolveErr != nil {
			return resolveErr
		}
		itemID = meta.ID
	}

	var result any
	if printTree {
		result, err = app.Service.ResolveTree(ctx, itemID, quantity)
	} else {
		var ownedMap map[int]int64
		ownedMap, err = api.ParseOwned(rawOwned)
		if err != nil {
			return err
		}
		result, err = app.Service.Compare(ctx, itemID, quantity, ownedMap)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
