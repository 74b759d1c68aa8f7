package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"mesh_relay/internal/config"
	"mesh_relay/internal/relay"
	"mesh_relay/internal/utils"
)

func main() {
	var basePath string
	flag.StringVar(&basePath, "prefix", "", "Config file base path")
	flag.Parse()

	cfg, err := config.LoadMainConfig(basePath)
	if err != nil {
		log.Printf("Load config failed, running on defaults: %v", err)
	}

	logger := utils.NewNodeLogger(cfg.LogPath)
	defer func() {
		_ = logger.Sync()
	}()

	tx, err := relay.NewUDPBroadcaster(cfg.BroadcastAddr, cfg.Port,
		time.Duration(cfg.AdvIntervalMs)*time.Millisecond, logger)
	if err != nil {
		log.Fatalf("Open broadcaster failed: %v", err)
	}
	defer func() {
		_ = tx.Close()
	}()

	node := relay.New(cfg, logger, tx, nil, readSensor)

	scan, err := relay.NewUDPScan(cfg.Port, node.Events(), logger)
	if err != nil {
		log.Fatalf("Open scanner failed: %v", err)
	}
	defer func() {
		_ = scan.Close()
	}()
	node.SetScanDriver(scan)

	log.Printf("Node ID: %s, broadcasting on %s:%d", node.NodeID(), cfg.BroadcastAddr, cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := node.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Relay failed: %v", err)
	}

	log.Println("Node stopped")
}

// readSensor stands in for the hardware temperature probe: a plausible
// ambient reading with a little noise, so multi-node test runs show
// distinguishable telemetry.
func readSensor() float64 {
	return 21.0 + rand.Float64()*6.0
}
