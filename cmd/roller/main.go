package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/storyteller.space/internal/cmd/roller"
	"github.com/louisbranch/storyteller.space/internal/platform/config"
)

// main starts the dice engine MCP server on stdio.
func main() {
	cfg, err := roller.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[ROLLER] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := roller.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve roller: %v", err)
	}
}
