package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	rollcmd "github.com/aawilson/rputils/internal/cmd/roll"
	"github.com/aawilson/rputils/internal/platform/config"
)

func main() {
	cfg, err := rollcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitCodef(os.Stderr, 2, "parse flags: %v", err)
	}
	log.SetPrefix("[ROLL] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rollcmd.Run(ctx, cfg); err != nil {
		stop()
		config.Exitf("roll: %v", err)
	}
}
