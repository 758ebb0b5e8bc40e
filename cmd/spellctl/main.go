package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/spellcaster/internal/client/cli"
	"github.com/dmitrijs2005/spellcaster/internal/client/config"
)

func main() {

	global, rest := cli.SplitArgs(os.Args[1:])

	cfg, err := config.LoadConfig(global)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, rest); err != nil {
		stop()
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}

}
