package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"divvy/cmd"
	"divvy/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrateCommand(os.Args[2:]); err != nil {
			log.WithError(err).Fatal("Migration failed")
		}
		return
	}

	// SIGINT/SIGTERM cancel the root context; the server drains in-flight
	// requests before Run returns.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx); err != nil {
		log.WithError(err).Fatal("divvy exited")
	}
}

func runMigrateCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: divvy migrate [up|down|status] [steps]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
