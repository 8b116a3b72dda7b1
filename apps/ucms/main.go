package main

import (
	"context"
	"fmt"
	"os"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/session"
	logsvc "github.com/malindutharaka300/ucms-f/services/logger"
	"github.com/malindutharaka300/ucms-f/storage/database"
	sqlxrepos "github.com/malindutharaka300/ucms-f/storage/database/sqlx"
)

func main() {
	os.Exit(start())
}

// start runs the command line and returns the exit code, so that deferred
// cleanups run before exiting.
func start() int {
	conf, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %s\n", err)
		return 1
	}

	zl, err := logsvc.NewZapLogger(conf.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: starting logger: %s\n", err)
		return 1
	}
	defer zl.Sync()
	var logger core.Logger = zl
	if conf.RollbarToken != "" {
		rl := logsvc.NewRollbarLogger(zl, conf)
		defer rl.Close()
		logger = rl
	}

	// set up local storage
	db, err := database.Open(conf)
	if err != nil {
		logger.Error("opening local storage", err)
		return 1
	}
	defer db.Close()

	store := session.NewStore(sqlxrepos.NewItemStorage(db, conf.StorageSecret))
	if err := store.Hydrate(context.Background()); err != nil {
		logger.Error("restoring session", err)
		return 1
	}

	// start CLI
	cli := newCommandLine(conf, store, logger, os.Stdin, os.Stdout)
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		return 1
	}
	return 0
}
