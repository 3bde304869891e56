package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/dealerdash/internal/buildinfo"
	"github.com/dmitrijs2005/dealerdash/internal/client/cli"
	"github.com/dmitrijs2005/dealerdash/internal/client/config"
	"github.com/dmitrijs2005/dealerdash/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogBackend, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
