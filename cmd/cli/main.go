package main

import (
	"context"
	"log"
	"os"

	"github.com/herblock/herblock/internal/buildinfo"
	"github.com/herblock/herblock/internal/client/cli"
	"github.com/herblock/herblock/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
