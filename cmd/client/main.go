package main

import (
	"context"
	"log"
	"os"

	"github.com/avelichka/skinform/internal/buildinfo"
	"github.com/avelichka/skinform/internal/client/cli"
	"github.com/avelichka/skinform/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
