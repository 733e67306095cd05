package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/studyhub/internal/buildinfo"
	"github.com/dmitrijs2005/studyhub/internal/client/cli"
	"github.com/dmitrijs2005/studyhub/internal/client/config"
)

func main() {

	log.SetFlags(0)
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("studyhub: %v", err)
		return
	}

	app.Run(ctx)

}
