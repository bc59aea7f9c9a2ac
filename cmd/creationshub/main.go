package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/3dcreationshub/creationshub/config"
	"github.com/3dcreationshub/creationshub/internal/adminapi"
	"github.com/3dcreationshub/creationshub/internal/app"
	"github.com/3dcreationshub/creationshub/internal/webapi"
	"github.com/3dcreationshub/creationshub/internal/webserver"
)

var (
	cfile    = flag.String("c", "creationshub.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	printver = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *printver {
		fmt.Println("creationshub", version)
		return
	}

	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application)
	adminapi.Init()
	webapi.Init()

	if err := webserver.Listen(); err != nil {
		zap.S().Errorf("web server stopped: %v", err)
		os.Exit(1)
	}
}
