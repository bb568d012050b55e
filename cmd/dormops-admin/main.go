package main

import (
	"log"
	"os"

	"dormops-backend/config"
	"dormops-backend/internal/db"
	"dormops-backend/internal/importer"
	"dormops-backend/internal/store"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	errAndDie(err)

	gormDB, err := db.Init(&cfg.Database)
	errAndDie(err)

	appStore := store.NewGormStore(gormDB)
	cli := commandLine{
		store:    appStore,
		importer: importer.New(appStore),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
