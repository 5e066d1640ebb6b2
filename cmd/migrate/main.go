package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"tryhup-api/internal/db"
)

type migrateConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
}

// Uso: migrate [-timeout 1m] <up|down|status|version|redo|reset> [args]
func main() {
	timeout := flag.Duration("timeout", time.Minute, "timeout for the whole migration run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	var cfg migrateConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	command := "up"
	var args []string
	if flag.NArg() > 0 {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.RunMigrationCommand(ctx, cfg.DatabaseURL, command, args...); err != nil {
		log.Printf("migrate %s: %v", command, err)
		os.Exit(1)
	}
}
