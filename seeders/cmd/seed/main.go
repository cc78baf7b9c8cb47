package main

import (
	"context"
	"log"

	"gradschool-portal/pkg/config"
	"gradschool-portal/pkg/database/postgresql"
	"gradschool-portal/seeders"
)

func main() {
	cfg := config.New()

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if err := seeders.Run(context.Background(), db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}
