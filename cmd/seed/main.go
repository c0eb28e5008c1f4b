// Command seed creates the users and products tables in a Postgres database
// and provisions the demo accounts.
package main

import (
	"context"
	"log"
	"time"

	"github.com/Skotchmaster/inventory_dashboard/internal/backend/sqlstore"
	"github.com/Skotchmaster/inventory_dashboard/internal/config"
	"github.com/Skotchmaster/inventory_dashboard/internal/db"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			log.Printf("db close: %v", err)
		}
	}()

	store := sqlstore.New(conn)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := store.Seed(ctx, sqlstore.DemoUsers...); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %d users", len(sqlstore.DemoUsers))
}
