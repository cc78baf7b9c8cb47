package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Run executes all seeders in dependency order. Every seeder is idempotent.
func Run(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("Running seeders...")
	if err := seedRoles(ctx, db); err != nil {
		return err
	}
	if err := seedSuperAdmin(ctx, db); err != nil {
		return err
	}
	log.Println("Seeding complete.")
	return nil
}
