package seeders

import (
	"context"
	"fmt"
	"log"

	"gradschool-portal/pkg/constants"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedRoles(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding roles...")

	roles := []string{
		constants.RoleStudent,
		constants.RoleFaculty,
		constants.RoleCoordinator,
		constants.RoleDean,
		constants.RoleChair,
		constants.RoleSuperAdmin,
	}
	for _, role := range roles {
		if _, err := db.Exec(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role); err != nil {
			return fmt.Errorf("seed role %q: %w", role, err)
		}
	}
	return nil
}
