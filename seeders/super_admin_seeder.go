package seeders

import (
	"context"
	"fmt"
	"log"
	"os"

	"gradschool-portal/pkg/constants"
	"gradschool-portal/pkg/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seedSuperAdmin creates the single super-admin account. This is the only
// place the account is ever created; the login flow refuses to provision it.
func seedSuperAdmin(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - seeding super admin...")

	email := os.Getenv("SUPER_ADMIN_EMAIL")
	if email == "" {
		email = "superadmin@uic.edu.ph"
	}

	var existingID uint64
	err := db.QueryRow(ctx, `SELECT id FROM users WHERE LOWER(email) = LOWER($1)`, email).Scan(&existingID)
	if err == nil {
		log.Println("    - super admin already exists, skipping")
		return nil
	}

	password := os.Getenv("SUPER_ADMIN_PASSWORD")
	if password == "" {
		return fmt.Errorf("SUPER_ADMIN_PASSWORD must be set to seed the super admin")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	var userID uint64
	err = db.QueryRow(ctx, `
		INSERT INTO users (email, first_name, last_name, password, role)
		VALUES ($1, 'Super', 'Admin', $2, $3)
		RETURNING id`, email, hash, constants.RoleSuperAdmin).Scan(&userID)
	if err != nil {
		return fmt.Errorf("insert super admin: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, r.id FROM roles r WHERE r.name = $2
		ON CONFLICT DO NOTHING`, userID, constants.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("grant super admin role: %w", err)
	}
	return nil
}
