package repositories

import (
	"context"
	"errors"
	"fmt"

	"gradschool-portal/internal/entities"
	db "gradschool-portal/internal/infrastructure/db"
	apperrors "gradschool-portal/pkg/errors"
	"gradschool-portal/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const userSelectFields = `u.id, u.email, u.first_name, u.last_name, u.middle_name, u.password, u.role,
	u.student_number, u.school_id, u.legacy_account_id, u.student_number_legacy, u.clearance_statuscode,
	u.degree_code, u.degree_program_id, u.year_level, u.balance, u.legacy_data_synced_at,
	u.created_at, u.updated_at, u.deleted_at`

var userListColumns = map[string]string{
	"role":           "u.role",
	"year_level":     "u.year_level",
	"degree_code":    "u.degree_code",
	"student_number": "u.student_number",
	"created_at":     "u.created_at",
	"last_name":      "u.last_name",
	"id":             "u.id",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByStudentIdentifier(ctx context.Context, numericID, emailDomain string) (*entities.User, error)
	FindBySchoolID(ctx context.Context, schoolID string) (*entities.User, error)
	CreateUser(ctx context.Context, entity *entities.User) (*entities.User, error)
	UpdateLegacyProfile(ctx context.Context, entity *entities.User) error
	UpdateIdentifiers(ctx context.Context, userID uint64, studentNumber, schoolID *string) error
	UpdateDisplayRole(ctx context.Context, userID uint64, role string) error
	GetRoles(ctx context.Context, userID uint64) ([]string, error)
	GrantRole(ctx context.Context, userID uint64, role string) error
	GetAllRoles(ctx context.Context) ([]entities.Role, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.MiddleName,
		&user.Password, &user.Role,
		&user.StudentNumber, &user.SchoolID, &user.LegacyAccountID, &user.StudentNumberLegacy,
		&user.ClearanceStatusCode, &user.DegreeCode, &user.DegreeProgramID, &user.YearLevel,
		&user.Balance, &user.LegacyDataSyncedAt,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	conditions := sq.And{sq.Expr("u.deleted_at IS NULL")}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"u.first_name": pattern},
			sq.ILike{"u.last_name": pattern},
			sq.ILike{"u.email": pattern},
			sq.ILike{"u.student_number": pattern},
		})
	}

	base := sq.Select(userSelectFields).
		From("users u").
		Where(conditions).
		PlaceholderFormat(sq.Dollar)

	countQuery, countArgs, err := sq.Select("COUNT(u.id)").
		From("users u").
		Where(conditions).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	if totalCount == 0 {
		return []entities.User{}, 0, nil
	}

	base = db.ApplyListParams(base, filter, userListColumns)
	if len(filter.Sort) == 0 {
		base = base.OrderBy("u.id DESC")
	}

	query, args, err := base.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("user list query", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, totalCount, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.id = $1 AND u.deleted_at IS NULL`, userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE LOWER(u.email) = LOWER($1) AND u.deleted_at IS NULL LIMIT 1`, userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

// FindByStudentIdentifier runs the widest lookup for a numeric login id:
// direct student_number / school_id equality, the synthesized address
// "{id}@domain", and local parts ending in "_{id}".
func (r *UserRepository) FindByStudentIdentifier(ctx context.Context, numericID, emailDomain string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u
		WHERE (u.student_number = $1 OR u.school_id = $1 OR LOWER(u.email) = $2 OR LOWER(u.email) LIKE $3)
		AND u.deleted_at IS NULL
		ORDER BY u.id LIMIT 1`, userSelectFields)
	exact := fmt.Sprintf("%s@%s", numericID, emailDomain)
	suffix := fmt.Sprintf("%%_%s@%s", numericID, emailDomain)
	return scanUser(r.storage.QueryRow(ctx, query, numericID, exact, suffix))
}

func (r *UserRepository) FindBySchoolID(ctx context.Context, schoolID string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u WHERE u.school_id = $1 AND u.deleted_at IS NULL LIMIT 1`, userSelectFields)
	return scanUser(r.storage.QueryRow(ctx, query, schoolID))
}

func (r *UserRepository) CreateUser(ctx context.Context, entity *entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO users (email, first_name, last_name, middle_name, password, role,
				student_number, school_id, legacy_account_id, student_number_legacy, clearance_statuscode,
				degree_code, degree_program_id, year_level, balance, legacy_data_synced_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id
		) SELECT %s FROM users u WHERE u.id = (SELECT id FROM ins)`, userSelectFields)

	row := r.storage.QueryRow(ctx, query,
		entity.Email, entity.FirstName, entity.LastName, entity.MiddleName, entity.Password, entity.Role,
		entity.StudentNumber, entity.SchoolID, entity.LegacyAccountID, entity.StudentNumberLegacy,
		entity.ClearanceStatusCode, entity.DegreeCode, entity.DegreeProgramID, entity.YearLevel,
		entity.Balance, entity.LegacyDataSyncedAt,
	)
	return scanUser(row)
}

// UpdateLegacyProfile writes only the legacy-sourced profile columns.
func (r *UserRepository) UpdateLegacyProfile(ctx context.Context, entity *entities.User) error {
	query := `UPDATE users SET
		legacy_account_id = $1, student_number_legacy = $2, clearance_statuscode = $3,
		degree_code = $4, degree_program_id = $5, year_level = $6, balance = $7,
		student_number = $8, legacy_data_synced_at = $9, updated_at = NOW()
		WHERE id = $10`
	result, err := r.storage.Exec(ctx, query,
		entity.LegacyAccountID, entity.StudentNumberLegacy, entity.ClearanceStatusCode,
		entity.DegreeCode, entity.DegreeProgramID, entity.YearLevel, entity.Balance,
		entity.StudentNumber, entity.LegacyDataSyncedAt, entity.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateIdentifiers backfills student_number / school_id without touching
// already-populated values.
func (r *UserRepository) UpdateIdentifiers(ctx context.Context, userID uint64, studentNumber, schoolID *string) error {
	query := `UPDATE users SET
		student_number = COALESCE(student_number, $1),
		school_id = COALESCE(school_id, $2),
		updated_at = NOW()
		WHERE id = $3`
	_, err := r.storage.Exec(ctx, query, studentNumber, schoolID, userID)
	return err
}

func (r *UserRepository) UpdateDisplayRole(ctx context.Context, userID uint64, role string) error {
	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.storage.Exec(ctx, query, role, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetRoles(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT r.name FROM user_roles ur JOIN roles r ON r.id = ur.role_id WHERE ur.user_id = $1 ORDER BY r.id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

func (r *UserRepository) GetAllRoles(ctx context.Context) ([]entities.Role, error) {
	rows, err := r.storage.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]entities.Role, 0)
	for rows.Next() {
		var role entities.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// GrantRole is additive and idempotent; a user may hold Student and
// Faculty at once.
func (r *UserRepository) GrantRole(ctx context.Context, userID uint64, role string) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, r.id FROM roles r WHERE r.name = $2
		ON CONFLICT (user_id, role_id) DO NOTHING`,
		userID, role)
	return err
}
