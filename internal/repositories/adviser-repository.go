package repositories

import (
	"context"
	"errors"
	"fmt"

	"gradschool-portal/internal/entities"
	apperrors "gradschool-portal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const adviserSelectFields = `a.id, a.adviser_id, a.student_id,
	adv.last_name || ', ' || adv.first_name,
	stu.last_name || ', ' || stu.first_name,
	a.created_at, a.updated_at, a.deleted_at`

const adviserJoinClause = `adviser_assignments a
	JOIN users adv ON adv.id = a.adviser_id
	JOIN users stu ON stu.id = a.student_id`

type AdviserRepositoryInterface interface {
	Create(ctx context.Context, adviserID, studentID uint64) (*entities.AdviserAssignment, error)
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*entities.AdviserAssignment, error)
	ListByAdviser(ctx context.Context, adviserID uint64) ([]entities.AdviserAssignment, error)
	ListByStudent(ctx context.Context, studentID uint64) ([]entities.AdviserAssignment, error)
	Exists(ctx context.Context, adviserID, studentID uint64) (bool, error)
}

type AdviserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAdviserRepository(storage *pgxpool.Pool, logger *zap.Logger) AdviserRepositoryInterface {
	return &AdviserRepository{storage: storage, logger: logger}
}

func scanAssignment(row pgx.Row) (*entities.AdviserAssignment, error) {
	var a entities.AdviserAssignment
	err := row.Scan(
		&a.ID, &a.AdviserID, &a.StudentID, &a.AdviserName, &a.StudentName,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdviserRepository) Create(ctx context.Context, adviserID, studentID uint64) (*entities.AdviserAssignment, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO adviser_assignments (adviser_id, student_id)
			VALUES ($1, $2) RETURNING id
		) SELECT %s FROM %s WHERE a.id = (SELECT id FROM ins)`, adviserSelectFields, adviserJoinClause)
	return scanAssignment(r.storage.QueryRow(ctx, query, adviserID, studentID))
}

func (r *AdviserRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE adviser_assignments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *AdviserRepository) FindByID(ctx context.Context, id uint64) (*entities.AdviserAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE a.id = $1 AND a.deleted_at IS NULL`, adviserSelectFields, adviserJoinClause)
	return scanAssignment(r.storage.QueryRow(ctx, query, id))
}

func (r *AdviserRepository) list(ctx context.Context, column string, id uint64) ([]entities.AdviserAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE a.%s = $1 AND a.deleted_at IS NULL ORDER BY a.id DESC`,
		adviserSelectFields, adviserJoinClause, column)
	rows, err := r.storage.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.AdviserAssignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AdviserRepository) ListByAdviser(ctx context.Context, adviserID uint64) ([]entities.AdviserAssignment, error) {
	return r.list(ctx, "adviser_id", adviserID)
}

func (r *AdviserRepository) ListByStudent(ctx context.Context, studentID uint64) ([]entities.AdviserAssignment, error) {
	return r.list(ctx, "student_id", studentID)
}

func (r *AdviserRepository) Exists(ctx context.Context, adviserID, studentID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM adviser_assignments WHERE adviser_id = $1 AND student_id = $2 AND deleted_at IS NULL)`,
		adviserID, studentID).Scan(&exists)
	return exists, err
}
