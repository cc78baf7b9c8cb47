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

const examSelectFields = `e.id, e.student_id, e.exam_period, e.status, e.remarks, e.reviewed_by,
	stu.last_name || ', ' || stu.first_name,
	e.created_at, e.updated_at, e.deleted_at`

const examJoinClause = `exam_applications e JOIN users stu ON stu.id = e.student_id`

type ExamRepositoryInterface interface {
	Create(ctx context.Context, entity *entities.ExamApplication) (*entities.ExamApplication, error)
	FindByID(ctx context.Context, id uint64) (*entities.ExamApplication, error)
	ListByStudent(ctx context.Context, studentID uint64) ([]entities.ExamApplication, error)
	ListByStatus(ctx context.Context, status string) ([]entities.ExamApplication, error)
	UpdateStatus(ctx context.Context, id uint64, status string, remarks *string, reviewerID uint64) error
	HasOpenApplication(ctx context.Context, studentID uint64, examPeriod string) (bool, error)
}

type ExamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewExamRepository(storage *pgxpool.Pool, logger *zap.Logger) ExamRepositoryInterface {
	return &ExamRepository{storage: storage, logger: logger}
}

func scanExam(row pgx.Row) (*entities.ExamApplication, error) {
	var e entities.ExamApplication
	err := row.Scan(
		&e.ID, &e.StudentID, &e.ExamPeriod, &e.Status, &e.Remarks, &e.ReviewedBy,
		&e.StudentName, &e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExamRepository) Create(ctx context.Context, entity *entities.ExamApplication) (*entities.ExamApplication, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO exam_applications (student_id, exam_period, status)
			VALUES ($1, $2, $3) RETURNING id
		) SELECT %s FROM %s WHERE e.id = (SELECT id FROM ins)`, examSelectFields, examJoinClause)
	return scanExam(r.storage.QueryRow(ctx, query, entity.StudentID, entity.ExamPeriod, entity.Status))
}

func (r *ExamRepository) FindByID(ctx context.Context, id uint64) (*entities.ExamApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE e.id = $1 AND e.deleted_at IS NULL`, examSelectFields, examJoinClause)
	return scanExam(r.storage.QueryRow(ctx, query, id))
}

func (r *ExamRepository) listWhere(ctx context.Context, where string, arg interface{}) ([]entities.ExamApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s AND e.deleted_at IS NULL ORDER BY e.id DESC`,
		examSelectFields, examJoinClause, where)
	rows, err := r.storage.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.ExamApplication, 0)
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *ExamRepository) ListByStudent(ctx context.Context, studentID uint64) ([]entities.ExamApplication, error) {
	return r.listWhere(ctx, "e.student_id = $1", studentID)
}

func (r *ExamRepository) ListByStatus(ctx context.Context, status string) ([]entities.ExamApplication, error) {
	return r.listWhere(ctx, "e.status = $1", status)
}

func (r *ExamRepository) UpdateStatus(ctx context.Context, id uint64, status string, remarks *string, reviewerID uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE exam_applications SET status = $1, remarks = $2, reviewed_by = $3, updated_at = NOW()
		 WHERE id = $4 AND deleted_at IS NULL`,
		status, remarks, reviewerID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ExamRepository) HasOpenApplication(ctx context.Context, studentID uint64, examPeriod string) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM exam_applications
			WHERE student_id = $1 AND exam_period = $2
			AND status IN ('Pending', 'PaymentReview') AND deleted_at IS NULL
		)`, studentID, examPeriod).Scan(&exists)
	return exists, err
}
