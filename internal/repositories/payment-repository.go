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

const paymentSelectFields = `p.id, p.application_id, p.student_id, p.reference_no, p.amount,
	p.receipt_path, p.status, p.reviewed_by, p.review_remarks,
	stu.last_name || ', ' || stu.first_name,
	p.created_at, p.updated_at, p.deleted_at`

const paymentJoinClause = `exam_payments p JOIN users stu ON stu.id = p.student_id`

var paymentListColumns = map[string]string{
	"status":         "p.status",
	"student_id":     "p.student_id",
	"application_id": "p.application_id",
	"created_at":     "p.created_at",
	"amount":         "p.amount",
	"id":             "p.id",
}

type PaymentRepositoryInterface interface {
	Create(ctx context.Context, entity *entities.ExamPayment) (*entities.ExamPayment, error)
	FindByID(ctx context.Context, id uint64) (*entities.ExamPayment, error)
	List(ctx context.Context, filter types.Filter) ([]entities.ExamPayment, uint64, error)
	UpdateReview(ctx context.Context, id uint64, status string, remarks *string, reviewerID uint64) error
}

type PaymentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPaymentRepository(storage *pgxpool.Pool, logger *zap.Logger) PaymentRepositoryInterface {
	return &PaymentRepository{storage: storage, logger: logger}
}

func scanPayment(row pgx.Row) (*entities.ExamPayment, error) {
	var p entities.ExamPayment
	err := row.Scan(
		&p.ID, &p.ApplicationID, &p.StudentID, &p.ReferenceNo, &p.Amount,
		&p.ReceiptPath, &p.Status, &p.ReviewedBy, &p.ReviewRemarks,
		&p.StudentName, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, entity *entities.ExamPayment) (*entities.ExamPayment, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO exam_payments (application_id, student_id, reference_no, amount, receipt_path, status)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
		) SELECT %s FROM %s WHERE p.id = (SELECT id FROM ins)`, paymentSelectFields, paymentJoinClause)
	return scanPayment(r.storage.QueryRow(ctx, query,
		entity.ApplicationID, entity.StudentID, entity.ReferenceNo, entity.Amount, entity.ReceiptPath, entity.Status))
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint64) (*entities.ExamPayment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE p.id = $1 AND p.deleted_at IS NULL`, paymentSelectFields, paymentJoinClause)
	return scanPayment(r.storage.QueryRow(ctx, query, id))
}

func (r *PaymentRepository) List(ctx context.Context, filter types.Filter) ([]entities.ExamPayment, uint64, error) {
	conditions := sq.And{sq.Expr("p.deleted_at IS NULL")}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"p.reference_no": pattern},
			sq.ILike{"stu.last_name": pattern},
			sq.ILike{"stu.first_name": pattern},
		})
	}

	countQuery, countArgs, err := sq.Select("COUNT(p.id)").
		From(paymentJoinClause).
		Where(conditions).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	if totalCount == 0 {
		return []entities.ExamPayment{}, 0, nil
	}

	base := sq.Select(paymentSelectFields).
		From(paymentJoinClause).
		Where(conditions).
		PlaceholderFormat(sq.Dollar)
	base = db.ApplyListParams(base, filter, paymentListColumns)
	if len(filter.Sort) == 0 {
		base = base.OrderBy("p.id DESC")
	}

	query, args, err := base.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("payment list query", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	out := make([]entities.ExamPayment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, totalCount, rows.Err()
}

func (r *PaymentRepository) UpdateReview(ctx context.Context, id uint64, status string, remarks *string, reviewerID uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE exam_payments SET status = $1, review_remarks = $2, reviewed_by = $3, updated_at = NOW()
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
