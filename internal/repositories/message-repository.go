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

const messageSelectFields = `m.id, m.sender_id, m.recipient_id, m.subject, m.body, m.read_at,
	snd.last_name || ', ' || snd.first_name,
	m.created_at, m.updated_at`

const messageJoinClause = `messages m JOIN users snd ON snd.id = m.sender_id`

type MessageRepositoryInterface interface {
	Create(ctx context.Context, entity *entities.Message) (*entities.Message, error)
	FindByID(ctx context.Context, id uint64) (*entities.Message, error)
	Inbox(ctx context.Context, recipientID uint64) ([]entities.Message, error)
	Sent(ctx context.Context, senderID uint64) ([]entities.Message, error)
	MarkRead(ctx context.Context, id, recipientID uint64) error
}

type MessageRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMessageRepository(storage *pgxpool.Pool, logger *zap.Logger) MessageRepositoryInterface {
	return &MessageRepository{storage: storage, logger: logger}
}

func scanMessage(row pgx.Row) (*entities.Message, error) {
	var m entities.Message
	err := row.Scan(
		&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body, &m.ReadAt,
		&m.SenderName, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) Create(ctx context.Context, entity *entities.Message) (*entities.Message, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO messages (sender_id, recipient_id, subject, body)
			VALUES ($1, $2, $3, $4) RETURNING id
		) SELECT %s FROM %s WHERE m.id = (SELECT id FROM ins)`, messageSelectFields, messageJoinClause)
	return scanMessage(r.storage.QueryRow(ctx, query,
		entity.SenderID, entity.RecipientID, entity.Subject, entity.Body))
}

func (r *MessageRepository) FindByID(ctx context.Context, id uint64) (*entities.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE m.id = $1`, messageSelectFields, messageJoinClause)
	return scanMessage(r.storage.QueryRow(ctx, query, id))
}

func (r *MessageRepository) list(ctx context.Context, column string, id uint64) ([]entities.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE m.%s = $1 ORDER BY m.id DESC`,
		messageSelectFields, messageJoinClause, column)
	rows, err := r.storage.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *MessageRepository) Inbox(ctx context.Context, recipientID uint64) ([]entities.Message, error) {
	return r.list(ctx, "recipient_id", recipientID)
}

func (r *MessageRepository) Sent(ctx context.Context, senderID uint64) ([]entities.Message, error) {
	return r.list(ctx, "sender_id", senderID)
}

// MarkRead only touches messages owned by the recipient.
func (r *MessageRepository) MarkRead(ctx context.Context, id, recipientID uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE messages SET read_at = COALESCE(read_at, NOW()), updated_at = NOW()
		 WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
