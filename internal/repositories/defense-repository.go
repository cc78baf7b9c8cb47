package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gradschool-portal/internal/entities"
	apperrors "gradschool-portal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const defenseSelectFields = `d.id, d.student_id, d.title, d.room, d.scheduled_at, d.ends_at, d.status,
	stu.last_name || ', ' || stu.first_name,
	d.created_at, d.updated_at, d.deleted_at`

const defenseJoinClause = `defense_schedules d JOIN users stu ON stu.id = d.student_id`

type DefenseRepositoryInterface interface {
	Create(ctx context.Context, entity *entities.DefenseSchedule) (*entities.DefenseSchedule, error)
	Update(ctx context.Context, entity *entities.DefenseSchedule) (*entities.DefenseSchedule, error)
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*entities.DefenseSchedule, error)
	List(ctx context.Context) ([]entities.DefenseSchedule, error)
	RoomConflictExists(ctx context.Context, room string, from, to time.Time, excludeID uint64) (bool, error)
	PanelMemberIDs(ctx context.Context, scheduleID uint64) ([]uint64, error)
	ReplacePanel(ctx context.Context, scheduleID uint64, memberIDs []uint64) error
}

type DefenseRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDefenseRepository(storage *pgxpool.Pool, logger *zap.Logger) DefenseRepositoryInterface {
	return &DefenseRepository{storage: storage, logger: logger}
}

func scanDefense(row pgx.Row) (*entities.DefenseSchedule, error) {
	var d entities.DefenseSchedule
	err := row.Scan(
		&d.ID, &d.StudentID, &d.Title, &d.Room, &d.ScheduledAt, &d.EndsAt, &d.Status,
		&d.StudentName, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DefenseRepository) Create(ctx context.Context, entity *entities.DefenseSchedule) (*entities.DefenseSchedule, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO defense_schedules (student_id, title, room, scheduled_at, ends_at, status)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id
		) SELECT %s FROM %s WHERE d.id = (SELECT id FROM ins)`, defenseSelectFields, defenseJoinClause)
	return scanDefense(r.storage.QueryRow(ctx, query,
		entity.StudentID, entity.Title, entity.Room, entity.ScheduledAt, entity.EndsAt, entity.Status))
}

func (r *DefenseRepository) Update(ctx context.Context, entity *entities.DefenseSchedule) (*entities.DefenseSchedule, error) {
	query := fmt.Sprintf(`
		WITH upd AS (
			UPDATE defense_schedules SET title = $1, room = $2, scheduled_at = $3, ends_at = $4,
				status = $5, updated_at = NOW()
			WHERE id = $6 AND deleted_at IS NULL RETURNING id
		) SELECT %s FROM %s WHERE d.id = (SELECT id FROM upd)`, defenseSelectFields, defenseJoinClause)
	return scanDefense(r.storage.QueryRow(ctx, query,
		entity.Title, entity.Room, entity.ScheduledAt, entity.EndsAt, entity.Status, entity.ID))
}

func (r *DefenseRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE defense_schedules SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DefenseRepository) FindByID(ctx context.Context, id uint64) (*entities.DefenseSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE d.id = $1 AND d.deleted_at IS NULL`, defenseSelectFields, defenseJoinClause)
	return scanDefense(r.storage.QueryRow(ctx, query, id))
}

func (r *DefenseRepository) List(ctx context.Context) ([]entities.DefenseSchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE d.deleted_at IS NULL ORDER BY d.scheduled_at`, defenseSelectFields, defenseJoinClause)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.DefenseSchedule, 0)
	for rows.Next() {
		d, err := scanDefense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// RoomConflictExists reports whether another live schedule occupies the room
// inside [from, to).
func (r *DefenseRepository) RoomConflictExists(ctx context.Context, room string, from, to time.Time, excludeID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM defense_schedules
			WHERE room = $1 AND deleted_at IS NULL AND id <> $4
			AND scheduled_at < $3 AND ends_at > $2
		)`, room, from, to, excludeID).Scan(&exists)
	return exists, err
}

func (r *DefenseRepository) PanelMemberIDs(ctx context.Context, scheduleID uint64) ([]uint64, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT faculty_id FROM defense_panel_members WHERE schedule_id = $1 ORDER BY faculty_id`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *DefenseRepository) ReplacePanel(ctx context.Context, scheduleID uint64, memberIDs []uint64) error {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM defense_panel_members WHERE schedule_id = $1`, scheduleID); err != nil {
		return err
	}
	for _, memberID := range memberIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO defense_panel_members (schedule_id, faculty_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			scheduleID, memberID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
