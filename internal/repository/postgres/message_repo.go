package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusconnect/backend/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, room_id, sender_id, content, kind, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.RoomID, msg.SenderID, msg.Content, msg.Kind, msg.IsDeleted, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	query := `
		SELECT m.id, m.room_id, m.sender_id, m.content, m.kind,
			m.edited_at, m.is_deleted, m.created_at, u.first_name, u.last_name
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.id = $1`
	var msg domain.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.RoomID, &msg.SenderID, &msg.Content, &msg.Kind,
		&msg.EditedAt, &msg.IsDeleted, &msg.CreatedAt,
		&msg.SenderFirstName, &msg.SenderLastName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &msg, err
}

// ListByRoom returns a page of non-deleted messages. The query walks
// newest-first so offset pagination stays cheap for recent history,
// then the page is reversed to chronological order for display.
func (r *MessageRepo) ListByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]domain.Message, error) {
	query := `
		SELECT m.id, m.room_id, m.sender_id, m.content, m.kind,
			m.edited_at, m.is_deleted, m.created_at, u.first_name, u.last_name
		FROM messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.room_id = $1 AND NOT m.is_deleted
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, roomID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID, &msg.RoomID, &msg.SenderID, &msg.Content, &msg.Kind,
			&msg.EditedAt, &msg.IsDeleted, &msg.CreatedAt,
			&msg.SenderFirstName, &msg.SenderLastName,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	// Reverse to chronological order (query returns DESC)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, rows.Err()
}

func (r *MessageRepo) CountByRoom(ctx context.Context, roomID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE room_id = $1 AND NOT is_deleted`, roomID,
	).Scan(&count)
	return count, err
}

func (r *MessageRepo) Update(ctx context.Context, msg *domain.Message) error {
	query := `UPDATE messages SET content = $1, edited_at = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, msg.Content, time.Now(), msg.ID)
	return err
}

// SoftDelete tombstones the row: the content is replaced and the row
// kept so room history ordering and pagination offsets stay stable.
func (r *MessageRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE messages SET is_deleted = TRUE, content = $1, edited_at = $2 WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, domain.DeletedMessageContent, time.Now(), id)
	return err
}
