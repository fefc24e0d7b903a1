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

type RoomRepo struct {
	pool *pgxpool.Pool
}

func NewRoomRepo(pool *pgxpool.Pool) *RoomRepo {
	return &RoomRepo{pool: pool}
}

// Create inserts the room and its participant rows in one transaction.
func (r *RoomRepo) Create(ctx context.Context, room *domain.ChatRoom, participantIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO chat_rooms (id, name, kind, created_by, last_activity_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.Exec(ctx, query,
		room.ID, room.Name, room.Kind, room.CreatedBy,
		room.LastActivityAt, room.IsActive, room.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, userID := range participantIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO room_participants (room_id, user_id, joined_at) VALUES ($1, $2, $3)`,
			room.ID, userID, room.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *RoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	query := `
		SELECT id, name, kind, created_by, last_activity_at, is_active, created_at
		FROM chat_rooms
		WHERE id = $1`
	var room domain.ChatRoom
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID, &room.Name, &room.Kind, &room.CreatedBy,
		&room.LastActivityAt, &room.IsActive, &room.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadParticipants(ctx, []*domain.ChatRoom{&room}); err != nil {
		return nil, err
	}
	return &room, nil
}

// FindDirectByParticipants returns the active direct room whose
// participant set is exactly {userA, userB}, or nil.
func (r *RoomRepo) FindDirectByParticipants(ctx context.Context, userA, userB uuid.UUID) (*domain.ChatRoom, error) {
	// Direct rooms always hold exactly two participants, so matching
	// both memberships is sufficient.
	query := `
		SELECT r.id
		FROM chat_rooms r
		JOIN room_participants pa ON pa.room_id = r.id AND pa.user_id = $1
		JOIN room_participants pb ON pb.room_id = r.id AND pb.user_id = $2
		WHERE r.kind = 'direct' AND r.is_active
		LIMIT 1`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query, userA, userB).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *RoomRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ChatRoom, error) {
	query := `
		SELECT r.id, r.name, r.kind, r.created_by, r.last_activity_at, r.is_active, r.created_at
		FROM chat_rooms r
		JOIN room_participants p ON p.room_id = r.id
		WHERE p.user_id = $1 AND r.is_active
		ORDER BY r.last_activity_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.ChatRoom
	for rows.Next() {
		var room domain.ChatRoom
		if err := rows.Scan(
			&room.ID, &room.Name, &room.Kind, &room.CreatedBy,
			&room.LastActivityAt, &room.IsActive, &room.CreatedAt,
		); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.ChatRoom, len(rooms))
	for i := range rooms {
		refs[i] = &rooms[i]
	}
	if err := r.loadParticipants(ctx, refs); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepo) TouchActivity(ctx context.Context, roomID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE chat_rooms SET last_activity_at = $1 WHERE id = $2`, time.Now(), roomID)
	return err
}

// loadParticipants resolves participant display names for a batch of
// rooms in a single query.
func (r *RoomRepo) loadParticipants(ctx context.Context, rooms []*domain.ChatRoom) error {
	if len(rooms) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(rooms))
	byID := make(map[uuid.UUID]*domain.ChatRoom, len(rooms))
	for i, room := range rooms {
		ids[i] = room.ID
		byID[room.ID] = room
	}

	query := `
		SELECT p.room_id, p.user_id, u.first_name, u.last_name, p.joined_at
		FROM room_participants p
		JOIN users u ON p.user_id = u.id
		WHERE p.room_id = ANY($1)
		ORDER BY p.joined_at`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var roomID uuid.UUID
		var p domain.RoomParticipant
		if err := rows.Scan(&roomID, &p.UserID, &p.FirstName, &p.LastName, &p.JoinedAt); err != nil {
			return err
		}
		if room, ok := byID[roomID]; ok {
			room.Participants = append(room.Participants, p)
		}
	}
	return rows.Err()
}
