package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusconnect/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.ChatRoom, participantIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatRoom, error)
	FindDirectByParticipants(ctx context.Context, userA, userB uuid.UUID) (*domain.ChatRoom, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ChatRoom, error)
	TouchActivity(ctx context.Context, roomID uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]domain.Message, error)
	CountByRoom(ctx context.Context, roomID uuid.UUID) (int, error)
	Update(ctx context.Context, msg *domain.Message) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
