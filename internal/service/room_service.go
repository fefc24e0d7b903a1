package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusconnect/backend/internal/domain"
	"github.com/campusconnect/backend/internal/repository"
)

var (
	ErrSelfDirectRoom = errors.New("cannot create a direct room with yourself")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmptyRoomName  = errors.New("room name is required")
)

type RoomService struct {
	roomRepo repository.RoomRepository
	userRepo repository.UserRepository
}

func NewRoomService(roomRepo repository.RoomRepository, userRepo repository.UserRepository) *RoomService {
	return &RoomService{
		roomRepo: roomRepo,
		userRepo: userRepo,
	}
}

// GetOrCreateDirectRoom finds the active direct room for the pair or
// creates one. Repeated calls in either argument order return the same
// room.
func (s *RoomService) GetOrCreateDirectRoom(ctx context.Context, requesterID, recipientID uuid.UUID) (*domain.ChatRoom, error) {
	if requesterID == recipientID {
		return nil, ErrSelfDirectRoom
	}

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	room, err := s.roomRepo.FindDirectByParticipants(ctx, requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if room != nil {
		return room, nil
	}

	now := time.Now()
	room = &domain.ChatRoom{
		ID:             uuid.New(),
		Name:           "Direct Message",
		Kind:           domain.RoomKindDirect,
		LastActivityAt: now,
		IsActive:       true,
		CreatedAt:      now,
	}

	if err := s.roomRepo.Create(ctx, room, []uuid.UUID{requesterID, recipientID}); err != nil {
		return nil, fmt.Errorf("creating direct room: %w", err)
	}

	return s.roomRepo.GetByID(ctx, room.ID)
}

// CreateGroupRoom creates a named group room. The requester is always
// a participant exactly once, regardless of the supplied list.
func (s *RoomService) CreateGroupRoom(ctx context.Context, requesterID uuid.UUID, name string, participantIDs []uuid.UUID) (*domain.ChatRoom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyRoomName
	}

	participants := []uuid.UUID{requesterID}
	seen := map[uuid.UUID]struct{}{requesterID: {}}
	for _, id := range participantIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		participants = append(participants, id)
	}

	now := time.Now()
	room := &domain.ChatRoom{
		ID:             uuid.New(),
		Name:           name,
		Kind:           domain.RoomKindGroup,
		CreatedBy:      &requesterID,
		LastActivityAt: now,
		IsActive:       true,
		CreatedAt:      now,
	}

	if err := s.roomRepo.Create(ctx, room, participants); err != nil {
		return nil, fmt.Errorf("creating group room: %w", err)
	}

	return s.roomRepo.GetByID(ctx, room.ID)
}

// ListRooms returns the user's active rooms, most recent activity
// first.
func (s *RoomService) ListRooms(ctx context.Context, userID uuid.UUID) ([]domain.ChatRoom, error) {
	rooms, err := s.roomRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []domain.ChatRoom{}
	}
	return rooms, nil
}
