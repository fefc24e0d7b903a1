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
	ErrRoomNotFound    = errors.New("chat room not found")
	ErrNotParticipant  = errors.New("access denied to this chat room")
	ErrMessageNotFound = errors.New("message not found")
	ErrNotMessageOwner = errors.New("only the message sender can perform this action")
	ErrMessageDeleted  = errors.New("cannot edit a deleted message")
	ErrEmptyContent    = errors.New("message content is required")
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyEditedMessage(msg *domain.Message)
	NotifyDeletedMessage(roomID, messageID uuid.UUID)
}

type MessageService struct {
	messageRepo repository.MessageRepository
	roomRepo    repository.RoomRepository
	notifier    Notifier
}

func NewMessageService(messageRepo repository.MessageRepository, roomRepo repository.RoomRepository) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		roomRepo:    roomRepo,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

type MessageListResponse struct {
	Messages []domain.Message `json:"messages"`
	HasMore  bool             `json:"has_more"`
}

// Send persists a message and updates the room's last activity. The
// broadcast fires only after the write succeeds.
func (s *MessageService) Send(ctx context.Context, userID, roomID uuid.UUID, content, kind string) (*domain.Message, error) {
	if err := s.checkRoomAccess(ctx, userID, roomID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if kind == "" {
		kind = domain.MessageKindText
	}

	msg := &domain.Message{
		ID:        uuid.New(),
		RoomID:    roomID,
		SenderID:  userID,
		Content:   content,
		Kind:      kind,
		CreatedAt: time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	if err := s.roomRepo.TouchActivity(ctx, roomID); err != nil {
		return nil, fmt.Errorf("updating room activity: %w", err)
	}

	full, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(full)
	}

	return full, nil
}

// List returns a page of room history in chronological order. The
// underlying fetch is newest-first with offset/limit; the page is
// reversed so it reads oldest-first.
func (s *MessageService) List(ctx context.Context, userID, roomID uuid.UUID, limit, offset int) (*MessageListResponse, error) {
	if err := s.checkRoomAccess(ctx, userID, roomID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messageRepo.ListByRoom(ctx, roomID, limit, offset)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	total, err := s.messageRepo.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &MessageListResponse{
		Messages: messages,
		HasMore:  offset+limit < total,
	}, nil
}

func (s *MessageService) Edit(ctx context.Context, userID, messageID uuid.UUID, content string) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return nil, ErrNotMessageOwner
	}
	if msg.IsDeleted {
		return nil, ErrMessageDeleted
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	msg.Content = content
	if err := s.messageRepo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("updating message: %w", err)
	}

	updated, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyEditedMessage(updated)
	}

	return updated, nil
}

// Delete soft-deletes a message. The row survives with placeholder
// content so history ordering and offsets stay intact.
func (s *MessageService) Delete(ctx context.Context, userID, messageID uuid.UUID) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return ErrNotMessageOwner
	}

	if err := s.messageRepo.SoftDelete(ctx, messageID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyDeletedMessage(msg.RoomID, messageID)
	}

	return nil
}

// checkRoomAccess gates every history read and write on membership.
func (s *MessageService) checkRoomAccess(ctx context.Context, userID, roomID uuid.UUID) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil || !room.IsActive {
		return ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return ErrNotParticipant
	}
	return nil
}
