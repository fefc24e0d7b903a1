package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusconnect/backend/internal/domain"
)

// In-memory repository fakes. They mirror the postgres repos' query
// semantics (ordering, soft-delete filtering, read-time name joins)
// closely enough to exercise the services.

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) add(first, last string) uuid.UUID {
	u := &domain.User{
		ID:        uuid.New(),
		Email:     strings.ToLower(first + "." + last + "@campus.test"),
		FirstName: first,
		LastName:  last,
		IsActive:  true,
	}
	r.users[u.ID] = u
	return u.ID
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Search(_ context.Context, query string, limit int) ([]domain.User, error) {
	q := strings.ToLower(query)
	var out []domain.User
	for _, u := range r.users {
		if !u.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(u.FirstName), q) ||
			strings.Contains(strings.ToLower(u.LastName), q) ||
			strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, *u)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeRoomRepo struct {
	users *fakeUserRepo
	rooms map[uuid.UUID]*domain.ChatRoom
}

func newFakeRoomRepo(users *fakeUserRepo) *fakeRoomRepo {
	return &fakeRoomRepo{users: users, rooms: make(map[uuid.UUID]*domain.ChatRoom)}
}

func (r *fakeRoomRepo) Create(_ context.Context, room *domain.ChatRoom, participantIDs []uuid.UUID) error {
	cp := *room
	for _, id := range participantIDs {
		p := domain.RoomParticipant{UserID: id, JoinedAt: room.CreatedAt}
		if u, ok := r.users.users[id]; ok {
			p.FirstName = u.FirstName
			p.LastName = u.LastName
		}
		cp.Participants = append(cp.Participants, p)
	}
	r.rooms[room.ID] = &cp
	return nil
}

func (r *fakeRoomRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	cp := *room
	cp.Participants = append([]domain.RoomParticipant(nil), room.Participants...)
	return &cp, nil
}

func (r *fakeRoomRepo) FindDirectByParticipants(_ context.Context, userA, userB uuid.UUID) (*domain.ChatRoom, error) {
	for _, room := range r.rooms {
		if room.Kind != domain.RoomKindDirect || !room.IsActive {
			continue
		}
		if room.HasParticipant(userA) && room.HasParticipant(userB) {
			cp := *room
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRoomRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.ChatRoom, error) {
	var out []domain.ChatRoom
	for _, room := range r.rooms {
		if room.IsActive && room.HasParticipant(userID) {
			out = append(out, *room)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastActivityAt.After(out[j].LastActivityAt)
	})
	return out, nil
}

func (r *fakeRoomRepo) TouchActivity(_ context.Context, roomID uuid.UUID) error {
	if room, ok := r.rooms[roomID]; ok {
		room.LastActivityAt = room.LastActivityAt.Add(1) // strictly monotonic for tests
	}
	return nil
}

type fakeMessageRepo struct {
	users    *fakeUserRepo
	messages []*domain.Message

	createErr error
}

func newFakeMessageRepo(users *fakeUserRepo) *fakeMessageRepo {
	return &fakeMessageRepo{users: users}
}

func (r *fakeMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *msg
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	for _, m := range r.messages {
		if m.ID == id {
			cp := *m
			if u, ok := r.users.users[m.SenderID]; ok {
				cp.SenderFirstName = u.FirstName
				cp.SenderLastName = u.LastName
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) ListByRoom(_ context.Context, roomID uuid.UUID, limit, offset int) ([]domain.Message, error) {
	var page []domain.Message
	for _, m := range r.messages {
		if m.RoomID == roomID && !m.IsDeleted {
			page = append(page, *m)
		}
	}
	// Newest first, insertion order breaking ties.
	sort.SliceStable(page, func(i, j int) bool {
		return page[i].CreatedAt.After(page[j].CreatedAt)
	})
	if offset >= len(page) {
		return nil, nil
	}
	page = page[offset:]
	if len(page) > limit {
		page = page[:limit]
	}
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}
	return page, nil
}

func (r *fakeMessageRepo) CountByRoom(_ context.Context, roomID uuid.UUID) (int, error) {
	count := 0
	for _, m := range r.messages {
		if m.RoomID == roomID && !m.IsDeleted {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) Update(_ context.Context, msg *domain.Message) error {
	for _, m := range r.messages {
		if m.ID == msg.ID {
			now := time.Now()
			m.Content = msg.Content
			m.EditedAt = &now
			return nil
		}
	}
	return nil
}

func (r *fakeMessageRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	for _, m := range r.messages {
		if m.ID == id {
			now := time.Now()
			m.IsDeleted = true
			m.Content = domain.DeletedMessageContent
			m.EditedAt = &now
			return nil
		}
	}
	return nil
}

type fakeNotifier struct {
	newMessages []*domain.Message
	edited      []*domain.Message
	deleted     []uuid.UUID
}

func (n *fakeNotifier) NotifyNewMessage(msg *domain.Message)    { n.newMessages = append(n.newMessages, msg) }
func (n *fakeNotifier) NotifyEditedMessage(msg *domain.Message) { n.edited = append(n.edited, msg) }
func (n *fakeNotifier) NotifyDeletedMessage(_, id uuid.UUID)    { n.deleted = append(n.deleted, id) }
