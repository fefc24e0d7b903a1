package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/backend/internal/domain"
)

type chatFixture struct {
	users    *fakeUserRepo
	rooms    *fakeRoomRepo
	messages *fakeMessageRepo
	notifier *fakeNotifier

	roomSvc *RoomService
	msgSvc  *MessageService

	alice, bob, carol uuid.UUID
	room              *domain.ChatRoom
}

// newChatFixture sets up a direct room between alice and bob; carol is
// a registered user outside the room.
func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	users := newFakeUserRepo()
	rooms := newFakeRoomRepo(users)
	messages := newFakeMessageRepo(users)
	notifier := &fakeNotifier{}

	f := &chatFixture{
		users:    users,
		rooms:    rooms,
		messages: messages,
		notifier: notifier,
		roomSvc:  NewRoomService(rooms, users),
		msgSvc:   NewMessageService(messages, rooms),
		alice:    users.add("Alice", "Stone"),
		bob:      users.add("Bob", "Reyes"),
		carol:    users.add("Carol", "Diaz"),
	}
	f.msgSvc.SetNotifier(notifier)

	room, err := f.roomSvc.GetOrCreateDirectRoom(context.Background(), f.alice, f.bob)
	require.NoError(t, err)
	f.room = room
	return f
}

// seed inserts a message directly with an explicit timestamp.
func (f *chatFixture) seed(sender uuid.UUID, content string, at time.Time) uuid.UUID {
	msg := &domain.Message{
		ID:        uuid.New(),
		RoomID:    f.room.ID,
		SenderID:  sender,
		Content:   content,
		Kind:      domain.MessageKindText,
		CreatedAt: at,
	}
	f.messages.messages = append(f.messages.messages, msg)
	return msg.ID
}

func TestSend_PersistsAndBroadcasts(t *testing.T) {
	f := newChatFixture(t)

	before := f.rooms.rooms[f.room.ID].LastActivityAt

	msg, err := f.msgSvc.Send(context.Background(), f.alice, f.room.ID, "hello", "")
	require.NoError(t, err)

	assert.Equal(t, f.alice, msg.SenderID)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, domain.MessageKindText, msg.Kind)
	assert.False(t, msg.IsDeleted)
	assert.Equal(t, "Alice", msg.SenderFirstName)
	assert.Equal(t, "Stone", msg.SenderLastName)

	// Room activity moved forward and the broadcast carries the
	// persisted message.
	assert.True(t, f.rooms.rooms[f.room.ID].LastActivityAt.After(before))
	require.Len(t, f.notifier.newMessages, 1)
	assert.Equal(t, msg.ID, f.notifier.newMessages[0].ID)
}

func TestSend_TrimsContent(t *testing.T) {
	f := newChatFixture(t)

	msg, err := f.msgSvc.Send(context.Background(), f.alice, f.room.ID, "  hi there \n", "")
	require.NoError(t, err)
	assert.Equal(t, "hi there", msg.Content)
}

func TestSend_EmptyContent(t *testing.T) {
	f := newChatFixture(t)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := f.msgSvc.Send(context.Background(), f.alice, f.room.ID, content, "")
		assert.ErrorIs(t, err, ErrEmptyContent)
	}

	// Nothing persisted, nothing broadcast.
	assert.Empty(t, f.messages.messages)
	assert.Empty(t, f.notifier.newMessages)
}

func TestSend_NonParticipant(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.msgSvc.Send(context.Background(), f.carol, f.room.ID, "let me in", "")
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.Empty(t, f.notifier.newMessages)
}

func TestSend_RoomMissingOrInactive(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.msgSvc.Send(context.Background(), f.alice, uuid.New(), "hello", "")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	f.rooms.rooms[f.room.ID].IsActive = false
	_, err = f.msgSvc.Send(context.Background(), f.alice, f.room.ID, "hello", "")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestSend_PersistenceFailureDoesNotBroadcast(t *testing.T) {
	f := newChatFixture(t)
	f.messages.createErr = errors.New("connection reset")

	_, err := f.msgSvc.Send(context.Background(), f.alice, f.room.ID, "hello", "")
	require.Error(t, err)
	assert.Empty(t, f.notifier.newMessages)
}

func TestList_PaginationReconstructsHistory(t *testing.T) {
	f := newChatFixture(t)

	base := time.Now().Add(-time.Hour)
	var order []uuid.UUID
	for i := 0; i < 10; i++ {
		order = append(order, f.seed(f.alice, "msg", base.Add(time.Duration(i)*time.Second)))
	}

	// Any window, reversed by the service, is a contiguous ascending
	// slice of full history.
	for offset := 0; offset < 12; offset += 3 {
		resp, err := f.msgSvc.List(context.Background(), f.bob, f.room.ID, 3, offset)
		require.NoError(t, err)

		end := len(order) - offset
		start := end - 3
		if end < 0 {
			end = 0
		}
		if start < 0 {
			start = 0
		}

		require.Len(t, resp.Messages, end-start, "offset %d", offset)
		for i, msg := range resp.Messages {
			assert.Equal(t, order[start+i], msg.ID, "offset %d index %d", offset, i)
		}
		assert.Equal(t, offset+3 < 10, resp.HasMore, "offset %d", offset)
	}
}

func TestList_DefaultsAndCap(t *testing.T) {
	f := newChatFixture(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 60; i++ {
		f.seed(f.alice, "msg", base.Add(time.Duration(i)*time.Second))
	}

	resp, err := f.msgSvc.List(context.Background(), f.alice, f.room.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Messages, 50)
	assert.True(t, resp.HasMore)

	resp, err = f.msgSvc.List(context.Background(), f.alice, f.room.ID, 10_000, 0)
	require.NoError(t, err)
	assert.Len(t, resp.Messages, 60)
	assert.False(t, resp.HasMore)
}

func TestList_ExcludesDeleted(t *testing.T) {
	f := newChatFixture(t)

	base := time.Now().Add(-time.Hour)
	keep := f.seed(f.alice, "keep", base)
	drop := f.seed(f.alice, "drop", base.Add(time.Second))
	require.NoError(t, f.msgSvc.Delete(context.Background(), f.alice, drop))

	resp, err := f.msgSvc.List(context.Background(), f.bob, f.room.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, keep, resp.Messages[0].ID)
	assert.False(t, resp.HasMore)
}

func TestList_NonParticipant(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.msgSvc.List(context.Background(), f.carol, f.room.ID, 50, 0)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestEdit_OnlySender(t *testing.T) {
	f := newChatFixture(t)
	id := f.seed(f.alice, "original", time.Now())

	_, err := f.msgSvc.Edit(context.Background(), f.bob, id, "hijacked")
	assert.ErrorIs(t, err, ErrNotMessageOwner)

	updated, err := f.msgSvc.Edit(context.Background(), f.alice, id, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)
	assert.NotNil(t, updated.EditedAt)
	require.Len(t, f.notifier.edited, 1)
}

func TestEdit_MissingOrEmpty(t *testing.T) {
	f := newChatFixture(t)
	id := f.seed(f.alice, "original", time.Now())

	_, err := f.msgSvc.Edit(context.Background(), f.alice, uuid.New(), "new")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	_, err = f.msgSvc.Edit(context.Background(), f.alice, id, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestDelete_SoftDeleteAndTombstone(t *testing.T) {
	f := newChatFixture(t)
	id := f.seed(f.alice, "secret", time.Now())

	err := f.msgSvc.Delete(context.Background(), f.bob, id)
	assert.ErrorIs(t, err, ErrNotMessageOwner)

	require.NoError(t, f.msgSvc.Delete(context.Background(), f.alice, id))

	msg, err := f.messages.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, msg, "soft delete keeps the row")
	assert.True(t, msg.IsDeleted)
	assert.Equal(t, domain.DeletedMessageContent, msg.Content)
	assert.NotNil(t, msg.EditedAt)
	require.Len(t, f.notifier.deleted, 1)

	// A deleted message cannot be edited further.
	_, err = f.msgSvc.Edit(context.Background(), f.alice, id, "resurrect")
	assert.ErrorIs(t, err, ErrMessageDeleted)
}

func TestDelete_Missing(t *testing.T) {
	f := newChatFixture(t)

	err := f.msgSvc.Delete(context.Background(), f.alice, uuid.New())
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
