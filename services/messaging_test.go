package services

import (
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"collab-chat/domain"
	apperrors "collab-chat/errors"
	"collab-chat/repositories"
	"collab-chat/store"
)

type fixture struct {
	kv            *store.BadgerStore
	users         *UserService
	messaging     *MessagingService
	notifications *NotificationService
}

// setupServices wires the full stack over an in-memory Badger instance.
func setupServices(t *testing.T) fixture {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := slog.Default()
	kv := store.NewBadgerStore(db)
	users := repositories.NewUserRepository(kv, log)
	rooms := repositories.NewRoomRepository(kv, log)
	messages := repositories.NewMessageRepository(kv, log)

	messaging := NewMessagingService(rooms, messages, users, log)
	return fixture{
		kv:            kv,
		users:         NewUserService(users, log),
		messaging:     messaging,
		notifications: NewNotificationService(kv, messaging, "http://localhost:8080", log),
	}
}

func (f fixture) twoUsersAndARoom(t *testing.T, topic string) (domain.User, domain.User, domain.ChatRoom) {
	t.Helper()
	req := require.New(t)

	alice, err := f.users.CreateUser(CreateUserCommand{FirstName: "Alice", LastName: "Smith", Nickname: "Al"})
	req.NoError(err)
	bob, err := f.users.CreateUser(CreateUserCommand{FirstName: "Bob", LastName: "Jones", Nickname: "Bobby"})
	req.NoError(err)

	room, err := f.messaging.CreateChatRoom(CreateChatRoomCommand{
		Topic:             topic,
		CreatorUserID:     alice.UserID,
		ParticipantUserID: bob.UserID,
	})
	req.NoError(err)
	return alice, bob, room
}

// The end-to-end scenario: provision two users, open a room, post a message,
// read it, then try to unread it.
func TestMessaging_TwoPartyConversation(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	alice, bob, room := f.twoUsersAndARoom(t, "t1")

	req.Len(room.Participants, 2)
	req.Equal(alice.UserID, room.Participants[0].UserID, "first stored participant is the creator")
	req.Equal(bob.UserID, room.Participants[1].UserID)
	req.Equal("t1", room.Topic)
	req.Empty(room.Messages)

	posted, err := f.messaging.PostChatMessage(PostChatMessageCommand{
		ChatRoomID:        room.ChatRoomID,
		FromParticipantID: alice.UserID,
		Message:           "hi",
	})
	req.NoError(err)
	req.False(posted.ReadReceipt)

	resolved, err := f.messaging.RetrieveChatRoom(room.ChatRoomID)
	req.NoError(err)
	req.Len(resolved.Messages, 1)
	req.Equal(room.ChatRoomID, resolved.Messages[0].ChatRoomID)
	req.Equal("hi", resolved.Messages[0].Message)

	_, err = f.messaging.ModifyChatMessage(domain.ChatMessage{ChatMessageID: posted.ChatMessageID, ReadReceipt: true})
	req.NoError(err)
	fetched, err := f.messaging.RetrieveChatMessage(posted.ChatMessageID)
	req.NoError(err)
	req.True(fetched.ReadReceipt)

	_, err = f.messaging.ModifyChatMessage(domain.ChatMessage{ChatMessageID: posted.ChatMessageID, ReadReceipt: false})
	req.NoError(err)
	fetched, err = f.messaging.RetrieveChatMessage(posted.ChatMessageID)
	req.NoError(err)
	req.True(fetched.ReadReceipt, "a read message never becomes unread")
}

func TestMessaging_CreateChatRoomValidatesParticipants(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	_, err := f.messaging.CreateChatRoom(CreateChatRoomCommand{Topic: "t"})
	req.Error(err)
	var verr validator.ValidationErrors
	req.ErrorAs(err, &verr)
}

func TestMessaging_ModifyChatRoomDropsImmutableEdits(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	alice, bob, room := f.twoUsersAndARoom(t, "before")

	updated, err := f.messaging.ModifyChatRoom(domain.ChatRoom{
		ChatRoomID: room.ChatRoomID,
		Topic:      "after",
		// A client echoing back the full resource with extra edits is
		// tolerated; only the topic is applied.
		Participants: []domain.User{bob, alice},
	})
	req.NoError(err)
	req.Equal("after", updated.Topic)
	req.Equal(alice.UserID, updated.Participants[0].UserID)
	req.Equal(bob.UserID, updated.Participants[1].UserID)
}

func TestMessaging_ResolutionSurfacesMissingParticipant(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	alice, _, room := f.twoUsersAndARoom(t, "t")

	// Damage the room record so it points at a user that does not exist.
	req.NoError(f.kv.Put(room.ChatRoomID, map[string]string{
		"chatroomparticipantid": "USER:vanished",
	}))

	_, err := f.messaging.RetrieveChatRoom(room.ChatRoomID)
	req.ErrorIs(err, apperrors.ErrIntegrityFault)

	// The healthy participant alone is not enough to mask the fault.
	_, err = f.users.RetrieveUser(alice.UserID)
	req.NoError(err)
}

func TestMessaging_RetrieveChatRoomNotFound(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	_, err := f.messaging.RetrieveChatRoom("CHATROOM:missing")
	req.ErrorIs(err, apperrors.ErrNotFound)
}

func TestMessaging_RetrieveAllChatRooms(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	f.twoUsersAndARoom(t, "one")
	f.twoUsersAndARoom(t, "two")

	rooms, err := f.messaging.RetrieveAllChatRooms()
	req.NoError(err)
	req.Len(rooms, 2)
	for _, room := range rooms {
		req.Len(room.Participants, 2)
	}
}

func TestMessaging_CreateTestMessagesAttributedToInvitee(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	_, bob, room := f.twoUsersAndARoom(t, "t")

	messages, err := f.messaging.CreateTestMessages(room.ChatRoomID, 3)
	req.NoError(err)
	req.Len(messages, 3)
	for _, message := range messages {
		req.Equal(bob.UserID, message.FromParticipantID)
		req.Equal(room.ChatRoomID, message.ChatRoomID)
	}

	_, err = f.messaging.CreateTestMessages("CHATROOM:missing", 1)
	req.ErrorIs(err, apperrors.ErrNotFound)
}
