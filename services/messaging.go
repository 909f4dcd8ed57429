package services

import (
	"errors"
	"fmt"
	"log/slog"

	"collab-chat/domain"
	apperrors "collab-chat/errors"
	"collab-chat/repositories"
)

type CreateChatRoomCommand struct {
	Topic             string
	CreatorUserID     string `validate:"required"`
	ParticipantUserID string `validate:"required"`
}

type PostChatMessageCommand struct {
	ChatRoomID        string `validate:"required"`
	FromParticipantID string `validate:"required"`
	Message           string `validate:"required"`
}

// MessagingService owns the ChatRoom and ChatMessage resources. A ChatRoom
// returned from here is always fully resolved: the two participant users and
// the room's message list are fetched from their own records on every read.
// Those are independent lookups with no snapshot isolation; a concurrent
// writer can produce a torn read, which the prototype accepts.
type MessagingService struct {
	rooms    repositories.IRoomRepository
	messages repositories.IMessageRepository
	users    repositories.IUserRepository
	log      *slog.Logger
}

func NewMessagingService(
	rooms repositories.IRoomRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	log *slog.Logger,
) *MessagingService {
	return &MessagingService{rooms: rooms, messages: messages, users: users, log: log}
}

// CreateChatRoom persists a room referencing two existing participants. Only
// the room record is written: creating participant or message resources here
// would conflate resource lifecycles.
func (s *MessagingService) CreateChatRoom(cmd CreateChatRoomCommand) (domain.ChatRoom, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.ChatRoom{}, err
	}

	record, err := s.rooms.Create(repositories.ChatRoomRecord{
		Topic:             cmd.Topic,
		CreatorUserID:     cmd.CreatorUserID,
		ParticipantUserID: cmd.ParticipantUserID,
	})
	if err != nil {
		return domain.ChatRoom{}, err
	}
	return s.resolveChatRoom(record)
}

func (s *MessagingService) RetrieveChatRoom(chatRoomID string) (domain.ChatRoom, error) {
	record, err := s.rooms.Retrieve(chatRoomID)
	if err != nil {
		return domain.ChatRoom{}, err
	}
	return s.resolveChatRoom(record)
}

func (s *MessagingService) RetrieveAllChatRooms() ([]domain.ChatRoom, error) {
	records, err := s.rooms.ListAll()
	if err != nil {
		return nil, err
	}

	rooms := make([]domain.ChatRoom, 0, len(records))
	for _, record := range records {
		room, err := s.resolveChatRoom(record)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// ModifyChatRoom overwrites the topic, the only mutable room field, and
// returns the re-read, fully resolved room.
func (s *MessagingService) ModifyChatRoom(input domain.ChatRoom) (domain.ChatRoom, error) {
	record, err := s.rooms.Update(repositories.ChatRoomRecord{
		ChatRoomID: input.ChatRoomID,
		Topic:      input.Topic,
	})
	if err != nil {
		return domain.ChatRoom{}, err
	}
	return s.resolveChatRoom(record)
}

// resolveChatRoom assembles the composite resource from its record: the two
// participant users and the room's messages, each fetched by id. A room whose
// participant cannot be found is meaningless to the caller, so that is
// surfaced as an integrity fault rather than masked.
func (s *MessagingService) resolveChatRoom(record repositories.ChatRoomRecord) (domain.ChatRoom, error) {
	creator, err := s.resolveParticipant(record.ChatRoomID, record.CreatorUserID)
	if err != nil {
		return domain.ChatRoom{}, err
	}
	participant, err := s.resolveParticipant(record.ChatRoomID, record.ParticipantUserID)
	if err != nil {
		return domain.ChatRoom{}, err
	}
	messages, err := s.messages.ListForRoom(record.ChatRoomID)
	if err != nil {
		return domain.ChatRoom{}, err
	}

	return domain.ChatRoom{
		ChatRoomID:   record.ChatRoomID,
		Topic:        record.Topic,
		Participants: []domain.User{creator, participant},
		Messages:     messages,
	}, nil
}

func (s *MessagingService) resolveParticipant(chatRoomID, userID string) (domain.User, error) {
	user, err := s.users.Retrieve(userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.User{}, fmt.Errorf("chat room %s references participant %s: %w",
			chatRoomID, userID, apperrors.ErrIntegrityFault)
	}
	return user, err
}

func (s *MessagingService) PostChatMessage(cmd PostChatMessageCommand) (domain.ChatMessage, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.ChatMessage{}, err
	}
	return s.messages.Create(domain.ChatMessage{
		ChatRoomID:        cmd.ChatRoomID,
		FromParticipantID: cmd.FromParticipantID,
		Message:           cmd.Message,
	})
}

func (s *MessagingService) RetrieveChatMessage(chatMessageID string) (domain.ChatMessage, error) {
	return s.messages.Retrieve(chatMessageID)
}

func (s *MessagingService) RetrieveAllChatMessages(chatRoomID string) ([]domain.ChatMessage, error) {
	return s.messages.ListForRoom(chatRoomID)
}

// ModifyChatMessage applies the read receipt under the repository's monotonic
// guard; all other fields on the input are ignored.
func (s *MessagingService) ModifyChatMessage(input domain.ChatMessage) (domain.ChatMessage, error) {
	return s.messages.Update(input)
}

// CreateTestMessages posts a batch of messages to an existing room,
// attributed to the invited participant, so a demo client sees traffic coming
// from the other party. NotFound when the room does not exist.
func (s *MessagingService) CreateTestMessages(chatRoomID string, count int) ([]domain.ChatMessage, error) {
	room, err := s.RetrieveChatRoom(chatRoomID)
	if err != nil {
		return nil, err
	}
	sender := room.Participants[1].UserID

	messages := make([]domain.ChatMessage, 0, count)
	for i := 0; i < count; i++ {
		message, err := s.messages.Create(domain.ChatMessage{
			ChatRoomID:        chatRoomID,
			FromParticipantID: sender,
			Message:           fmt.Sprintf("Test message %d for chat room %s", i, chatRoomID),
		})
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}
