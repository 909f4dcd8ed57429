//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"collab-chat/domain"
	apperrors "collab-chat/errors"
	"collab-chat/store"
)

const (
	fieldChatMessageID     = "chatmessageid"
	fieldMessageChatRoomID = "chatroomid"
	fieldFromParticipantID = "fromparticipantid"
	fieldMessage           = "message"
	fieldReadReceipt       = "readreceipt"
)

type IMessageRepository interface {
	Create(input domain.ChatMessage) (domain.ChatMessage, error)
	Retrieve(id string) (domain.ChatMessage, error)
	Update(input domain.ChatMessage) (domain.ChatMessage, error)
	ListForRoom(chatRoomID string) ([]domain.ChatMessage, error)
}

type MessageRepository struct {
	kv  store.KeyValueStore
	log *slog.Logger
}

func NewMessageRepository(kv store.KeyValueStore, log *slog.Logger) MessageRepository {
	return MessageRepository{kv: kv, log: log}
}

// Create persists a new message under MESSAGE:<chatRoomID>:<uuid>, so all of
// a room's messages share a scannable key prefix. The identifier, timestamp
// and read receipt are system controlled: anything the caller supplied for
// them is discarded, and a message starts out unread.
func (r MessageRepository) Create(input domain.ChatMessage) (domain.ChatMessage, error) {
	input.ChatMessageID = domain.NewChatMessageID(input.ChatRoomID)
	input.ReadReceipt = false
	r.log.Debug("creating chat message", "id", input.ChatMessageID, "from", input.FromParticipantID)

	if err := r.kv.Put(input.ChatMessageID, messageToFields(input, time.Now().UTC())); err != nil {
		return domain.ChatMessage{}, err
	}
	return r.Retrieve(input.ChatMessageID)
}

func (r MessageRepository) Retrieve(id string) (domain.ChatMessage, error) {
	chatMessageID, ok, err := r.kv.GetField(id, fieldChatMessageID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	if !ok {
		return domain.ChatMessage{}, fmt.Errorf("chat message %s: %w", id, apperrors.ErrNotFound)
	}
	return messageFromFields(r.kv, chatMessageID)
}

// Update applies the read receipt, the only mutable message field, under the
// monotonic guard: once read, a request to mark a message unread leaves the
// stored state untouched. The call still succeeds and returns the current
// state, so repeating the same update is idempotent. Content, sender and
// timestamp on the input are ignored, they must not be rewritable.
func (r MessageRepository) Update(input domain.ChatMessage) (domain.ChatMessage, error) {
	existing, err := r.Retrieve(input.ChatMessageID)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	if input.ReadReceipt && !existing.ReadReceipt {
		existing.ReadReceipt = true
		if err := r.kv.Put(existing.ChatMessageID, messageToFields(existing, time.Now().UTC())); err != nil {
			return domain.ChatMessage{}, err
		}
	}
	return r.Retrieve(existing.ChatMessageID)
}

// ListForRoom scans the room's key prefix. A message of another room can
// never match: the prefix ends at the room uuid plus separator.
func (r MessageRepository) ListForRoom(chatRoomID string) ([]domain.ChatMessage, error) {
	keys, err := r.kv.ScanKeys(domain.MessagePrefix(chatRoomID))
	if err != nil {
		return nil, err
	}

	messages := make([]domain.ChatMessage, 0, len(keys))
	for _, key := range keys {
		message, err := r.Retrieve(key)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func messageToFields(m domain.ChatMessage, now time.Time) map[string]string {
	return map[string]string{
		fieldChatMessageID:     m.ChatMessageID,
		fieldMessageChatRoomID: m.ChatRoomID,
		fieldFromParticipantID: m.FromParticipantID,
		fieldMessage:           m.Message,
		fieldReadReceipt:       strconv.FormatBool(m.ReadReceipt),
		fieldLastModified:      formatTimestamp(now),
	}
}

func messageFromFields(kv store.KeyValueStore, id string) (domain.ChatMessage, error) {
	chatRoomID, err := requiredField(kv, id, fieldMessageChatRoomID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	fromParticipantID, err := requiredField(kv, id, fieldFromParticipantID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	message, err := optionalField(kv, id, fieldMessage)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	readReceipt, err := optionalField(kv, id, fieldReadReceipt)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	lastModified, err := optionalField(kv, id, fieldLastModified)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return domain.ChatMessage{
		ChatMessageID:     id,
		ChatRoomID:        chatRoomID,
		FromParticipantID: fromParticipantID,
		Message:           message,
		LastModified:      parseTimestamp(lastModified),
		ReadReceipt:       readReceipt == "true",
	}, nil
}
