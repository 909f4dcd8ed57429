//go:generate go run go.uber.org/mock/mockgen -source=room.go -destination=../mocks/mock_room_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"collab-chat/domain"
	apperrors "collab-chat/errors"
	"collab-chat/store"
)

const (
	fieldChatRoomID        = "chatroomid"
	fieldTopic             = "topic"
	fieldCreatorUserID     = "chatroomcreatoruserid"
	fieldParticipantUserID = "chatroomparticipantid"
)

// ChatRoomRecord is the flattened chat room as held in the store. Participant
// payloads are never stored inline, only their identifiers; duplicating them
// here would go stale the moment a nickname changes.
type ChatRoomRecord struct {
	ChatRoomID        string
	Topic             string
	CreatorUserID     string
	ParticipantUserID string
	LastModified      time.Time
}

type IRoomRepository interface {
	Create(input ChatRoomRecord) (ChatRoomRecord, error)
	Retrieve(id string) (ChatRoomRecord, error)
	Update(input ChatRoomRecord) (ChatRoomRecord, error)
	ListAll() ([]ChatRoomRecord, error)
}

type RoomRepository struct {
	kv  store.KeyValueStore
	log *slog.Logger
}

func NewRoomRepository(kv store.KeyValueStore, log *slog.Logger) RoomRepository {
	return RoomRepository{kv: kv, log: log}
}

// Create persists a new room record. The identifier is always minted here,
// discarding anything the caller put on the input, and the returned record is
// re-read from the store.
func (r RoomRepository) Create(input ChatRoomRecord) (ChatRoomRecord, error) {
	input.ChatRoomID = domain.NewChatRoomID()
	r.log.Debug("creating chat room", "id", input.ChatRoomID, "topic", input.Topic)

	if err := r.kv.Put(input.ChatRoomID, roomToFields(input, time.Now().UTC())); err != nil {
		return ChatRoomRecord{}, err
	}
	return r.Retrieve(input.ChatRoomID)
}

func (r RoomRepository) Retrieve(id string) (ChatRoomRecord, error) {
	chatRoomID, ok, err := r.kv.GetField(id, fieldChatRoomID)
	if err != nil {
		return ChatRoomRecord{}, err
	}
	if !ok {
		return ChatRoomRecord{}, fmt.Errorf("chat room %s: %w", id, apperrors.ErrNotFound)
	}
	return roomFromFields(r.kv, chatRoomID)
}

// Update overwrites the topic, the only mutable room field. Participant ids
// and the room id itself are immutable; values for them on the input are
// dropped silently.
func (r RoomRepository) Update(input ChatRoomRecord) (ChatRoomRecord, error) {
	existing, err := r.Retrieve(input.ChatRoomID)
	if err != nil {
		return ChatRoomRecord{}, err
	}

	existing.Topic = input.Topic
	if err := r.kv.Put(existing.ChatRoomID, roomToFields(existing, time.Now().UTC())); err != nil {
		return ChatRoomRecord{}, err
	}
	return r.Retrieve(existing.ChatRoomID)
}

func (r RoomRepository) ListAll() ([]ChatRoomRecord, error) {
	keys, err := r.kv.ScanKeys(domain.KindChatRoom + ":")
	if err != nil {
		return nil, err
	}

	rooms := make([]ChatRoomRecord, 0, len(keys))
	for _, key := range keys {
		room, err := r.Retrieve(key)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func roomToFields(rec ChatRoomRecord, now time.Time) map[string]string {
	return map[string]string{
		fieldChatRoomID:        rec.ChatRoomID,
		fieldTopic:             rec.Topic,
		fieldCreatorUserID:     rec.CreatorUserID,
		fieldParticipantUserID: rec.ParticipantUserID,
		fieldLastModified:      formatTimestamp(now),
	}
}

func roomFromFields(kv store.KeyValueStore, id string) (ChatRoomRecord, error) {
	creatorID, err := requiredField(kv, id, fieldCreatorUserID)
	if err != nil {
		return ChatRoomRecord{}, err
	}
	participantID, err := requiredField(kv, id, fieldParticipantUserID)
	if err != nil {
		return ChatRoomRecord{}, err
	}
	topic, err := optionalField(kv, id, fieldTopic)
	if err != nil {
		return ChatRoomRecord{}, err
	}
	lastModified, err := optionalField(kv, id, fieldLastModified)
	if err != nil {
		return ChatRoomRecord{}, err
	}
	return ChatRoomRecord{
		ChatRoomID:        id,
		Topic:             topic,
		CreatorUserID:     creatorID,
		ParticipantUserID: participantID,
		LastModified:      parseTimestamp(lastModified),
	}, nil
}
