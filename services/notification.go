package services

import (
	"log/slog"
	"strconv"
	"time"

	"collab-chat/domain"
	"collab-chat/store"
)

// Store field carrying the watermark timestamp, written by every repository
// on each persist.
const fieldLastModified = "lastmodified"

// NotificationService is the polling engine. Clients have no push channel; a
// client discovers remote changes by handing in the watermark from its last
// poll and reading back descriptors for everything modified since. The
// descriptors carry addressing data only, the client follows up with targeted
// GETs. Polling keeps the server stateless across calls, at the documented
// cost that an answer can be stale by the time the client acts on it.
type NotificationService struct {
	kv        store.KeyValueStore
	messaging *MessagingService
	baseURL   string
	log       *slog.Logger
}

func NewNotificationService(kv store.KeyValueStore, messaging *MessagingService, baseURL string, log *slog.Logger) *NotificationService {
	return &NotificationService{kv: kv, messaging: messaging, baseURL: baseURL, log: log}
}

// CheckForNewEvents scans every resource kind for records whose lastmodified
// is later than the supplied watermark and emits one notification per changed
// resource. An empty result is a legitimate answer; the call never blocks.
func (s *NotificationService) CheckForNewEvents(since time.Time) ([]domain.Notification, error) {
	var notifications []domain.Notification

	userKeys, err := s.changedSince(domain.KindUser+":", since)
	if err != nil {
		return nil, err
	}
	for _, key := range userKeys {
		notifications = append(notifications, domain.NewUserNotification(s.baseURL, key))
	}

	roomKeys, err := s.changedSince(domain.KindChatRoom+":", since)
	if err != nil {
		return nil, err
	}
	for _, key := range roomKeys {
		notifications = append(notifications, domain.NewChatRoomNotification(s.baseURL, key))
	}

	messageKeys, err := s.changedSince(domain.KindChatMessage+":", since)
	if err != nil {
		return nil, err
	}
	for _, key := range messageKeys {
		chatRoomID, ok := domain.ChatRoomIDOf(key)
		if !ok {
			s.log.Warn("skipping message key with unexpected shape", "key", key)
			continue
		}
		notifications = append(notifications, domain.NewChatMessageNotification(s.baseURL, chatRoomID, key))
	}

	s.log.Debug("poll answered", "since", since, "notifications", len(notifications))
	return notifications, nil
}

// changedSince returns the record keys under prefix with lastmodified after
// the watermark. Records without a parseable timestamp never match.
func (s *NotificationService) changedSince(prefix string, since time.Time) ([]string, error) {
	keys, err := s.kv.ScanKeys(prefix)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, key := range keys {
		raw, ok, err := s.kv.GetField(key, fieldLastModified)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if time.UnixMilli(ms).After(since) {
			changed = append(changed, key)
		}
	}
	return changed, nil
}

// SimulateActivity manufactures count messages in the named room, attributed
// to the other party, and returns one notification per message. It stands in
// for a remote participant during demos and tests of the polling flow.
// NotFound when the room does not exist.
func (s *NotificationService) SimulateActivity(chatRoomID string, count int) ([]domain.Notification, error) {
	messages, err := s.messaging.CreateTestMessages(chatRoomID, count)
	if err != nil {
		return nil, err
	}

	notifications := make([]domain.Notification, 0, len(messages))
	for _, message := range messages {
		notifications = append(notifications,
			domain.NewChatMessageNotification(s.baseURL, chatRoomID, message.ChatMessageID))
	}
	return notifications, nil
}
