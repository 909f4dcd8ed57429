package domain

import "time"

// Notification points a polling client at a resource that changed since its
// last poll. It is ephemeral: built on demand, consumed once, never stored.
// The links are canonical resource URLs the client follows with a targeted
// GET; the notification itself carries no payload.
type Notification struct {
	Timestamp        time.Time
	ParentResourceID string
	SubResourceID    string
	Links            []string
}

// NewUserNotification flags a created or modified user.
func NewUserNotification(baseURL, userID string) Notification {
	return Notification{
		Timestamp:        time.Now().UTC(),
		ParentResourceID: userID,
		Links:            []string{baseURL + "/users/" + userID},
	}
}

// NewChatRoomNotification flags a created or modified chat room.
func NewChatRoomNotification(baseURL, chatRoomID string) Notification {
	return Notification{
		Timestamp:        time.Now().UTC(),
		ParentResourceID: chatRoomID,
		Links:            []string{baseURL + "/chatrooms/" + chatRoomID},
	}
}

// NewChatMessageNotification flags a created or modified chat message. The
// parent is the owning room, the sub-resource the message itself.
func NewChatMessageNotification(baseURL, chatRoomID, chatMessageID string) Notification {
	return Notification{
		Timestamp:        time.Now().UTC(),
		ParentResourceID: chatRoomID,
		SubResourceID:    chatMessageID,
		Links:            []string{baseURL + "/chatrooms/" + chatRoomID + "/chatmessages/" + chatMessageID},
	}
}
