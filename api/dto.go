package api

import (
	"github.com/samber/lo"

	"collab-chat/domain"
)

// Request bodies. Identifier and timestamp fields are deliberately absent:
// whatever a client sends for them would be discarded anyway.

type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Nickname  string `json:"nickname"`
}

type ModifyUserRequest struct {
	Nickname string `json:"nickname"`
}

type CreateChatRoomRequest struct {
	Topic             string `json:"topic"`
	CreatorUserID     string `json:"creatorUserID"`
	ParticipantUserID string `json:"participantUserID"`
}

type ModifyChatRoomRequest struct {
	Topic string `json:"topic"`
}

type PostChatMessageRequest struct {
	FromParticipantID string `json:"fromParticipantID"`
	Message           string `json:"message"`
}

type ModifyChatMessageRequest struct {
	ReadReceipt bool `json:"readReceipt"`
}

// Response representations.

type UserResponse struct {
	UserID    string `json:"userID"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Nickname  string `json:"nickname"`
}

type ChatMessageResponse struct {
	ChatMessageID     string `json:"chatMessageID"`
	ChatRoomID        string `json:"chatRoomID"`
	FromParticipantID string `json:"fromParticipantID"`
	Message           string `json:"message"`
	LastModified      int64  `json:"lastModified"`
	ReadReceipt       bool   `json:"readReceipt"`
}

type ChatRoomResponse struct {
	ChatRoomID   string                `json:"chatRoomID"`
	Topic        string                `json:"topic"`
	Participants []UserResponse        `json:"participants"`
	Messages     []ChatMessageResponse `json:"messages"`
}

type NotificationResponse struct {
	Timestamp        int64    `json:"timestamp"`
	ParentResourceID string   `json:"parentResourceID"`
	SubResourceID    string   `json:"subResourceID,omitempty"`
	Links            []string `json:"links"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Nickname:  u.Nickname,
	}
}

func toChatMessageResponse(m domain.ChatMessage) ChatMessageResponse {
	return ChatMessageResponse{
		ChatMessageID:     m.ChatMessageID,
		ChatRoomID:        m.ChatRoomID,
		FromParticipantID: m.FromParticipantID,
		Message:           m.Message,
		LastModified:      m.LastModified.UnixMilli(),
		ReadReceipt:       m.ReadReceipt,
	}
}

func toChatRoomResponse(room domain.ChatRoom) ChatRoomResponse {
	return ChatRoomResponse{
		ChatRoomID:   room.ChatRoomID,
		Topic:        room.Topic,
		Participants: lo.Map(room.Participants, func(u domain.User, _ int) UserResponse { return toUserResponse(u) }),
		Messages:     lo.Map(room.Messages, func(m domain.ChatMessage, _ int) ChatMessageResponse { return toChatMessageResponse(m) }),
	}
}

func toNotificationResponse(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		Timestamp:        n.Timestamp.UnixMilli(),
		ParentResourceID: n.ParentResourceID,
		SubResourceID:    n.SubResourceID,
		Links:            n.Links,
	}
}
