package domain

import "time"

// ChatMessage is one message posted by a participant in a chat room.
//
// Everything except ReadReceipt is immutable after creation: message content,
// sender and timestamp must not be rewritable once stored. ReadReceipt is
// monotonic, it only ever moves from unread to read.
type ChatMessage struct {
	ChatMessageID     string
	ChatRoomID        string
	FromParticipantID string
	Message           string
	LastModified      time.Time
	ReadReceipt       bool
}
