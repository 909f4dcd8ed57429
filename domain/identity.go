// Package domain contains the consumer-facing resource types of the
// collaboration service and the identifier scheme they share.
package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Resource kinds. Identifiers are prefixed with their kind so that a single
// prefix scan over the store enumerates every record of that kind. This shape
// is a public contract: clients and downstream systems depend on it.
const (
	KindUser        = "USER"
	KindChatRoom    = "CHATROOM"
	KindChatMessage = "MESSAGE"
)

// NewUserID mints a USER:<uuid> identifier.
func NewUserID() string {
	return KindUser + ":" + uuid.NewString()
}

// NewChatRoomID mints a CHATROOM:<uuid> identifier.
func NewChatRoomID() string {
	return KindChatRoom + ":" + uuid.NewString()
}

// NewChatMessageID mints a MESSAGE:<chatRoomID>:<uuid> identifier. Messages
// are namespaced under their owning room so that one prefix scan returns
// exactly that room's messages.
func NewChatMessageID(chatRoomID string) string {
	return KindChatMessage + ":" + chatRoomID + ":" + uuid.NewString()
}

// MessagePrefix returns the scan prefix covering every message of a room.
func MessagePrefix(chatRoomID string) string {
	return KindChatMessage + ":" + chatRoomID + ":"
}

// ChatRoomIDOf extracts the owning room identifier embedded in a chat message
// identifier. The room id itself contains a colon, so the trailing uuid is
// stripped at the last separator.
func ChatRoomIDOf(chatMessageID string) (string, bool) {
	rest, found := strings.CutPrefix(chatMessageID, KindChatMessage+":")
	if !found {
		return "", false
	}
	idx := strings.LastIndex(rest, ":")
	if idx <= 0 {
		return "", false
	}
	return rest[:idx], true
}
