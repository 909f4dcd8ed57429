package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewUserID_Format(t *testing.T) {
	req := require.New(t)

	id := NewUserID()
	req.True(strings.HasPrefix(id, "USER:"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "USER:"))
	req.NoError(err)
}

func TestNewChatMessageID_ScopedUnderRoom(t *testing.T) {
	req := require.New(t)

	roomID := NewChatRoomID()
	msgID := NewChatMessageID(roomID)

	req.True(strings.HasPrefix(msgID, "MESSAGE:"+roomID+":"))
	req.True(strings.HasPrefix(msgID, MessagePrefix(roomID)))

	_, err := uuid.Parse(strings.TrimPrefix(msgID, MessagePrefix(roomID)))
	req.NoError(err)
}

func TestNewID_NeverReuses(t *testing.T) {
	req := require.New(t)

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewChatRoomID()
		req.False(seen[id])
		seen[id] = true
	}
}

func TestChatRoomIDOf(t *testing.T) {
	req := require.New(t)

	roomID := NewChatRoomID()
	msgID := NewChatMessageID(roomID)

	got, ok := ChatRoomIDOf(msgID)
	req.True(ok)
	req.Equal(roomID, got)

	_, ok = ChatRoomIDOf("USER:whatever")
	req.False(ok)

	_, ok = ChatRoomIDOf("MESSAGE:")
	req.False(ok)
}
