package services

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"collab-chat/domain"
	apperrors "collab-chat/errors"
)

func TestNotifications_FutureWatermarkIsQuiet(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	f.twoUsersAndARoom(t, "t")

	notifications, err := f.notifications.CheckForNewEvents(time.Now().Add(time.Hour))
	req.NoError(err)
	req.Empty(notifications)
}

func TestNotifications_ZeroWatermarkSeesEveryRecord(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	alice, _, room := f.twoUsersAndARoom(t, "t")
	posted, err := f.messaging.PostChatMessage(PostChatMessageCommand{
		ChatRoomID:        room.ChatRoomID,
		FromParticipantID: alice.UserID,
		Message:           "hi",
	})
	req.NoError(err)

	notifications, err := f.notifications.CheckForNewEvents(time.Time{})
	req.NoError(err)
	// Two users, one room, one message.
	req.Len(notifications, 4)

	parents := lo.Map(notifications, func(n domain.Notification, _ int) string {
		return n.ParentResourceID
	})
	req.Contains(parents, alice.UserID)
	req.Contains(parents, room.ChatRoomID)

	message, ok := lo.Find(notifications, func(n domain.Notification) bool {
		return n.SubResourceID == posted.ChatMessageID
	})
	req.True(ok)
	req.Equal(room.ChatRoomID, message.ParentResourceID)
	req.Equal(
		[]string{"http://localhost:8080/chatrooms/" + room.ChatRoomID + "/chatmessages/" + posted.ChatMessageID},
		message.Links,
	)
}

func TestNotifications_OnlyChangesAfterWatermarkAreReported(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	alice, _, room := f.twoUsersAndARoom(t, "t")

	// Watermark taken after the setup writes settled.
	time.Sleep(5 * time.Millisecond)
	watermark := time.Now()
	time.Sleep(5 * time.Millisecond)

	posted, err := f.messaging.PostChatMessage(PostChatMessageCommand{
		ChatRoomID:        room.ChatRoomID,
		FromParticipantID: alice.UserID,
		Message:           "late arrival",
	})
	req.NoError(err)

	notifications, err := f.notifications.CheckForNewEvents(watermark)
	req.NoError(err)
	req.Len(notifications, 1)
	req.Equal(posted.ChatMessageID, notifications[0].SubResourceID)
}

func TestNotifications_UpdateMovesRecordPastWatermark(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	_, _, room := f.twoUsersAndARoom(t, "t1")

	time.Sleep(5 * time.Millisecond)
	watermark := time.Now()
	time.Sleep(5 * time.Millisecond)

	_, err := f.messaging.ModifyChatRoom(domain.ChatRoom{ChatRoomID: room.ChatRoomID, Topic: "t2"})
	req.NoError(err)

	notifications, err := f.notifications.CheckForNewEvents(watermark)
	req.NoError(err)
	req.Len(notifications, 1)
	req.Equal(room.ChatRoomID, notifications[0].ParentResourceID)
	req.Empty(notifications[0].SubResourceID)
}

func TestNotifications_SimulateActivity(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	_, bob, room := f.twoUsersAndARoom(t, "t")

	notifications, err := f.notifications.SimulateActivity(room.ChatRoomID, 3)
	req.NoError(err)
	req.Len(notifications, 3)

	for _, n := range notifications {
		req.Equal(room.ChatRoomID, n.ParentResourceID)
		req.NotEmpty(n.SubResourceID)

		message, err := f.messaging.RetrieveChatMessage(n.SubResourceID)
		req.NoError(err)
		req.Equal(bob.UserID, message.FromParticipantID)
	}
}

func TestNotifications_SimulateActivityUnknownRoom(t *testing.T) {
	req := require.New(t)
	f := setupServices(t)

	_, err := f.notifications.SimulateActivity("CHATROOM:missing", 2)
	req.ErrorIs(err, apperrors.ErrNotFound)
}
