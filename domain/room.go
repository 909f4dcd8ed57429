package domain

// ChatRoom is the container resource of the service: a conversation between
// exactly two participants. Participants and Messages are derived at read
// time from their own records; the room record itself stores only the
// participant identifiers. The first participant is always the creator.
type ChatRoom struct {
	ChatRoomID   string
	Topic        string
	Participants []User
	Messages     []ChatMessage
}
