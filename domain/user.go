package domain

// User is a participant in the collaboration service. The UserID is system
// generated and immutable; the nickname is the only field that may change
// after creation.
type User struct {
	UserID    string
	FirstName string
	LastName  string
	Nickname  string
}
