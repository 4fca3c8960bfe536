package model

import "time"

// Todo is a single list entry as the server returns it. The API exposes
// Mongo-style "_id" identifiers; the client never fabricates one.
type Todo struct {
	ID        string     `json:"_id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// User is the account identity attached to a login response.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Session pairs the bearer token with the user it belongs to.
// Invariant: Token and User are either both set or both empty.
type Session struct {
	Token string
	User  *User
}

func (s Session) Authenticated() bool { return s.Token != "" }
