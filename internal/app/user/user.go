/*
Package user contains core data structures and logic related to user identity.

It defines the basic representation of a user within the messaging system (the
User struct) and password hashing helpers for account registration and login.
*/
package user

// User represents the resolved identity bound to a connection or account.
// Fields use JSON tags for serialization in WebSocket frames and REST responses.
type User struct {
	// ID is the opaque unique identifier for the user.
	ID string `json:"id"`

	// Username is the display name shown in presence lists and conversations.
	Username string `json:"username"`
}
