package model

import "time"

// User represents an account as stored in the `users` table. The password
// is only ever kept as a bcrypt hash; handlers expose UserView instead.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Login        – unique login name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Login        string    // users.login
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}

// UserView is the public projection of a user.
type UserView struct {
	ID    uint64 `json:"id"`
	Login string `json:"login"`
}

// View strips the credentials from u.
func (u User) View() UserView { return UserView{ID: u.ID, Login: u.Login} }

// Author mirrors the `authors` table.
type Author struct {
	ID        uint64 `json:"id"`         // authors.id
	FirstName string `json:"first_name"` // authors.first_name
	LastName  string `json:"last_name"`  // authors.last_name
}
