package models

// User represents an administrator account. Only accounts with IsAdmin set
// can reach the admin panel; PasswordHash holds a bcrypt hash.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	IsAdmin      bool   `json:"is_admin" db:"is_admin"`
}
