package models

import (
	"slices"
	"time"
)

// Role is the editing role of a site user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleRegional Role = "regional"
)

// User is a row of the users table. PasswordHash never leaves the server.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	AllowedLangs []string  `json:"allowed_langs" db:"allowed_langs"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PublicUser is the part of a user returned to the browser after login.
type PublicUser struct {
	Username     string   `json:"username"`
	Role         Role     `json:"role"`
	AllowedLangs []string `json:"allowed_langs"`
}

func (u *User) Public() PublicUser {
	langs := u.AllowedLangs
	if langs == nil {
		langs = []string{}
	}
	return PublicUser{Username: u.Username, Role: u.Role, AllowedLangs: langs}
}

// CanEdit reports whether the role/language set authorises edits of lang.
// Admins may edit every language regardless of their language set.
func CanEdit(role Role, allowedLangs []string, lang string) bool {
	if role == RoleAdmin {
		return true
	}
	return slices.Contains(allowedLangs, lang)
}
