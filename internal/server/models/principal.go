// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is the authorization level of a principal.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Principal is a registered account holder.
type Principal struct {
	// Identifier is the chosen username and the primary key. Never changes.
	Identifier string `gorm:"column:identifier;primaryKey" json:"username"`
	FirstName  string `gorm:"column:first_name" json:"first_name"`
	LastName   string `gorm:"column:last_name" json:"last_name"`
	Email      string `gorm:"column:email;uniqueIndex" json:"email"`
	// SecretHash is the stored password digest; see auth.Hasher for encodings.
	SecretHash string    `gorm:"column:secret_hash" json:"-"`
	NationalID string    `gorm:"column:national_id;uniqueIndex" json:"national_id"`
	Role       Role      `gorm:"column:role" json:"role"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides gorm's pluralized default.
func (Principal) TableName() string { return "principals" }
