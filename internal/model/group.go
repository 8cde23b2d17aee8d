package model

import (
	"time"
)

// Group is a user-defined collection ("project") that files may belong to.
type Group struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	UserID    string     `db:"user_id" json:"user_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at"`
}
