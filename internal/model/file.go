package model

import (
	"time"
)

// File is a markdown document record. Content is the raw markdown text.
// A file belongs to exactly one user and at most one group. Deleting a file
// moves it to the trash (IsDeleted + DeletedAt); only trash operations remove
// the row for good.
type File struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Content   string     `db:"content" json:"content"`
	UserID    string     `db:"user_id" json:"user_id"`
	GroupID   *string    `db:"group_id" json:"group_id"`
	IsDeleted bool       `db:"is_deleted" json:"is_deleted"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// InGroup reports whether the file currently belongs to the given group,
// where nil means the ungrouped bucket.
func (f *File) InGroup(groupID *string) bool {
	if f.GroupID == nil || groupID == nil {
		return f.GroupID == nil && groupID == nil
	}
	return *f.GroupID == *groupID
}
