package repository

import (
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/mdpreview/mdpreview/internal/types"
)

const (
	FileOrderCreated = "created_at"
	FileOrderUpdated = "updated_at"
	FileOrderTitle   = "title"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

// FileFilter narrows a file listing. GroupID and Ungrouped are mutually
// exclusive; Ungrouped wins when both are set.
type FileFilter struct {
	Search    string
	OrderBy   string
	Order     string
	GroupID   *string
	Ungrouped bool
}

type FileRepository interface {
	Create(file *model.File) error
	ByID(userID, fileID string) (*model.File, error)
	List(userID string, filter FileFilter, page types.PageRequest) ([]*model.File, int, error)
	Recent(userID string, limit int) ([]*model.File, error)
	Count(userID string) (int, error)
	Update(file *model.File) error
	SoftDelete(userID, fileID string) error
	SoftDeleteMany(userID string, fileIDs []string) (int, error)
	Trash(userID string, page types.PageRequest) ([]*model.File, int, error)
	TrashCount(userID string) (int, error)
	Restore(userID, fileID string) error
	RestoreAll(userID string) (int, error)
	DeletePermanent(userID, fileID string) error
	EmptyTrash(userID string) (int, error)
	UnlinkGroup(userID, groupID string) error
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(file *model.File) error {
	query := `INSERT INTO files (id, title, content, user_id, group_id, is_deleted, deleted_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		file.ID,
		file.Title,
		file.Content,
		file.UserID,
		file.GroupID,
		file.IsDeleted,
		file.DeletedAt,
		file.CreatedAt,
		file.UpdatedAt,
	)

	return err
}

func (r *fileRepository) ByID(userID, fileID string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1 AND user_id = $2`

	err := r.db.Get(file, query, fileID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

// orderClause whitelists sortable columns; anything else falls back to
// newest-first by creation time.
func orderClause(filter FileFilter) string {
	column := "created_at"
	switch filter.OrderBy {
	case FileOrderUpdated:
		column = "updated_at"
	case FileOrderTitle:
		column = "LOWER(title)"
	case FileOrderCreated, "":
	}

	direction := "DESC"
	if filter.Order == "asc" {
		direction = "ASC"
	}

	return "ORDER BY " + column + " " + direction
}

func (r *fileRepository) List(userID string, filter FileFilter, page types.PageRequest) ([]*model.File, int, error) {
	where := `WHERE user_id = $1 AND is_deleted = FALSE`
	args := []any{userID}

	if filter.Ungrouped {
		where += ` AND group_id IS NULL`
	} else if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		where += ` AND group_id = $2`
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
		n1 := len(args) - 1
		n2 := len(args)
		where += ` AND (title LIKE $` + strconv.Itoa(n1) + ` OR content LIKE $` + strconv.Itoa(n2) + `)`
	}

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM files `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT * FROM files ` + where + ` ` + orderClause(filter) +
		` LIMIT ` + strconv.Itoa(page.Limit) + ` OFFSET ` + strconv.Itoa(page.Offset)

	var files []*model.File
	err = r.db.Select(&files, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return files, total, nil
}

func (r *fileRepository) Recent(userID string, limit int) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE user_id = $1 AND is_deleted = FALSE
	          ORDER BY updated_at DESC LIMIT $2`

	err := r.db.Select(&files, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Count(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM files WHERE user_id = $1 AND is_deleted = FALSE`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

func (r *fileRepository) Update(file *model.File) error {
	query := `UPDATE files
	          SET title = $1, content = $2, group_id = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6 AND is_deleted = FALSE`

	result, err := r.db.Exec(query,
		file.Title,
		file.Content,
		file.GroupID,
		time.Now(),
		file.ID,
		file.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFileNotFound
	}

	return nil
}

func (r *fileRepository) SoftDelete(userID, fileID string) error {
	query := `UPDATE files SET is_deleted = TRUE, deleted_at = $1, updated_at = $1
	          WHERE id = $2 AND user_id = $3 AND is_deleted = FALSE`

	result, err := r.db.Exec(query, time.Now(), fileID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFileNotFound
	}

	return nil
}

func (r *fileRepository) SoftDeleteMany(userID string, fileIDs []string) (int, error) {
	if len(fileIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`UPDATE files SET is_deleted = TRUE, deleted_at = ?, updated_at = ?
		 WHERE user_id = ? AND is_deleted = FALSE AND id IN (?)`,
		time.Now(), time.Now(), userID, fileIDs,
	)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Exec(r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	return int(rows), err
}

func (r *fileRepository) Trash(userID string, page types.PageRequest) ([]*model.File, int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM files WHERE user_id = $1 AND is_deleted = TRUE`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	var files []*model.File
	query := `SELECT * FROM files WHERE user_id = $1 AND is_deleted = TRUE
	          ORDER BY deleted_at DESC LIMIT $2 OFFSET $3`

	err = r.db.Select(&files, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}

	return files, total, nil
}

func (r *fileRepository) TrashCount(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM files WHERE user_id = $1 AND is_deleted = TRUE`
	err := r.db.QueryRow(query, userID).Scan(&count)
	return count, err
}

func (r *fileRepository) Restore(userID, fileID string) error {
	query := `UPDATE files SET is_deleted = FALSE, deleted_at = NULL, updated_at = $1
	          WHERE id = $2 AND user_id = $3 AND is_deleted = TRUE`

	result, err := r.db.Exec(query, time.Now(), fileID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFileNotFound
	}

	return nil
}

func (r *fileRepository) RestoreAll(userID string) (int, error) {
	query := `UPDATE files SET is_deleted = FALSE, deleted_at = NULL, updated_at = $1
	          WHERE user_id = $2 AND is_deleted = TRUE`

	result, err := r.db.Exec(query, time.Now(), userID)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	return int(rows), err
}

func (r *fileRepository) DeletePermanent(userID, fileID string) error {
	query := `DELETE FROM files WHERE id = $1 AND user_id = $2 AND is_deleted = TRUE`

	result, err := r.db.Exec(query, fileID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrFileNotFound
	}

	return nil
}

func (r *fileRepository) EmptyTrash(userID string) (int, error) {
	result, err := r.db.Exec(`DELETE FROM files WHERE user_id = $1 AND is_deleted = TRUE`, userID)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	return int(rows), err
}

func (r *fileRepository) UnlinkGroup(userID, groupID string) error {
	query := `UPDATE files SET group_id = NULL, updated_at = $1
	          WHERE user_id = $2 AND group_id = $3`

	_, err := r.db.Exec(query, time.Now(), userID, groupID)
	return err
}
