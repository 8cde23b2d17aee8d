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

var (
	ErrGroupNotFound = errors.New("group not found")
)

type GroupRepository interface {
	Create(group *model.Group) error
	ByID(userID, groupID string) (*model.Group, error)
	List(userID, search string, page types.PageRequest) ([]*model.Group, int, error)
	Update(group *model.Group) error
	Delete(userID, groupID string) error
}

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(group *model.Group) error {
	query := `INSERT INTO groups (id, name, user_id, created_at, updated_at, deleted_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		group.ID,
		group.Name,
		group.UserID,
		group.CreatedAt,
		group.UpdatedAt,
		group.DeletedAt,
	)

	return err
}

func (r *groupRepository) ByID(userID, groupID string) (*model.Group, error) {
	group := &model.Group{}
	query := `SELECT * FROM groups WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	err := r.db.Get(group, query, groupID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGroupNotFound
	}

	return group, err
}

func (r *groupRepository) List(userID, search string, page types.PageRequest) ([]*model.Group, int, error) {
	where := `WHERE user_id = $1 AND deleted_at IS NULL`
	args := []any{userID}

	if search != "" {
		args = append(args, "%"+search+"%")
		where += ` AND name LIKE $2`
	}

	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM groups `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	var groups []*model.Group
	query := `SELECT * FROM groups ` + where + ` ORDER BY LOWER(name) ASC` +
		` LIMIT ` + strconv.Itoa(page.Limit) + ` OFFSET ` + strconv.Itoa(page.Offset)

	err = r.db.Select(&groups, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}

func (r *groupRepository) Update(group *model.Group) error {
	query := `UPDATE groups SET name = $1, updated_at = $2
	          WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL`

	result, err := r.db.Exec(query,
		group.Name,
		time.Now(),
		group.ID,
		group.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGroupNotFound
	}

	return nil
}

func (r *groupRepository) Delete(userID, groupID string) error {
	query := `UPDATE groups SET deleted_at = $1, updated_at = $1
	          WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL`

	result, err := r.db.Exec(query, time.Now(), groupID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGroupNotFound
	}

	return nil
}
