package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/mdpreview/mdpreview/internal/repository"
	"github.com/mdpreview/mdpreview/internal/types"
)

var (
	ErrGroupNameRequired = errors.New("group name is required")
)

const maxGroupNameLength = 100

type GroupService struct {
	groupRepository repository.GroupRepository
	fileRepository  repository.FileRepository
}

func NewGroupService(groupRepository repository.GroupRepository, fileRepository repository.FileRepository) *GroupService {
	return &GroupService{
		groupRepository: groupRepository,
		fileRepository:  fileRepository,
	}
}

func (s *GroupService) Create(userID, name string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}
	if len(name) > maxGroupNameLength {
		return nil, fmt.Errorf("group name is too long (max %d characters)", maxGroupNameLength)
	}

	now := time.Now()
	group := &model.Group{
		ID:        uuid.New().String(),
		Name:      name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.groupRepository.Create(group)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

func (s *GroupService) ByID(userID, groupID string) (*model.Group, error) {
	return s.groupRepository.ByID(userID, groupID)
}

func (s *GroupService) List(userID, search string, page types.PageRequest) ([]*model.Group, types.Pagination, error) {
	groups, total, err := s.groupRepository.List(userID, search, page)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	if groups == nil {
		groups = []*model.Group{}
	}

	return groups, page.Paginate(total), nil
}

func (s *GroupService) Update(userID, groupID, name string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	group, err := s.groupRepository.ByID(userID, groupID)
	if err != nil {
		return nil, err
	}

	group.Name = name
	err = s.groupRepository.Update(group)
	if err != nil {
		return nil, err
	}

	return s.groupRepository.ByID(userID, groupID)
}

// Delete removes a group. Files in the group are unlinked, not deleted:
// they drop back into the ungrouped bucket.
func (s *GroupService) Delete(userID, groupID string) error {
	_, err := s.groupRepository.ByID(userID, groupID)
	if err != nil {
		return err
	}

	err = s.fileRepository.UnlinkGroup(userID, groupID)
	if err != nil {
		return fmt.Errorf("failed to unlink group files: %w", err)
	}

	return s.groupRepository.Delete(userID, groupID)
}
