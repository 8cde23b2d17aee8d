package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/mdpreview/mdpreview/internal/repository"
	"github.com/mdpreview/mdpreview/internal/types"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrFileInTrash   = errors.New("file is in the trash")
)

const maxTitleLength = 255

type FileService struct {
	fileRepository  repository.FileRepository
	groupRepository repository.GroupRepository
}

func NewFileService(fileRepository repository.FileRepository, groupRepository repository.GroupRepository) *FileService {
	return &FileService{
		fileRepository:  fileRepository,
		groupRepository: groupRepository,
	}
}

// resolveGroup verifies the target group exists, is live, and belongs to the
// user. nil means the ungrouped bucket and is always valid.
func (s *FileService) resolveGroup(userID string, groupID *string) (*string, error) {
	if groupID == nil || *groupID == "" {
		return nil, nil
	}

	group, err := s.groupRepository.ByID(userID, *groupID)
	if err != nil {
		return nil, err
	}

	return &group.ID, nil
}

func (s *FileService) Create(userID, title, content string, groupID *string) (*model.File, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	gid, err := s.resolveGroup(userID, groupID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	file := &model.File{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		UserID:    userID,
		GroupID:   gid,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.fileRepository.Create(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return file, nil
}

func (s *FileService) ByID(userID, fileID string) (*model.File, error) {
	file, err := s.fileRepository.ByID(userID, fileID)
	if err != nil {
		return nil, err
	}

	if file.IsDeleted {
		return nil, repository.ErrFileNotFound
	}

	return file, nil
}

func (s *FileService) List(userID string, filter repository.FileFilter, page types.PageRequest) ([]*model.File, types.Pagination, error) {
	files, total, err := s.fileRepository.List(userID, filter, page)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	if files == nil {
		files = []*model.File{}
	}

	return files, page.Paginate(total), nil
}

func (s *FileService) Recent(userID string, limit int) ([]*model.File, error) {
	files, err := s.fileRepository.Recent(userID, limit)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []*model.File{}
	}
	return files, nil
}

func (s *FileService) Count(userID string) (int, error) {
	return s.fileRepository.Count(userID)
}

// Update replaces title, content and group association in one operation,
// matching the PUT contract: partial updates are not supported, the caller
// sends the full document state. keepGroup leaves the current association
// untouched (group_id absent from the request).
func (s *FileService) Update(userID, fileID, title, content string, groupID *string, keepGroup bool) (*model.File, error) {
	file, err := s.ByID(userID, fileID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	file.Title = title
	file.Content = content

	if !keepGroup {
		gid, err := s.resolveGroup(userID, groupID)
		if err != nil {
			return nil, err
		}
		file.GroupID = gid
	}

	err = s.fileRepository.Update(file)
	if err != nil {
		return nil, err
	}

	return s.fileRepository.ByID(userID, fileID)
}

func (s *FileService) Delete(userID, fileID string) error {
	return s.fileRepository.SoftDelete(userID, fileID)
}

func (s *FileService) BulkDelete(userID string, fileIDs []string) (int, error) {
	n, err := s.fileRepository.SoftDeleteMany(userID, fileIDs)
	if err != nil {
		return 0, err
	}

	slog.Info("files moved to trash", "user_id", userID, "count", n)
	return n, nil
}

func (s *FileService) Trash(userID string, page types.PageRequest) ([]*model.File, types.Pagination, error) {
	files, total, err := s.fileRepository.Trash(userID, page)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	if files == nil {
		files = []*model.File{}
	}

	return files, page.Paginate(total), nil
}

func (s *FileService) TrashCount(userID string) (int, error) {
	return s.fileRepository.TrashCount(userID)
}

func (s *FileService) Restore(userID, fileID string) (*model.File, error) {
	err := s.fileRepository.Restore(userID, fileID)
	if err != nil {
		return nil, err
	}

	return s.fileRepository.ByID(userID, fileID)
}

func (s *FileService) RestoreAll(userID string) (int, error) {
	return s.fileRepository.RestoreAll(userID)
}

func (s *FileService) DeletePermanent(userID, fileID string) error {
	return s.fileRepository.DeletePermanent(userID, fileID)
}

func (s *FileService) EmptyTrash(userID string) (int, error) {
	return s.fileRepository.EmptyTrash(userID)
}
