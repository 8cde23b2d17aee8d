package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/mdpreview/mdpreview/internal/types"
)

func (c *Client) ListTrash(ctx context.Context, page, limit int) ([]model.File, types.Pagination, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var files []model.File
	pagination, err := c.get(ctx, "/api/files/trash", q, &files)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	if pagination == nil {
		pagination = &types.Pagination{}
	}
	return files, *pagination, nil
}

func (c *Client) TrashCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	_, err := c.get(ctx, "/api/files/trash/count", nil, &out)
	if err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) RestoreFile(ctx context.Context, fileID string) (*model.File, error) {
	var file model.File
	err := c.postJSON(ctx, "/api/files/trash/"+url.PathEscape(fileID)+"/restore", struct{}{}, &file)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (c *Client) RestoreAll(ctx context.Context) error {
	return c.postJSON(ctx, "/api/files/trash/restore-all", struct{}{}, nil)
}

// DeleteFilePermanent removes a trashed file for good.
func (c *Client) DeleteFilePermanent(ctx context.Context, fileID string) error {
	return c.delete(ctx, "/api/files/trash/"+url.PathEscape(fileID), nil)
}

func (c *Client) EmptyTrash(ctx context.Context) error {
	return c.delete(ctx, "/api/files/trash", nil)
}
