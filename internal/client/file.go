package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/mdpreview/mdpreview/internal/types"
)

// ListFilesOptions narrows and orders the file listing. Zero values mean
// server defaults.
type ListFilesOptions struct {
	Page      int
	Limit     int
	OrderBy   string // created_at, updated_at, title
	Order     string // asc, desc
	Search    string
	GroupID   string
	Ungrouped bool
}

func (o ListFilesOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.OrderBy != "" {
		q.Set("orderBy", o.OrderBy)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	if o.Ungrouped {
		q.Set("ungrouped", "true")
	} else if o.GroupID != "" {
		q.Set("group_id", o.GroupID)
	}
	return q
}

func (c *Client) ListFiles(ctx context.Context, opts ListFilesOptions) ([]model.File, types.Pagination, error) {
	var files []model.File
	pagination, err := c.get(ctx, "/api/files", opts.query(), &files)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	if pagination == nil {
		pagination = &types.Pagination{}
	}
	return files, *pagination, nil
}

func (c *Client) GetFile(ctx context.Context, fileID string) (*model.File, error) {
	var file model.File
	_, err := c.get(ctx, "/api/files/"+url.PathEscape(fileID), nil, &file)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// CreateFile uploads a markdown document. groupID may be nil for the
// ungrouped bucket.
func (c *Client) CreateFile(ctx context.Context, title, content string, groupID *string) (*model.File, error) {
	q := url.Values{}
	q.Set("title", title)
	if groupID != nil {
		q.Set("group_id", *groupID)
	}

	var file model.File
	_, err := c.do(ctx, http.MethodPost, "/api/files", q, "text/markdown", strings.NewReader(content), &file)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// UpdateFile fully replaces the document. groupID nil moves the file to the
// ungrouped bucket. Use UpdateFileGroup to change only the group.
func (c *Client) UpdateFile(ctx context.Context, fileID, title, content string, groupID *string) (*model.File, error) {
	q := url.Values{}
	q.Set("title", title)
	if groupID != nil {
		q.Set("group_id", *groupID)
	} else {
		q.Set("group_id", "")
	}

	var file model.File
	_, err := c.do(ctx, http.MethodPut, "/api/files/"+url.PathEscape(fileID), q, "text/markdown", strings.NewReader(content), &file)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// UpdateFileGroup reassigns a file to a group (or to the ungrouped bucket
// when groupID is nil) without touching its content. The API's PUT replaces
// the full document state, so the current title and content are read first
// and sent back unchanged.
func (c *Client) UpdateFileGroup(ctx context.Context, fileID string, groupID *string) (*model.File, error) {
	current, err := c.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	return c.UpdateFile(ctx, fileID, current.Title, current.Content, groupID)
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.delete(ctx, "/api/files/"+url.PathEscape(fileID), nil)
}

func (c *Client) BulkDeleteFiles(ctx context.Context, fileIDs []string) error {
	req := map[string][]string{"ids": fileIDs}
	return c.deleteJSON(ctx, "/api/files", req, nil)
}

func (c *Client) FileCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	_, err := c.get(ctx, "/api/files/count", nil, &out)
	if err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) RecentFiles(ctx context.Context, limit int) ([]model.File, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var files []model.File
	_, err := c.get(ctx, "/api/files/recent", q, &files)
	if err != nil {
		return nil, err
	}
	return files, nil
}

// PreviewFile fetches the server-rendered HTML for a document.
func (c *Client) PreviewFile(ctx context.Context, fileID string) (string, error) {
	var out struct {
		HTML string `json:"html"`
	}
	_, err := c.get(ctx, "/api/files/"+url.PathEscape(fileID)+"/preview", nil, &out)
	if err != nil {
		return "", err
	}
	return out.HTML, nil
}
