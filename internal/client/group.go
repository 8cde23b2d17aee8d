package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mdpreview/mdpreview/internal/model"
	"github.com/mdpreview/mdpreview/internal/types"
)

type ListGroupsOptions struct {
	Page   int
	Limit  int
	Search string
}

func (c *Client) ListGroups(ctx context.Context, opts ListGroupsOptions) ([]model.Group, types.Pagination, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}

	var groups []model.Group
	pagination, err := c.get(ctx, "/api/groups", q, &groups)
	if err != nil {
		return nil, types.Pagination{}, err
	}
	if pagination == nil {
		pagination = &types.Pagination{}
	}
	return groups, *pagination, nil
}

func (c *Client) GetGroup(ctx context.Context, groupID string) (*model.Group, error) {
	var group model.Group
	_, err := c.get(ctx, "/api/groups/"+url.PathEscape(groupID), nil, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) CreateGroup(ctx context.Context, name string) (*model.Group, error) {
	req := map[string]string{"name": name}

	var group model.Group
	err := c.postJSON(ctx, "/api/groups", req, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) UpdateGroup(ctx context.Context, groupID, name string) (*model.Group, error) {
	req := map[string]string{"name": name}

	var group model.Group
	err := c.putJSON(ctx, "/api/groups/"+url.PathEscape(groupID), req, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup removes a group. Files in it survive as ungrouped.
func (c *Client) DeleteGroup(ctx context.Context, groupID string) error {
	return c.delete(ctx, "/api/groups/"+url.PathEscape(groupID), nil)
}
