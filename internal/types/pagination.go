package types

import (
	"net/http"
	"strconv"
)

// Pagination is the metadata block attached to every paginated response.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// PageRequest holds normalized pagination parameters for a list query.
type PageRequest struct {
	Page   int
	Limit  int
	Offset int
}

// NewPageRequest normalizes raw page/limit values. Page defaults to 1,
// limit to def and is capped at max.
func NewPageRequest(page, limit, def, max int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return PageRequest{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ParsePageRequest extracts page/limit query parameters from a request.
func ParsePageRequest(r *http.Request, def, max int) PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return NewPageRequest(page, limit, def, max)
}

// Paginate builds the metadata block for a page of results out of total rows.
func (p PageRequest) Paginate(total int) Pagination {
	totalPages := (total + p.Limit - 1) / p.Limit
	if totalPages < 1 {
		totalPages = 1
	}
	return Pagination{
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}
