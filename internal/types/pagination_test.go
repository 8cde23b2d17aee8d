package types

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequestNormalizes(t *testing.T) {
	p := NewPageRequest(0, 0, 12, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = NewPageRequest(3, 10, 12, 100)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 20, p.Offset)

	p = NewPageRequest(1, 500, 12, 100)
	assert.Equal(t, 100, p.Limit)

	p = NewPageRequest(-5, -5, 12, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.Limit)
}

func TestParsePageRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/files?page=2&limit=5", nil)
	p := ParsePageRequest(r, 12, 100)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 5, p.Offset)

	r = httptest.NewRequest("GET", "/api/files?page=abc", nil)
	p = ParsePageRequest(r, 12, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.Limit)
}

func TestPaginate(t *testing.T) {
	p := NewPageRequest(1, 12, 12, 100)
	meta := p.Paginate(30)
	assert.Equal(t, 30, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNextPage)
	assert.False(t, meta.HasPrevPage)

	p = NewPageRequest(3, 12, 12, 100)
	meta = p.Paginate(30)
	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)

	p = NewPageRequest(1, 12, 12, 100)
	meta = p.Paginate(0)
	assert.Equal(t, 1, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
}
