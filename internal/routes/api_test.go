package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/mdpreview/mdpreview/internal/app"
	"github.com/mdpreview/mdpreview/internal/client"
	"github.com/mdpreview/mdpreview/internal/config"
	"github.com/stretchr/testify/suite"
)

// APITestSuite runs the full HTTP stack against a temporary SQLite database,
// driving it through the client package so both sides of the contract are
// exercised together.
type APITestSuite struct {
	suite.Suite

	app    *app.App
	server *httptest.Server
	client *client.Client
	ctx    context.Context
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupSuite() {
	cfg := &config.Config{
		AppName:          "mdpreview-test",
		AppEnv:           "test",
		AppURL:           "http://localhost",
		Port:             "0",
		DBDriver:         "sqlite",
		DBConnection:     filepath.Join(s.T().TempDir(), "api_test.db"),
		JWTSecret:        "test-secret",
		JWTExpiry:        time.Hour,
		PageLimitDefault: 12,
		PageLimitMax:     100,
		RecentLimitMax:   20,
	}

	a, err := app.New(cfg)
	s.Require().NoError(err)
	s.app = a

	s.server = httptest.NewServer(SetupRoutes(a))
	s.ctx = context.Background()

	c, err := client.New(s.server.URL)
	s.Require().NoError(err)
	s.client = c

	_, err = s.client.Register(s.ctx, "tester@example.com", "tester", "correct-horse-battery")
	s.Require().NoError(err)
}

func (s *APITestSuite) TearDownSuite() {
	s.server.Close()
	s.app.Close()
}

func (s *APITestSuite) TestProfileAfterRegister() {
	user, err := s.client.Profile(s.ctx)
	s.Require().NoError(err)
	s.Equal("tester@example.com", user.Email)
	s.Equal("tester", user.Username)
}

func (s *APITestSuite) TestUnauthenticatedRequestsRejected() {
	anon, err := client.New(s.server.URL)
	s.Require().NoError(err)

	_, _, err = anon.ListFiles(s.ctx, client.ListFilesOptions{})
	s.Require().Error(err)

	apiErr, ok := err.(*client.APIError)
	s.Require().True(ok)
	s.Equal(http.StatusUnauthorized, apiErr.Status)
}

func (s *APITestSuite) TestFileRoundTrip() {
	created, err := s.client.CreateFile(s.ctx, "Round Trip", "# hello\n\nbody", nil)
	s.Require().NoError(err)
	s.NotEmpty(created.ID)

	fetched, err := s.client.GetFile(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Round Trip", fetched.Title)
	s.Equal("# hello\n\nbody", fetched.Content)
	s.Nil(fetched.GroupID)
	s.False(fetched.IsDeleted)
}

func (s *APITestSuite) TestCreateFileWithoutTitleRejected() {
	_, err := s.client.CreateFile(s.ctx, "", "no title at all", nil)
	s.Require().Error(err)

	apiErr, ok := err.(*client.APIError)
	s.Require().True(ok)
	s.Equal(http.StatusBadRequest, apiErr.Status)
}

func (s *APITestSuite) TestCreateFileTitleFromFrontmatter() {
	content := "---\ntitle: From Frontmatter\n---\n\nbody text"
	created, err := s.client.CreateFile(s.ctx, "", content, nil)
	s.Require().NoError(err)
	s.Equal("From Frontmatter", created.Title)
}

func (s *APITestSuite) TestGroupReassignmentFlow() {
	group, err := s.client.CreateGroup(s.ctx, "Project X")
	s.Require().NoError(err)

	file, err := s.client.CreateFile(s.ctx, "Movable", "content", nil)
	s.Require().NoError(err)

	// Move into the group; title and content must survive the rewrite.
	moved, err := s.client.UpdateFileGroup(s.ctx, file.ID, &group.ID)
	s.Require().NoError(err)
	s.Require().NotNil(moved.GroupID)
	s.Equal(group.ID, *moved.GroupID)
	s.Equal("Movable", moved.Title)
	s.Equal("content", moved.Content)

	inGroup, _, err := s.client.ListFiles(s.ctx, client.ListFilesOptions{GroupID: group.ID})
	s.Require().NoError(err)
	s.Require().Len(inGroup, 1)
	s.Equal(file.ID, inGroup[0].ID)

	// Move back out.
	moved, err = s.client.UpdateFileGroup(s.ctx, file.ID, nil)
	s.Require().NoError(err)
	s.Nil(moved.GroupID)

	inGroup, _, err = s.client.ListFiles(s.ctx, client.ListFilesOptions{GroupID: group.ID})
	s.Require().NoError(err)
	s.Empty(inGroup)
}

func (s *APITestSuite) TestAssignToForeignGroupRejected() {
	other, err := client.New(s.server.URL)
	s.Require().NoError(err)
	_, err = other.Register(s.ctx, "other@example.com", "other", "another-password-1")
	s.Require().NoError(err)

	foreign, err := other.CreateGroup(s.ctx, "Not Yours")
	s.Require().NoError(err)

	file, err := s.client.CreateFile(s.ctx, "Mine", "c", nil)
	s.Require().NoError(err)

	_, err = s.client.UpdateFileGroup(s.ctx, file.ID, &foreign.ID)
	s.Require().Error(err)

	apiErr, ok := err.(*client.APIError)
	s.Require().True(ok)
	s.Equal(http.StatusBadRequest, apiErr.Status)
}

func (s *APITestSuite) TestGroupDeleteUnlinksFiles() {
	group, err := s.client.CreateGroup(s.ctx, "Doomed")
	s.Require().NoError(err)

	file, err := s.client.CreateFile(s.ctx, "Survivor", "c", &group.ID)
	s.Require().NoError(err)
	s.Require().NotNil(file.GroupID)

	err = s.client.DeleteGroup(s.ctx, group.ID)
	s.Require().NoError(err)

	fetched, err := s.client.GetFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Nil(fetched.GroupID)
	s.False(fetched.IsDeleted)
}

func (s *APITestSuite) TestTrashLifecycle() {
	file, err := s.client.CreateFile(s.ctx, "Trashable", "c", nil)
	s.Require().NoError(err)

	err = s.client.DeleteFile(s.ctx, file.ID)
	s.Require().NoError(err)

	// Soft-deleted files are hidden from normal reads.
	_, err = s.client.GetFile(s.ctx, file.ID)
	s.Require().Error(err)
	s.True(client.IsNotFound(err))

	trash, _, err := s.client.ListTrash(s.ctx, 0, 0)
	s.Require().NoError(err)
	found := false
	for _, f := range trash {
		if f.ID == file.ID {
			found = true
			s.True(f.IsDeleted)
			s.NotNil(f.DeletedAt)
		}
	}
	s.True(found)

	restored, err := s.client.RestoreFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.False(restored.IsDeleted)
	s.Nil(restored.DeletedAt)

	fetched, err := s.client.GetFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Equal("Trashable", fetched.Title)
}

func (s *APITestSuite) TestPermanentDeleteRequiresTrash() {
	file, err := s.client.CreateFile(s.ctx, "Solid", "c", nil)
	s.Require().NoError(err)

	// Not in the trash yet, so permanent delete must refuse.
	err = s.client.DeleteFilePermanent(s.ctx, file.ID)
	s.Require().Error(err)
	s.True(client.IsNotFound(err))

	err = s.client.DeleteFile(s.ctx, file.ID)
	s.Require().NoError(err)

	err = s.client.DeleteFilePermanent(s.ctx, file.ID)
	s.Require().NoError(err)

	_, err = s.client.GetFile(s.ctx, file.ID)
	s.True(client.IsNotFound(err))
}

func (s *APITestSuite) TestListPagination() {
	fresh, err := client.New(s.server.URL)
	s.Require().NoError(err)
	_, err = fresh.Register(s.ctx, "pager@example.com", "pager", "paging-password-1")
	s.Require().NoError(err)

	for i := 0; i < 15; i++ {
		_, err = fresh.CreateFile(s.ctx, "Doc "+string(rune('A'+i)), "c", nil)
		s.Require().NoError(err)
	}

	page1, pagination, err := fresh.ListFiles(s.ctx, client.ListFilesOptions{Page: 1, Limit: 12})
	s.Require().NoError(err)
	s.Len(page1, 12)
	s.Equal(15, pagination.Total)
	s.Equal(2, pagination.TotalPages)
	s.True(pagination.HasNextPage)
	s.False(pagination.HasPrevPage)

	page2, pagination, err := fresh.ListFiles(s.ctx, client.ListFilesOptions{Page: 2, Limit: 12})
	s.Require().NoError(err)
	s.Len(page2, 3)
	s.False(pagination.HasNextPage)
	s.True(pagination.HasPrevPage)
}

func (s *APITestSuite) TestSearchFilter() {
	_, err := s.client.CreateFile(s.ctx, "Unique Needle Document", "haystack", nil)
	s.Require().NoError(err)

	files, _, err := s.client.ListFiles(s.ctx, client.ListFilesOptions{Search: "Unique Needle"})
	s.Require().NoError(err)
	s.Require().Len(files, 1)
	s.Equal("Unique Needle Document", files[0].Title)
}

func (s *APITestSuite) TestPreviewRendersHTML() {
	file, err := s.client.CreateFile(s.ctx, "Previewable", "# Heading\n\nparagraph", nil)
	s.Require().NoError(err)

	html, err := s.client.PreviewFile(s.ctx, file.ID)
	s.Require().NoError(err)
	s.Contains(html, "<h1")
	s.Contains(html, "Heading")
	s.Contains(html, "<p>paragraph</p>")
}
