package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mdpreview/mdpreview/internal/config"
	"github.com/mdpreview/mdpreview/internal/ctxkeys"
	"github.com/mdpreview/mdpreview/internal/markdown"
	"github.com/mdpreview/mdpreview/internal/repository"
	"github.com/mdpreview/mdpreview/internal/service"
	"github.com/mdpreview/mdpreview/internal/types"
)

// maxContentBytes caps a single document body (1 MiB of markdown).
const maxContentBytes = 1 << 20

type FileHandler struct {
	fileService *service.FileService
	parser      *markdown.Parser
	cfg         *config.Config
}

func NewFileHandler(fileService *service.FileService, parser *markdown.Parser, cfg *config.Config) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		parser:      parser,
		cfg:         cfg,
	}
}

func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	q := r.URL.Query()

	filter := repository.FileFilter{
		Search:  q.Get("search"),
		OrderBy: q.Get("orderBy"),
		Order:   q.Get("order"),
	}

	if q.Get("ungrouped") == "true" {
		filter.Ungrouped = true
	} else if gid := q.Get("group_id"); gid != "" {
		filter.GroupID = &gid
	}

	page := types.ParsePageRequest(r, h.cfg.PageLimitDefault, h.cfg.PageLimitMax)

	files, pagination, err := h.fileService.List(user.ID, filter, page)
	if err != nil {
		slog.Error("failed to list files", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load files")
		return
	}

	respondPage(w, files, pagination)
}

func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")

	file, err := h.fileService.ByID(user.ID, fileID)
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}

	respondData(w, http.StatusOK, file)
}

// Create stores a new markdown document. The raw markdown arrives as the
// request body; title and group_id ride in the query string so the body
// stays plain text. A missing title falls back to the document's
// frontmatter title when one exists.
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	q := r.URL.Query()

	content, err := io.ReadAll(io.LimitReader(r.Body, maxContentBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read content")
		return
	}

	title := q.Get("title")
	if title == "" {
		title = h.parser.Title(content)
	}

	var groupID *string
	if gid := q.Get("group_id"); gid != "" {
		groupID = &gid
	}

	file, err := h.fileService.Create(user.ID, title, string(content), groupID)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) {
			respondError(w, http.StatusBadRequest, "Title is required")
			return
		}
		if errors.Is(err, repository.ErrGroupNotFound) {
			respondError(w, http.StatusBadRequest, "Group not found")
			return
		}
		slog.Error("failed to create file", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to create file")
		return
	}

	respondData(w, http.StatusCreated, file)
}

// Update fully replaces title, content and group association. The group_id
// query parameter is tri-state: absent keeps the current group, empty moves
// the file to the ungrouped bucket, a value targets that group.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")
	q := r.URL.Query()

	content, err := io.ReadAll(io.LimitReader(r.Body, maxContentBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read content")
		return
	}

	var groupID *string
	keepGroup := true
	if q.Has("group_id") {
		keepGroup = false
		if gid := q.Get("group_id"); gid != "" {
			groupID = &gid
		}
	}

	file, err := h.fileService.Update(user.ID, fileID, q.Get("title"), string(content), groupID, keepGroup)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFileNotFound):
			respondError(w, http.StatusNotFound, "File not found")
		case errors.Is(err, repository.ErrGroupNotFound):
			respondError(w, http.StatusBadRequest, "Group not found")
		case errors.Is(err, service.ErrTitleRequired):
			respondError(w, http.StatusBadRequest, "Title is required")
		default:
			slog.Error("failed to update file", "error", err, "user_id", user.ID, "file_id", fileID)
			respondError(w, http.StatusInternalServerError, "Failed to update file")
		}
		return
	}

	respondData(w, http.StatusOK, file)
}

func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")

	err := h.fileService.Delete(user.ID, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			respondError(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("failed to delete file", "error", err, "user_id", user.ID, "file_id", fileID)
		respondError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	respondMessage(w, http.StatusOK, "File moved to trash")
}

func (h *FileHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		IDs []string `json:"ids"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		respondError(w, http.StatusBadRequest, "No file ids provided")
		return
	}

	n, err := h.fileService.BulkDelete(user.ID, req.IDs)
	if err != nil {
		slog.Error("failed to bulk delete files", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to delete files")
		return
	}

	respondMessage(w, http.StatusOK, strconv.Itoa(n)+" files moved to trash")
}

func (h *FileHandler) Count(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	count, err := h.fileService.Count(user.ID)
	if err != nil {
		slog.Error("failed to count files", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to count files")
		return
	}

	respondData(w, http.StatusOK, map[string]int{"count": count})
}

func (h *FileHandler) Recent(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 5
	}
	if limit > h.cfg.RecentLimitMax {
		limit = h.cfg.RecentLimitMax
	}

	files, err := h.fileService.Recent(user.ID, limit)
	if err != nil {
		slog.Error("failed to load recent files", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load recent files")
		return
	}

	respondData(w, http.StatusOK, files)
}

// Preview renders the stored markdown to HTML server-side.
func (h *FileHandler) Preview(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")

	file, err := h.fileService.ByID(user.ID, fileID)
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}

	html, err := h.parser.Render([]byte(file.Content))
	if err != nil {
		slog.Error("failed to render markdown", "error", err, "file_id", fileID)
		respondError(w, http.StatusInternalServerError, "Failed to render preview")
		return
	}

	respondData(w, http.StatusOK, map[string]string{"html": string(html)})
}
