package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mdpreview/mdpreview/internal/config"
	"github.com/mdpreview/mdpreview/internal/ctxkeys"
	"github.com/mdpreview/mdpreview/internal/repository"
	"github.com/mdpreview/mdpreview/internal/service"
	"github.com/mdpreview/mdpreview/internal/types"
)

type TrashHandler struct {
	fileService *service.FileService
	cfg         *config.Config
}

func NewTrashHandler(fileService *service.FileService, cfg *config.Config) *TrashHandler {
	return &TrashHandler{fileService: fileService, cfg: cfg}
}

func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	page := types.ParsePageRequest(r, h.cfg.PageLimitDefault, h.cfg.PageLimitMax)

	files, pagination, err := h.fileService.Trash(user.ID, page)
	if err != nil {
		slog.Error("failed to list trash", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load trash")
		return
	}

	respondPage(w, files, pagination)
}

func (h *TrashHandler) Count(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	count, err := h.fileService.TrashCount(user.ID)
	if err != nil {
		slog.Error("failed to count trash", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to count trash")
		return
	}

	respondData(w, http.StatusOK, map[string]int{"count": count})
}

func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")

	file, err := h.fileService.Restore(user.ID, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			respondError(w, http.StatusNotFound, "File not found in trash")
			return
		}
		slog.Error("failed to restore file", "error", err, "user_id", user.ID, "file_id", fileID)
		respondError(w, http.StatusInternalServerError, "Failed to restore file")
		return
	}

	respondData(w, http.StatusOK, file)
}

func (h *TrashHandler) RestoreAll(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	n, err := h.fileService.RestoreAll(user.ID)
	if err != nil {
		slog.Error("failed to restore trash", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to restore files")
		return
	}

	respondMessage(w, http.StatusOK, strconv.Itoa(n)+" files restored")
}

// DeletePermanent removes a trashed file for good. Only files already in the
// trash qualify; live files must be soft deleted first.
func (h *TrashHandler) DeletePermanent(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")

	err := h.fileService.DeletePermanent(user.ID, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			respondError(w, http.StatusNotFound, "File not found in trash")
			return
		}
		slog.Error("failed to permanently delete file", "error", err, "user_id", user.ID, "file_id", fileID)
		respondError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	respondMessage(w, http.StatusOK, "File permanently deleted")
}

func (h *TrashHandler) Empty(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	n, err := h.fileService.EmptyTrash(user.ID)
	if err != nil {
		slog.Error("failed to empty trash", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to empty trash")
		return
	}

	slog.Info("trash emptied", "user_id", user.ID, "count", n)
	respondMessage(w, http.StatusOK, strconv.Itoa(n)+" files permanently deleted")
}
