package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mdpreview/mdpreview/internal/config"
	"github.com/mdpreview/mdpreview/internal/ctxkeys"
	"github.com/mdpreview/mdpreview/internal/repository"
	"github.com/mdpreview/mdpreview/internal/service"
	"github.com/mdpreview/mdpreview/internal/types"
)

type GroupHandler struct {
	groupService *service.GroupService
	cfg          *config.Config
}

func NewGroupHandler(groupService *service.GroupService, cfg *config.Config) *GroupHandler {
	return &GroupHandler{groupService: groupService, cfg: cfg}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	page := types.ParsePageRequest(r, h.cfg.PageLimitDefault, h.cfg.PageLimitMax)

	groups, pagination, err := h.groupService.List(user.ID, r.URL.Query().Get("search"), page)
	if err != nil {
		slog.Error("failed to list groups", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load groups")
		return
	}

	respondPage(w, groups, pagination)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	groupID := r.PathValue("id")

	group, err := h.groupService.ByID(user.ID, groupID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Group not found")
		return
	}

	respondData(w, http.StatusOK, group)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	group, err := h.groupService.Create(user.ID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrGroupNameRequired) {
			respondError(w, http.StatusBadRequest, "Group name is required")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondData(w, http.StatusCreated, group)
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	groupID := r.PathValue("id")

	var req struct {
		Name string `json:"name"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	group, err := h.groupService.Update(user.ID, groupID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGroupNotFound):
			respondError(w, http.StatusNotFound, "Group not found")
		case errors.Is(err, service.ErrGroupNameRequired):
			respondError(w, http.StatusBadRequest, "Group name is required")
		default:
			slog.Error("failed to update group", "error", err, "user_id", user.ID, "group_id", groupID)
			respondError(w, http.StatusInternalServerError, "Failed to update group")
		}
		return
	}

	respondData(w, http.StatusOK, group)
}

// Delete removes a group. Its files survive and fall back to the ungrouped
// bucket.
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	groupID := r.PathValue("id")

	err := h.groupService.Delete(user.ID, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			respondError(w, http.StatusNotFound, "Group not found")
			return
		}
		slog.Error("failed to delete group", "error", err, "user_id", user.ID, "group_id", groupID)
		respondError(w, http.StatusInternalServerError, "Failed to delete group")
		return
	}

	respondMessage(w, http.StatusOK, "Group deleted")
}
