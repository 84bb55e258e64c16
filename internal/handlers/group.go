package handlers

import (
	"net/http"

	"sentry/internal/models"
	"sentry/internal/repository"
	"sentry/internal/services"
	"sentry/internal/utils"

	"github.com/gin-gonic/gin"
)

const defaultGroupLimit = 100

type GroupHandler struct {
	groups    repository.GroupRepository
	projects  repository.ProjectRepository
	bookmarks *services.BookmarkService
}

func NewGroupHandler(groups repository.GroupRepository, projects repository.ProjectRepository, bookmarks *services.BookmarkService) *GroupHandler {
	return &GroupHandler{groups: groups, projects: projects, bookmarks: bookmarks}
}

type groupRequest struct {
	Message string `json:"message" binding:"required"`
	Culprit string `json:"culprit" binding:"max=200"`
	Level   string `json:"level" binding:"omitempty,oneof=debug info warning error fatal"`
}

// List 项目下的错误组，带当前用户的收藏标注
func (h *GroupHandler) List(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	if _, err := h.projects.GetByID(c.Request.Context(), projectID); err != nil {
		RespondError(c, err)
		return
	}

	limit := utils.StringToInt(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > defaultGroupLimit {
		limit = defaultGroupLimit
	}
	groups, err := h.groups.ListByProject(c.Request.Context(), projectID, limit)
	if err != nil {
		RespondError(c, err)
		return
	}

	views, err := h.bookmarks.AnnotateGroups(c.Request.Context(), userID(c), groups)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": views})
}

// Create 创建错误组
func (h *GroupHandler) Create(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group := &models.Group{
		ProjectID: projectID,
		Message:   req.Message,
		Culprit:   req.Culprit,
		Level:     req.Level,
	}
	if err := h.groups.Create(c.Request.Context(), group); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// Delete 删除错误组，连带删除其收藏
func (h *GroupHandler) Delete(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	groupID, ok := paramID(c, "group_id")
	if !ok {
		return
	}
	if err := h.groups.Delete(c.Request.Context(), projectID, groupID); err != nil {
		RespondError(c, err)
		return
	}
	h.bookmarks.InvalidateGroups(groupID)
	c.Status(http.StatusNoContent)
}
