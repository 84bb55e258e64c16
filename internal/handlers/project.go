package handlers

import (
	"net/http"
	"strings"

	"sentry/internal/models"
	"sentry/internal/repository"
	"sentry/internal/services"
	"sentry/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projects  repository.ProjectRepository
	groups    repository.GroupRepository
	bookmarks *services.BookmarkService
}

func NewProjectHandler(projects repository.ProjectRepository, groups repository.GroupRepository, bookmarks *services.BookmarkService) *ProjectHandler {
	return &ProjectHandler{projects: projects, groups: groups, bookmarks: bookmarks}
}

type projectRequest struct {
	Slug string `json:"slug" binding:"required,max=50"`
	Name string `json:"name" binding:"required,max=200"`
}

// List 展示所有项目
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Get 项目详情. The path segment is either the numeric id or the slug.
func (h *ProjectHandler) Get(c *gin.Context) {
	ref := c.Param("project_id")
	var (
		project *models.Project
		err     error
	)
	if id, perr := utils.ParseID(ref); perr == nil {
		project, err = h.projects.GetByID(c.Request.Context(), id)
	} else {
		project, err = h.projects.GetBySlug(c.Request.Context(), strings.ToLower(ref))
	}
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// Create 创建项目
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project := &models.Project{Slug: strings.ToLower(strings.TrimSpace(req.Slug)), Name: req.Name}
	if err := h.projects.Create(c.Request.Context(), project); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// Delete 删除项目，连带删除其错误组与收藏
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	groups, err := h.groups.ListByProject(c.Request.Context(), id, 0)
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}

	groupIDs := make([]uint, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
	}
	h.bookmarks.InvalidateGroups(groupIDs...)
	c.Status(http.StatusNoContent)
}
