package handlers

import (
	"net/http"

	"sentry/internal/models"
	"sentry/internal/services"

	"github.com/gin-gonic/gin"
)

type BookmarkHandler struct {
	bookmarks *services.BookmarkService
}

func NewBookmarkHandler(bookmarks *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

type bookmarkTarget struct {
	projectID, groupID, userID uint
}

func (h *BookmarkHandler) target(c *gin.Context) (bookmarkTarget, bool) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return bookmarkTarget{}, false
	}
	groupID, ok := paramID(c, "group_id")
	if !ok {
		return bookmarkTarget{}, false
	}
	return bookmarkTarget{projectID: projectID, groupID: groupID, userID: userID(c)}, true
}

// Get 当前用户是否已收藏
func (h *BookmarkHandler) Get(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	bookmarked, err := h.bookmarks.IsBookmarked(c.Request.Context(), t.projectID, t.groupID, t.userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_bookmarked": bookmarked})
}

// Create 添加收藏 - 201 when created, 200 when it already existed
func (h *BookmarkHandler) Create(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	created, err := h.bookmarks.Bookmark(c.Request.Context(), t.projectID, t.groupID, t.userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"is_bookmarked": true, "created": created})
}

// Delete 取消收藏
func (h *BookmarkHandler) Delete(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	removed, err := h.bookmarks.Unbookmark(c.Request.Context(), t.projectID, t.groupID, t.userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_bookmarked": false, "removed": removed})
}

// Toggle 切换收藏状态 - 收藏/取消收藏
func (h *BookmarkHandler) Toggle(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	bookmarked, err := h.bookmarks.Toggle(c.Request.Context(), t.projectID, t.groupID, t.userID)
	if err != nil {
		RespondError(c, err)
		return
	}

	counts, err := h.bookmarks.BookmarkCounts(c.Request.Context(), []uint{t.groupID})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_bookmarked": bookmarked, "bookmark_count": counts[t.groupID]})
}

// ListByGroup 收藏了该错误组的用户
func (h *BookmarkHandler) ListByGroup(c *gin.Context) {
	t, ok := h.target(c)
	if !ok {
		return
	}
	bookmarks, err := h.bookmarks.BookmarkersOfGroup(c.Request.Context(), t.projectID, t.groupID)
	if err != nil {
		RespondError(c, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []*models.GroupBookmark{}
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}

// ListMine 当前用户的全部收藏
func (h *BookmarkHandler) ListMine(c *gin.Context) {
	bookmarks, err := h.bookmarks.BookmarksForUser(c.Request.Context(), userID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []*models.GroupBookmark{}
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": bookmarks})
}
