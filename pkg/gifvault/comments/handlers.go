package comments

import (
	"net/http"
	"strconv"

	"github.com/gifvault/gifvault/pkg/gifvault/auth"
	"github.com/gifvault/gifvault/pkg/gifvault/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles comment requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new comments handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateCommentRequest represents the request to comment on a GIF
type CreateCommentRequest struct {
	GifID   string `json:"gif_id" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// UpdateCommentRequest represents the request to edit a comment
type UpdateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// find fetches a comment by path id, writing a 404 when absent
func (h *Handler) find(c *gin.Context) *models.Comment {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return nil
	}

	var comment models.Comment
	if err := h.db.Preload("User").First(&comment, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return nil
	}

	return &comment
}

// List returns all comments on a GIF. Comments are public to any
// authenticated caller.
// @Summary List comments for a GIF
// @Description Get all comments on a GIF, oldest first
// @Tags comments
// @Produce json
// @Param gif_id query string true "External GIF identifier"
// @Success 200 {array} models.Comment
// @Failure 400 {object} map[string]string "Missing gif_id"
// @Security BearerAuth
// @Router /comments [get]
func (h *Handler) List(c *gin.Context) {
	gifID := c.Query("gif_id")
	if gifID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gif_id is required"})
		return
	}

	var gifComments []models.Comment
	err := h.db.Where("gif_id = ?", gifID).
		Preload("User").
		Order("created_at ASC").
		Find(&gifComments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gifComments)
}

// Create adds a comment to a GIF
// @Summary Comment on a GIF
// @Description Add a comment to a GIF
// @Tags comments
// @Accept json
// @Produce json
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Authentication required"
// @Security BearerAuth
// @Router /comments [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.Comment{
		UserID:  userID,
		GifID:   req.GifID,
		Comment: req.Comment,
	}

	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save comment"})
		return
	}

	h.db.Preload("User").First(&comment, comment.ID)

	c.JSON(http.StatusCreated, comment)
}

// Show returns a single comment
// @Summary Get a comment
// @Description Get a comment by ID
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Comment
// @Failure 404 {object} map[string]string "Comment not found"
// @Security BearerAuth
// @Router /comments/{id} [get]
func (h *Handler) Show(c *gin.Context) {
	comment := h.find(c)
	if comment == nil {
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Update edits a comment. Only the comment's author may edit it.
// @Summary Update a comment
// @Description Edit one of the authenticated user's comments
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Comment ID"
// @Param request body UpdateCommentRequest true "New text"
// @Success 200 {object} models.Comment
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the comment's author"
// @Failure 404 {object} map[string]string "Comment not found"
// @Security BearerAuth
// @Router /comments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	comment := h.find(c)
	if comment == nil {
		return
	}

	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own comments"})
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment.Comment = req.Comment
	if err := h.db.Save(comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment. Only the comment's author may delete it.
// @Summary Delete a comment
// @Description Delete one of the authenticated user's comments
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 204 "Comment deleted"
// @Failure 403 {object} map[string]string "Not the comment's author"
// @Failure 404 {object} map[string]string "Comment not found"
// @Security BearerAuth
// @Router /comments/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	comment := h.find(c)
	if comment == nil {
		return
	}

	if comment.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := h.db.Delete(comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers comment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/comments", h.List)
	rg.POST("/comments", h.Create)
	rg.GET("/comments/:id", h.Show)
	rg.PUT("/comments/:id", h.Update)
	rg.DELETE("/comments/:id", h.Delete)
}
