package ratings

import (
	"net/http"
	"strconv"

	"github.com/gifvault/gifvault/pkg/gifvault/auth"
	"github.com/gifvault/gifvault/pkg/gifvault/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler handles rating requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new ratings handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateRatingRequest represents the request to rate a GIF
type CreateRatingRequest struct {
	GifID  string `json:"gif_id" binding:"required"`
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
}

// UpdateRatingRequest represents the request to change a rating's value
type UpdateRatingRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

// findOwned fetches a rating by id and enforces the owner-only policy.
// Writes the error response and returns nil when access is denied.
func (h *Handler) findOwned(c *gin.Context, userID uint) *models.Rating {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rating ID"})
		return nil
	}

	var rating models.Rating
	if err := h.db.First(&rating, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return nil
	}

	if rating.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this rating"})
		return nil
	}

	return &rating
}

// List returns the authenticated user's ratings
// @Summary List ratings
// @Description Get all ratings submitted by the authenticated user
// @Tags ratings
// @Produce json
// @Success 200 {array} models.Rating
// @Failure 401 {object} map[string]string "Authentication required"
// @Security BearerAuth
// @Router /ratings [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var userRatings []models.Rating
	if err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&userRatings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ratings"})
		return
	}

	c.JSON(http.StatusOK, userRatings)
}

// Create submits a rating for a GIF. Submitting again for the same GIF
// overwrites the previous value in a single atomic upsert.
// @Summary Rate a GIF
// @Description Create or overwrite the authenticated user's rating for a GIF
// @Tags ratings
// @Accept json
// @Produce json
// @Param request body CreateRatingRequest true "Rating"
// @Success 201 {object} models.Rating
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 401 {object} map[string]string "Authentication required"
// @Security BearerAuth
// @Router /ratings [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating := models.Rating{
		UserID: userID,
		GifID:  req.GifID,
		Rating: req.Rating,
	}

	err := h.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "gif_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(&rating).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	// Re-read so the conflict path returns the stored row, not the insert attempt
	var stored models.Rating
	if err := h.db.Where("user_id = ? AND gif_id = ?", userID, req.GifID).First(&stored).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rating"})
		return
	}

	c.JSON(http.StatusCreated, stored)
}

// Show returns a single rating
// @Summary Get a rating
// @Description Get one of the authenticated user's ratings by ID
// @Tags ratings
// @Produce json
// @Param id path int true "Rating ID"
// @Success 200 {object} models.Rating
// @Failure 403 {object} map[string]string "Not the rating's owner"
// @Failure 404 {object} map[string]string "Rating not found"
// @Security BearerAuth
// @Router /ratings/{id} [get]
func (h *Handler) Show(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	rating := h.findOwned(c, userID)
	if rating == nil {
		return
	}

	c.JSON(http.StatusOK, rating)
}

// Update changes a rating's value
// @Summary Update a rating
// @Description Change the value of one of the authenticated user's ratings
// @Tags ratings
// @Accept json
// @Produce json
// @Param id path int true "Rating ID"
// @Param request body UpdateRatingRequest true "New value"
// @Success 200 {object} models.Rating
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Not the rating's owner"
// @Failure 404 {object} map[string]string "Rating not found"
// @Security BearerAuth
// @Router /ratings/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	rating := h.findOwned(c, userID)
	if rating == nil {
		return
	}

	var req UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating.Rating = req.Rating
	if err := h.db.Save(rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update rating"})
		return
	}

	c.JSON(http.StatusOK, rating)
}

// Delete removes a rating
// @Summary Delete a rating
// @Description Delete one of the authenticated user's ratings
// @Tags ratings
// @Produce json
// @Param id path int true "Rating ID"
// @Success 204 "Rating deleted"
// @Failure 403 {object} map[string]string "Not the rating's owner"
// @Failure 404 {object} map[string]string "Rating not found"
// @Security BearerAuth
// @Router /ratings/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	rating := h.findOwned(c, userID)
	if rating == nil {
		return
	}

	if err := h.db.Delete(rating).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rating"})
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers rating routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ratings", h.List)
	rg.POST("/ratings", h.Create)
	rg.GET("/ratings/:id", h.Show)
	rg.PUT("/ratings/:id", h.Update)
	rg.DELETE("/ratings/:id", h.Delete)
}
