package gifs

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gifvault/gifvault/pkg/gifvault/auth"
	"github.com/gifvault/gifvault/pkg/gifvault/giphy"
	"github.com/gifvault/gifvault/pkg/gifvault/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles saved-GIF requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new gifs handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// SaveGifRequest represents the request to save a GIF from search results
type SaveGifRequest struct {
	GiphyID   string        `json:"giphy_id" binding:"required,max=255"`
	GiphyData giphy.GifData `json:"giphy_data"`
}

// SyncGifRequest represents the request to re-sync a saved GIF from
// fresh upstream data
type SyncGifRequest struct {
	GiphyData giphy.GifData `json:"giphy_data"`
}

// PagedGifsResponse is the pagination envelope for the collection list
type PagedGifsResponse struct {
	Data        []GifResponse `json:"data"`
	CurrentPage int           `json:"current_page"`
	LastPage    int           `json:"last_page"`
	PerPage     int           `json:"per_page"`
	Total       int64         `json:"total"`
}

// StatsResponse summarizes a user's collection
type StatsResponse struct {
	TotalSaved          int64            `json:"total_saved"`
	ByRating            map[string]int64 `json:"by_rating"`
	WithVerifiedAuthors int64            `json:"with_verified_authors"`
	TotalSize           string           `json:"total_size"`
	AverageSize         string           `json:"average_size"`
}

// ownedGifs scopes a query to the requesting user's collection, so
// other users' rows surface as not found rather than forbidden
func (h *Handler) ownedGifs(userID uint) *gorm.DB {
	return h.db.Where("created_by_id = ?", userID)
}

// Save stores a GIF from upstream search data
// @Summary Save a GIF to the collection
// @Description Normalize an upstream search result and store it
// @Tags gifs
// @Accept json
// @Produce json
// @Param request body SaveGifRequest true "GIF to save"
// @Success 201 {object} map[string]interface{} "GIF saved"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 409 {object} map[string]interface{} "GIF already saved"
// @Security BearerAuth
// @Router /gifs/save [post]
func (h *Handler) Save(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req SaveGifRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.GiphyData.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "giphy_data with an id is required"})
		return
	}

	// Friendly conflict path before insert
	var existing models.Gif
	if err := h.ownedGifs(userID).Where("giphy_id = ?", req.GiphyID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "GIF already saved",
			"gif":     existing,
		})
		return
	}

	gif := models.GifFromGiphyData(&req.GiphyData, &userID)

	if err := h.db.Create(gif).Error; err != nil {
		// The pre-check does not pre-empt a concurrent save or a save by
		// another user; the unique index on giphy_id surfaces here. The
		// stored row is echoed back only when it belongs to the caller.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			conflict := gin.H{"message": "GIF already saved"}
			var saved models.Gif
			if ferr := h.ownedGifs(userID).Where("giphy_id = ?", gif.GiphyID).First(&saved).Error; ferr == nil {
				conflict["gif"] = saved
			}
			c.JSON(http.StatusConflict, conflict)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save GIF"})
		return
	}

	responses, err := attachAnnotations(h.db, []models.Gif{*gif}, userID)
	if err != nil || len(responses) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load saved GIF"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "GIF saved successfully",
		"gif":     responses[0],
	})
}

// My returns the user's saved GIFs, paginated and annotation-aggregated
// @Summary List saved GIFs
// @Description Get the authenticated user's collection with rating and comment summaries
// @Tags gifs
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Items per page (default 20, max 100)"
// @Param rating query string false "Filter by content rating" Enums(g, pg, pg-13, r)
// @Success 200 {object} PagedGifsResponse
// @Failure 401 {object} map[string]string "Authentication required"
// @Security BearerAuth
// @Router /gifs/my [get]
func (h *Handler) My(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	perPage := 20
	if pp := c.Query("per_page"); pp != "" {
		if parsed, err := strconv.Atoi(pp); err == nil && parsed > 0 && parsed <= 100 {
			perPage = parsed
		}
	}

	countQuery := h.ownedGifs(userID).Model(&models.Gif{})
	listQuery := h.ownedGifs(userID)
	if rating := c.Query("rating"); rating != "" {
		countQuery = countQuery.Where("rating = ?", rating)
		listQuery = listQuery.Where("rating = ?", rating)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch GIFs"})
		return
	}

	var gifList []models.Gif
	err := listQuery.Preload("CreatedBy").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&gifList).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch GIFs"})
		return
	}

	responses, err := attachAnnotations(h.db, gifList, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch GIFs"})
		return
	}

	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage < 1 {
		lastPage = 1
	}

	c.JSON(http.StatusOK, PagedGifsResponse{
		Data:        responses,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	})
}

// Show returns one saved GIF with its annotation summary
// @Summary Get a saved GIF
// @Description Get a single saved GIF with rating and comment summaries
// @Tags gifs
// @Produce json
// @Param id path int true "GIF ID"
// @Success 200 {object} GifResponse
// @Failure 404 {object} map[string]string "GIF not found"
// @Security BearerAuth
// @Router /gifs/{id} [get]
func (h *Handler) Show(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid GIF ID"})
		return
	}

	var gif models.Gif
	if err := h.ownedGifs(userID).Preload("CreatedBy").First(&gif, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "GIF not found"})
		return
	}

	responses, err := attachAnnotations(h.db, []models.Gif{gif}, userID)
	if err != nil || len(responses) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch GIF"})
		return
	}

	c.JSON(http.StatusOK, responses[0])
}

// Sync re-syncs a saved GIF from fresh upstream data. Fields the
// upstream record no longer reports keep their stored values.
// @Summary Re-sync a saved GIF
// @Description Merge fresh upstream data into a saved GIF
// @Tags gifs
// @Accept json
// @Produce json
// @Param id path int true "GIF ID"
// @Param request body SyncGifRequest true "Fresh upstream data"
// @Success 200 {object} GifResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "GIF not found"
// @Security BearerAuth
// @Router /gifs/{id} [put]
func (h *Handler) Sync(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid GIF ID"})
		return
	}

	var req SyncGifRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var gif models.Gif
	if err := h.ownedGifs(userID).First(&gif, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "GIF not found"})
		return
	}

	gif.ApplyGiphyData(&req.GiphyData)

	if err := h.db.Save(&gif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update GIF"})
		return
	}

	responses, err := attachAnnotations(h.db, []models.Gif{gif}, userID)
	if err != nil || len(responses) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch GIF"})
		return
	}

	c.JSON(http.StatusOK, responses[0])
}

// Delete removes a GIF from the user's collection
// @Summary Delete a saved GIF
// @Description Remove a GIF from the authenticated user's collection
// @Tags gifs
// @Produce json
// @Param id path int true "GIF ID"
// @Success 200 {object} map[string]string "GIF removed"
// @Failure 404 {object} map[string]string "GIF not found"
// @Security BearerAuth
// @Router /gifs/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid GIF ID"})
		return
	}

	var gif models.Gif
	if err := h.ownedGifs(userID).First(&gif, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "GIF not found"})
		return
	}

	if err := h.db.Delete(&gif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete GIF"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "GIF removed from your collection"})
}

// CheckSaved reports whether the user has already saved a GIF
// @Summary Check if a GIF is saved
// @Description Check whether the authenticated user already saved the given external id
// @Tags gifs
// @Produce json
// @Param giphy_id path string true "External GIF identifier"
// @Success 200 {object} map[string]interface{} "Check result"
// @Security BearerAuth
// @Router /gifs/check/{giphy_id} [get]
func (h *Handler) CheckSaved(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	giphyID := c.Param("giphy_id")

	var gif models.Gif
	if err := h.ownedGifs(userID).Where("giphy_id = ?", giphyID).First(&gif).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"saved": false, "gif": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true, "gif": gif})
}

// Stats summarizes the user's collection
// @Summary Collection statistics
// @Description Totals, rating breakdown and size statistics for the authenticated user's collection
// @Tags gifs
// @Produce json
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Authentication required"
// @Security BearerAuth
// @Router /gifs/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var stats StatsResponse
	stats.ByRating = make(map[string]int64)

	if err := h.ownedGifs(userID).Model(&models.Gif{}).Count(&stats.TotalSaved).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	type ratingCount struct {
		Rating string
		Count  int64
	}
	var byRating []ratingCount
	err := h.ownedGifs(userID).Model(&models.Gif{}).
		Select("rating, COUNT(*) as count").
		Group("rating").
		Scan(&byRating).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	for _, rc := range byRating {
		stats.ByRating[rc.Rating] = rc.Count
	}

	h.ownedGifs(userID).Model(&models.Gif{}).
		Where("author_is_verified = ?", true).
		Count(&stats.WithVerifiedAuthors)

	var totalSize, averageSize float64
	h.ownedGifs(userID).Model(&models.Gif{}).
		Select("COALESCE(SUM(original_size), 0)").Scan(&totalSize)
	h.ownedGifs(userID).Model(&models.Gif{}).
		Select("COALESCE(AVG(original_size), 0)").Scan(&averageSize)

	stats.TotalSize = formatBytes(totalSize)
	stats.AverageSize = formatBytes(averageSize)

	c.JSON(http.StatusOK, stats)
}

// formatBytes renders a byte count as a human-readable base-1024 size,
// rounded to two decimal places. Zero renders as "0 B".
func formatBytes(bytes float64) string {
	if bytes == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB"}
	unit := 0
	for bytes >= 1024 && unit < len(units)-1 {
		bytes /= 1024
		unit++
	}

	rounded := math.Round(bytes*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + units[unit]
}

// RegisterRoutes registers gif collection routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/gifs/save", h.Save)
	rg.GET("/gifs/my", h.My)
	rg.GET("/gifs/stats", h.Stats)
	rg.GET("/gifs/check/:giphy_id", h.CheckSaved)
	rg.GET("/gifs/:id", h.Show)
	rg.PUT("/gifs/:id", h.Sync)
	rg.DELETE("/gifs/:id", h.Delete)
}
