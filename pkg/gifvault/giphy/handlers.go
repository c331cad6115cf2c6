package giphy

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler proxies search requests to the external GIF source
type Handler struct {
	client *Client
}

// NewHandler creates a new search handler
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// SearchRequest represents the search query parameters
type SearchRequest struct {
	Query  string `form:"query" binding:"required"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// Search proxies a GIF search to the external source
// @Summary Search GIFs
// @Description Search the external GIF source and return its results
// @Tags gifs
// @Produce json
// @Param query query string true "Search terms"
// @Param limit query int false "Results per page (1-100, default 25)"
// @Param offset query int false "Result offset"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 502 {object} map[string]string "Upstream search failed"
// @Security BearerAuth
// @Router /gifs/search [get]
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Limit == 0 {
		req.Limit = 25
	}

	result, err := h.client.Search(c.Request.Context(), req.Query, req.Limit, req.Offset)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "GIF search is currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers search routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/gifs/search", h.Search)
}
