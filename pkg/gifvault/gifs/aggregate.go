package gifs

import (
	"math"

	"github.com/gifvault/gifvault/pkg/gifvault/models"
	"gorm.io/gorm"
)

// GifResponse is a saved GIF with its annotation summary attached. The
// detail view and the collection list both use this shape. Ratings and
// Comments shadow the embedded model fields so unannotated items still
// serialize them as empty arrays rather than dropping the keys.
type GifResponse struct {
	models.Gif
	Ratings       []models.Rating  `json:"ratings"`
	Comments      []models.Comment `json:"comments"`
	RatingsCount  int              `json:"ratings_count"`
	AverageRating *float64         `json:"average_rating"`
	UserRating    *int             `json:"user_rating"`
	HasUserRating bool             `json:"has_user_rating"`
	CommentsCount int              `json:"comments_count"`
	HasComments   bool             `json:"has_comments"`
}

// attachAnnotations loads ratings and comments for the given GIFs and
// merges per-item summaries for the viewing user. Items with no ratings
// get a null average, never a division by zero.
func attachAnnotations(db *gorm.DB, gifs []models.Gif, userID uint) ([]GifResponse, error) {
	responses := make([]GifResponse, 0, len(gifs))
	if len(gifs) == 0 {
		return responses, nil
	}

	giphyIDs := make([]string, len(gifs))
	for i, g := range gifs {
		giphyIDs[i] = g.GiphyID
	}

	var ratings []models.Rating
	if err := db.Where("gif_id IN ?", giphyIDs).Order("created_at ASC").Find(&ratings).Error; err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := db.Where("gif_id IN ?", giphyIDs).Preload("User").Order("created_at ASC").Find(&comments).Error; err != nil {
		return nil, err
	}

	ratingsByGif := make(map[string][]models.Rating)
	for _, r := range ratings {
		ratingsByGif[r.GifID] = append(ratingsByGif[r.GifID], r)
	}
	commentsByGif := make(map[string][]models.Comment)
	for _, cm := range comments {
		commentsByGif[cm.GifID] = append(commentsByGif[cm.GifID], cm)
	}

	for _, g := range gifs {
		itemRatings := ratingsByGif[g.GiphyID]
		if itemRatings == nil {
			itemRatings = []models.Rating{}
		}
		itemComments := commentsByGif[g.GiphyID]
		if itemComments == nil {
			itemComments = []models.Comment{}
		}

		resp := GifResponse{Gif: g}
		resp.Ratings = itemRatings
		resp.Comments = itemComments

		resp.RatingsCount = len(itemRatings)
		if len(itemRatings) > 0 {
			sum := 0
			for _, r := range itemRatings {
				sum += r.Rating
			}
			avg := math.Round(float64(sum)/float64(len(itemRatings))*100) / 100
			resp.AverageRating = &avg
		}

		for _, r := range itemRatings {
			if r.UserID == userID {
				value := r.Rating
				resp.UserRating = &value
				resp.HasUserRating = true
				break
			}
		}

		resp.CommentsCount = len(itemComments)
		resp.HasComments = len(itemComments) > 0

		responses = append(responses, resp)
	}

	return responses, nil
}
