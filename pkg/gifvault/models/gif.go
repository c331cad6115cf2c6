package models

import (
	"time"

	"github.com/gifvault/gifvault/pkg/gifvault/giphy"
)

// Gif represents a GIF saved from the upstream search API into a user's
// collection. Ratings and comments join on GiphyID, not the numeric ID.
type Gif struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	GiphyID     string    `gorm:"uniqueIndex;not null" json:"giphy_id"`
	CreatedByID *uint     `gorm:"index" json:"created_by"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Type        string    `gorm:"default:gif" json:"type"`
	Rating      string    `gorm:"index;default:g" json:"rating"`
	URL         string    `json:"url"`
	BitlyURL    string    `json:"bitly_url"`
	EmbedURL    string    `json:"embed_url"`

	// Original rendition
	OriginalWidth  *int   `json:"original_width"`
	OriginalHeight *int   `json:"original_height"`
	OriginalSize   *int64 `json:"original_size"`
	OriginalURL    string `json:"original_url"`
	OriginalWebP   string `json:"original_webp"`
	OriginalFrames *int   `json:"original_frames"`
	OriginalHash   string `json:"original_hash"`

	// Downsized rendition for thumbnails
	DownsizedURL    string `json:"downsized_url"`
	DownsizedWidth  *int   `json:"downsized_width"`
	DownsizedHeight *int   `json:"downsized_height"`
	DownsizedSize   *int64 `json:"downsized_size"`

	Still480WURL string `json:"still_480w_url"`

	SourcePostURL string `json:"source_post_url"`
	SourceTLD     string `json:"source_tld"`

	// Author metadata, stored only when the upstream author is verified
	AuthorUsername    string `json:"author_username"`
	AuthorAvatarURL   string `json:"author_avatar_url"`
	AuthorProfileURL  string `json:"author_profile_url"`
	AuthorDisplayName string `json:"author_display_name"`
	AuthorIsVerified  bool   `gorm:"index;default:false" json:"author_is_verified"`

	ImportDatetime   *time.Time `json:"import_datetime"`
	TrendingDatetime *time.Time `json:"trending_datetime"`

	// Relationships
	CreatedBy *User     `gorm:"foreignKey:CreatedByID" json:"user,omitempty"`
	Ratings   []Rating  `gorm:"foreignKey:GifID;references:GiphyID" json:"ratings,omitempty"`
	Comments  []Comment `gorm:"foreignKey:GifID;references:GiphyID" json:"comments,omitempty"`
}

// GifFromGiphyData builds a Gif from an upstream search-result record.
// Missing nested paths become empty strings for URLs and nil for
// numeric fields; author fields are populated only for verified authors.
func GifFromGiphyData(data *giphy.GifData, userID *uint) *Gif {
	g := &Gif{
		GiphyID:     data.ID,
		CreatedByID: userID,
		Title:       strVal(data.Title),
		Slug:        strVal(data.Slug),
		Type:        strDefault(data.Type, "gif"),
		Rating:      strDefault(data.Rating, "g"),
		URL:         strVal(data.URL),
		BitlyURL:    strVal(data.BitlyURL),
		EmbedURL:    strVal(data.EmbedURL),

		SourcePostURL: strVal(data.SourcePostURL),
		SourceTLD:     strVal(data.SourceTLD),

		ImportDatetime:   parseGiphyTime(data.ImportDatetime),
		TrendingDatetime: parseGiphyTime(data.TrendingDatetime),
	}

	if o := data.Images.Original; o != nil {
		g.OriginalWidth = intPtr(o.Width)
		g.OriginalHeight = intPtr(o.Height)
		g.OriginalSize = int64Ptr(o.Size)
		g.OriginalURL = strVal(o.URL)
		g.OriginalWebP = strVal(o.WebP)
		g.OriginalFrames = intPtr(o.Frames)
		g.OriginalHash = strVal(o.Hash)
	}

	if d := data.Images.Downsized; d != nil {
		g.DownsizedURL = strVal(d.URL)
		g.DownsizedWidth = intPtr(d.Width)
		g.DownsizedHeight = intPtr(d.Height)
		g.DownsizedSize = int64Ptr(d.Size)
	}

	if s := data.Images.Still480W; s != nil {
		g.Still480WURL = strVal(s.URL)
	}

	if u := data.User; u != nil {
		verified := u.IsVerified != nil && *u.IsVerified
		g.AuthorIsVerified = verified
		if verified {
			g.AuthorUsername = strVal(u.Username)
			g.AuthorAvatarURL = strVal(u.AvatarURL)
			g.AuthorProfileURL = strVal(u.ProfileURL)
			g.AuthorDisplayName = strVal(u.DisplayName)
		}
	}

	return g
}

// ApplyGiphyData merges fresh upstream data into the record. Fields the
// upstream record omits keep their current stored values.
func (g *Gif) ApplyGiphyData(data *giphy.GifData) {
	g.Title = strOr(data.Title, g.Title)
	g.Slug = strOr(data.Slug, g.Slug)
	g.Type = strOr(data.Type, g.Type)
	g.Rating = strOr(data.Rating, g.Rating)
	g.URL = strOr(data.URL, g.URL)
	g.BitlyURL = strOr(data.BitlyURL, g.BitlyURL)
	g.EmbedURL = strOr(data.EmbedURL, g.EmbedURL)

	if o := data.Images.Original; o != nil {
		g.OriginalWidth = intOr(o.Width, g.OriginalWidth)
		g.OriginalHeight = intOr(o.Height, g.OriginalHeight)
		g.OriginalSize = int64Or(o.Size, g.OriginalSize)
		g.OriginalURL = strOr(o.URL, g.OriginalURL)
		g.OriginalWebP = strOr(o.WebP, g.OriginalWebP)
		g.OriginalFrames = intOr(o.Frames, g.OriginalFrames)
		g.OriginalHash = strOr(o.Hash, g.OriginalHash)
	}

	if d := data.Images.Downsized; d != nil {
		g.DownsizedURL = strOr(d.URL, g.DownsizedURL)
		g.DownsizedWidth = intOr(d.Width, g.DownsizedWidth)
		g.DownsizedHeight = intOr(d.Height, g.DownsizedHeight)
		g.DownsizedSize = int64Or(d.Size, g.DownsizedSize)
	}

	if s := data.Images.Still480W; s != nil {
		g.Still480WURL = strOr(s.URL, g.Still480WURL)
	}

	if u := data.User; u != nil {
		verified := u.IsVerified != nil && *u.IsVerified
		g.AuthorIsVerified = verified
		if verified {
			g.AuthorUsername = strVal(u.Username)
			g.AuthorAvatarURL = strVal(u.AvatarURL)
			g.AuthorProfileURL = strVal(u.ProfileURL)
			g.AuthorDisplayName = strVal(u.DisplayName)
		}
	}

	if t := parseGiphyTime(data.ImportDatetime); t != nil {
		g.ImportDatetime = t
	}
	if t := parseGiphyTime(data.TrendingDatetime); t != nil {
		g.TrendingDatetime = t
	}
}

const giphyTimeLayout = "2006-01-02 15:04:05"

// parseGiphyTime parses the upstream timestamp format. The API uses
// "0000-00-00 00:00:00" for unset timestamps, which fails to parse and
// is treated as absent.
func parseGiphyTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(giphyTimeLayout, *s)
	if err != nil || t.IsZero() {
		return nil
	}
	return &t
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strDefault(p *string, def string) string {
	if p == nil || *p == "" {
		return def
	}
	return *p
}

func strOr(p *string, cur string) string {
	if p == nil {
		return cur
	}
	return *p
}

func intPtr(p *giphy.FlexInt) *int {
	if p == nil {
		return nil
	}
	n := int(*p)
	return &n
}

func int64Ptr(p *giphy.FlexInt) *int64 {
	if p == nil {
		return nil
	}
	n := int64(*p)
	return &n
}

func intOr(p *giphy.FlexInt, cur *int) *int {
	if p == nil {
		return cur
	}
	n := int(*p)
	return &n
}

func int64Or(p *giphy.FlexInt, cur *int64) *int64 {
	if p == nil {
		return cur
	}
	n := int64(*p)
	return &n
}
