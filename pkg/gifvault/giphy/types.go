package giphy

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexInt decodes from either a JSON number or a numeric string. The
// upstream API reports image dimensions and sizes as quoted strings.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*f = FlexInt(n)
	return nil
}

// ImageVariant is one rendition of a GIF in the upstream images map
type ImageVariant struct {
	URL    *string  `json:"url,omitempty"`
	Width  *FlexInt `json:"width,omitempty"`
	Height *FlexInt `json:"height,omitempty"`
	Size   *FlexInt `json:"size,omitempty"`
	Frames *FlexInt `json:"frames,omitempty"`
	Hash   *string  `json:"hash,omitempty"`
	WebP   *string  `json:"webp,omitempty"`
}

// Images holds the renditions this system stores
type Images struct {
	Original  *ImageVariant `json:"original,omitempty"`
	Downsized *ImageVariant `json:"downsized,omitempty"`
	Still480W *ImageVariant `json:"480w_still,omitempty"`
}

// UserData is the upstream author record attached to a GIF
type UserData struct {
	Username    *string `json:"username,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	ProfileURL  *string `json:"profile_url,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	IsVerified  *bool   `json:"is_verified,omitempty"`
}

// GifData is one search-result record from the upstream API. All fields
// except ID are pointers so an absent field is distinguishable from an
// empty one when merging into a stored record.
type GifData struct {
	ID               string    `json:"id"`
	Type             *string   `json:"type,omitempty"`
	Slug             *string   `json:"slug,omitempty"`
	URL              *string   `json:"url,omitempty"`
	BitlyURL         *string   `json:"bitly_url,omitempty"`
	EmbedURL         *string   `json:"embed_url,omitempty"`
	Title            *string   `json:"title,omitempty"`
	Rating           *string   `json:"rating,omitempty"`
	SourcePostURL    *string   `json:"source_post_url,omitempty"`
	SourceTLD        *string   `json:"source_tld,omitempty"`
	ImportDatetime   *string   `json:"import_datetime,omitempty"`
	TrendingDatetime *string   `json:"trending_datetime,omitempty"`
	Images           Images    `json:"images"`
	User             *UserData `json:"user,omitempty"`
}

// SearchResponse is the upstream search envelope, passed through to
// clients as-is.
type SearchResponse struct {
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination,omitempty"`
	Meta       json.RawMessage `json:"meta,omitempty"`
}
