package apod

import (
	"net/url"
	"path"
)

// Media types reported by the APOD API. Anything else is treated as "other".
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeOther = "other"
)

// Record is a single metadata entry from the APOD API, one per calendar date.
// Date is the unique key; the API formats it as YYYY-MM-DD.
type Record struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	URL         string `json:"url,omitempty"`
	HDURL       string `json:"hdurl,omitempty"`
	MediaType   string `json:"media_type"`
	Thumbnail   string `json:"thumbnail_url,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
	Service     string `json:"service_version,omitempty"`
}

// Kind normalizes MediaType to image, video, or other
func (r *Record) Kind() string {
	switch r.MediaType {
	case MediaTypeImage:
		return MediaTypeImage
	case MediaTypeVideo:
		return MediaTypeVideo
	default:
		return MediaTypeOther
	}
}

// ImageURL returns the URL of the downloadable image for this record.
// Image entries prefer the HD variant; video entries fall back to the
// thumbnail the API provides when thumbs is requested. Returns an empty
// string when the record has nothing to download.
func (r *Record) ImageURL() string {
	switch r.Kind() {
	case MediaTypeImage:
		if r.HDURL != "" {
			return r.HDURL
		}
		return r.URL
	case MediaTypeVideo:
		return r.Thumbnail
	default:
		return ""
	}
}

// Filename derives the image file name for this record from its date, so a
// saved file can always be located from the record alone. The extension
// comes from the image URL, defaulting to .jpg when it cannot be determined.
func (r *Record) Filename() string {
	return r.Date + r.imageExt()
}

func (r *Record) imageExt() string {
	raw := r.ImageURL()
	if raw == "" {
		return ".jpg"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ".jpg"
	}

	ext := path.Ext(u.Path)
	if ext == "" || len(ext) > 5 {
		return ".jpg"
	}
	return ext
}
