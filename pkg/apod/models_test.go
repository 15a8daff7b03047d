package apod

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		want      string
	}{
		{"image", "image", MediaTypeImage},
		{"video", "video", MediaTypeVideo},
		{"empty", "", MediaTypeOther},
		{"unknown value", "interactive", MediaTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{MediaType: tt.mediaType}
			assert.Equal(t, tt.want, r.Kind())
		})
	}
}

func TestImageURL(t *testing.T) {
	t.Run("image prefers HD variant", func(t *testing.T) {
		r := Record{
			MediaType: MediaTypeImage,
			URL:       "https://apod.nasa.gov/apod/image/small.jpg",
			HDURL:     "https://apod.nasa.gov/apod/image/big.jpg",
		}
		assert.Equal(t, r.HDURL, r.ImageURL())
	})

	t.Run("image falls back to standard URL", func(t *testing.T) {
		r := Record{
			MediaType: MediaTypeImage,
			URL:       "https://apod.nasa.gov/apod/image/small.jpg",
		}
		assert.Equal(t, r.URL, r.ImageURL())
	})

	t.Run("video uses thumbnail", func(t *testing.T) {
		r := Record{
			MediaType: MediaTypeVideo,
			URL:       "https://www.youtube.com/embed/xyz",
			Thumbnail: "https://img.youtube.com/vi/xyz/0.jpg",
		}
		assert.Equal(t, r.Thumbnail, r.ImageURL())
	})

	t.Run("video without thumbnail yields nothing", func(t *testing.T) {
		r := Record{
			MediaType: MediaTypeVideo,
			URL:       "https://www.youtube.com/embed/xyz",
		}
		assert.Equal(t, "", r.ImageURL())
	})

	t.Run("other media yields nothing", func(t *testing.T) {
		r := Record{MediaType: "interactive", URL: "https://example.com/page"}
		assert.Equal(t, "", r.ImageURL())
	})
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			"extension from URL",
			Record{Date: "2023-10-01", MediaType: MediaTypeImage, URL: "https://apod.nasa.gov/apod/image/pic.png"},
			"2023-10-01.png",
		},
		{
			"query string ignored",
			Record{Date: "2023-10-01", MediaType: MediaTypeImage, URL: "https://example.com/pic.gif?size=large"},
			"2023-10-01.gif",
		},
		{
			"no extension defaults to jpg",
			Record{Date: "2023-10-01", MediaType: MediaTypeImage, URL: "https://example.com/picture"},
			"2023-10-01.jpg",
		},
		{
			"no image URL defaults to jpg",
			Record{Date: "2023-10-01", MediaType: MediaTypeVideo},
			"2023-10-01.jpg",
		},
		{
			"overlong extension defaults to jpg",
			Record{Date: "2023-10-01", MediaType: MediaTypeImage, URL: "https://example.com/pic.toolong"},
			"2023-10-01.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Filename())
		})
	}
}
