package apod

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"valid date", "2023-10-01", true},
		{"first published day", "1995-06-16", true},
		{"day before the archive starts", "1995-06-15", false},
		{"wrong format", "01-10-2023", false},
		{"not a date", "yesterday", false},
		{"empty", "", false},
		{"month out of range", "2023-13-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDate(tt.date))
		})
	}
}

func TestToday(t *testing.T) {
	today := Today()
	parsed, err := time.Parse(DateFormat, today)
	require.NoError(t, err)
	assert.Equal(t, today, parsed.Format(DateFormat))
}

func TestURLBuilders(t *testing.T) {
	base := DefaultBaseURL
	key := "testkey123"

	t.Run("today URL", func(t *testing.T) {
		u, err := url.Parse(TodayURL(base, key, true))
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, key, q.Get("api_key"))
		assert.Equal(t, "true", q.Get("thumbs"))
		assert.Empty(t, q.Get("date"))
	})

	t.Run("date URL", func(t *testing.T) {
		u, err := url.Parse(DateURL(base, key, "2023-10-01", true))
		require.NoError(t, err)
		assert.Equal(t, "2023-10-01", u.Query().Get("date"))
	})

	t.Run("range URL", func(t *testing.T) {
		u, err := url.Parse(RangeURL(base, key, "2023-10-01", "2023-10-07", true))
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "2023-10-01", q.Get("start_date"))
		assert.Equal(t, "2023-10-07", q.Get("end_date"))
	})

	t.Run("range URL without end date", func(t *testing.T) {
		u, err := url.Parse(RangeURL(base, key, "2023-10-01", "", true))
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "2023-10-01", q.Get("start_date"))
		assert.Empty(t, q.Get("end_date"))
	})

	t.Run("random URL", func(t *testing.T) {
		u, err := url.Parse(RandomURL(base, key, 5, false))
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "5", q.Get("count"))
		assert.Empty(t, q.Get("thumbs"))
	})
}

func TestRedactKey(t *testing.T) {
	raw := DateURL(DefaultBaseURL, "supersecret", "2023-10-01", true)

	redacted := redactKey(raw)
	assert.NotContains(t, redacted, "supersecret")
	assert.Contains(t, redacted, "REDACTED")
	assert.Contains(t, redacted, "2023-10-01")

	// URLs without a key pass through unchanged
	plain := "https://apod.nasa.gov/apod/image/pic.jpg"
	assert.Equal(t, plain, redactKey(plain))

	// Unparseable input is returned as-is rather than mangled
	bad := "http://%zz"
	assert.True(t, strings.HasPrefix(redactKey(bad), "http://"))
}
