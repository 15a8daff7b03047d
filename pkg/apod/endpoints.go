package apod

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the NASA APOD API endpoint
	DefaultBaseURL = "https://api.nasa.gov/planetary/apod"

	// DateFormat is the date layout the API uses
	DateFormat = "2006-01-02"
)

// firstAPODDate is the day the first picture was published. The API has no
// data before it.
var firstAPODDate = time.Date(1995, 6, 16, 0, 0, 0, 0, time.UTC)

// IsValidDate checks if a date is formatted correctly and falls within the
// range the APOD archive covers
func IsValidDate(date string) bool {
	d, err := time.Parse(DateFormat, date)
	if err != nil {
		return false
	}
	return !d.Before(firstAPODDate)
}

// Today returns the current date in API format
func Today() string {
	return time.Now().Format(DateFormat)
}

// TodayURL constructs the URL for fetching today's record
func TodayURL(baseURL, apiKey string, thumbs bool) string {
	return buildURL(baseURL, apiKey, thumbs, nil)
}

// DateURL constructs the URL for fetching a single date's record
func DateURL(baseURL, apiKey, date string, thumbs bool) string {
	return buildURL(baseURL, apiKey, thumbs, url.Values{"date": {date}})
}

// RangeURL constructs the URL for fetching all records between two dates
// (inclusive). An empty end date lets the API default the range end to today.
func RangeURL(baseURL, apiKey, start, end string, thumbs bool) string {
	params := url.Values{"start_date": {start}}
	if end != "" {
		params.Set("end_date", end)
	}
	return buildURL(baseURL, apiKey, thumbs, params)
}

// RandomURL constructs the URL for fetching count randomly chosen records
func RandomURL(baseURL, apiKey string, count int, thumbs bool) string {
	return buildURL(baseURL, apiKey, thumbs, url.Values{"count": {strconv.Itoa(count)}})
}

func buildURL(baseURL, apiKey string, thumbs bool, extra url.Values) string {
	params := url.Values{}
	params.Set("api_key", apiKey)
	if thumbs {
		params.Set("thumbs", "true")
	}
	for key, values := range extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	return fmt.Sprintf("%s?%s", baseURL, params.Encode())
}

// redactKey replaces the api_key query parameter so request URLs can be
// logged without leaking the credential
func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	params := u.Query()
	if params.Get("api_key") != "" {
		params.Set("api_key", "REDACTED")
		u.RawQuery = params.Encode()
	}
	return u.String()
}
