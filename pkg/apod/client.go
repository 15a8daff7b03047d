package apod

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apierrors "apodsaver/pkg/errors"
	"apodsaver/pkg/logger"
)

// ErrInvalidDate is returned when a requested date is malformed or predates
// the APOD archive
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD and not before 1995-06-16")

// Client is an HTTP client for the NASA APOD API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	apiKey     string
	thumbs     bool
	logger     logger.Logger
}

// NewClient creates a new APOD API client
func NewClient(baseURL, apiKey string, timeout time.Duration, thumbs bool, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": "apodsaver/1.0",
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		thumbs:  thumbs,
		logger:  log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHTTPClient replaces the underlying HTTP client, used by tests
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    redactKey(req.URL.String()),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      redactKey(req.URL.String()),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &apierrors.Error{
			Type:    apierrors.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      redactKey(req.URL.String()),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// get performs a GET request to the specified URL
func (c *Client) get(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, &apierrors.Error{
			Type:    apierrors.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}
	return c.doRequest(req)
}

// getJSON performs a GET request and decodes the JSON response into target
func (c *Client) getJSON(url string, target interface{}) error {
	resp, err := c.get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &apierrors.Error{
			Type:    apierrors.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to decode response: %v", err),
			Code:    resp.StatusCode,
		}
	}

	return nil
}

// statusError converts a non-200 status code into a typed API error
func statusError(code int) error {
	return &apierrors.Error{
		Type:    apierrors.FromStatusCode(code),
		Message: fmt.Sprintf("APOD API returned status %d", code),
		Code:    code,
	}
}

// Get fetches the record for a specific date
func (c *Client) Get(date string) (*Record, error) {
	if !IsValidDate(date) {
		return nil, ErrInvalidDate
	}

	var record Record
	if err := c.getJSON(DateURL(c.baseURL, c.apiKey, date, c.thumbs), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Today fetches the record for the current day
func (c *Client) Today() (*Record, error) {
	var record Record
	if err := c.getJSON(TodayURL(c.baseURL, c.apiKey, c.thumbs), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Range fetches all records between start and end dates, inclusive. An empty
// end date defaults to today on the API side.
func (c *Client) Range(start, end string) ([]*Record, error) {
	if !IsValidDate(start) {
		return nil, ErrInvalidDate
	}
	if end != "" && !IsValidDate(end) {
		return nil, ErrInvalidDate
	}

	c.logger.InfoWithFields("fetching record range", map[string]interface{}{
		"start_date": start,
		"end_date":   end,
	})

	var records []*Record
	if err := c.getJSON(RangeURL(c.baseURL, c.apiKey, start, end, c.thumbs), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Random fetches count randomly chosen records from the archive
func (c *Client) Random(count int) ([]*Record, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	var records []*Record
	if err := c.getJSON(RandomURL(c.baseURL, c.apiKey, count, c.thumbs), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DownloadImage fetches the binary image at url. The caller owns the
// returned reader and must close it.
func (c *Client) DownloadImage(url string) (io.ReadCloser, error) {
	resp, err := c.get(url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, statusError(resp.StatusCode)
	}

	return resp.Body, nil
}
