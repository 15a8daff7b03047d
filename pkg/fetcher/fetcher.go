// Package fetcher orchestrates the fetch pipeline: query the APOD API,
// merge metadata into the record store, and download the picture files.
package fetcher

import (
	"errors"
	"fmt"
	"io"
	"time"

	"apodsaver/pkg/apod"
	"apodsaver/pkg/auth"
	"apodsaver/pkg/config"
	apoderrors "apodsaver/pkg/errors"
	"apodsaver/pkg/logger"
	"apodsaver/pkg/ratelimit"
	"apodsaver/pkg/storage"
	"apodsaver/pkg/store"
)

// ErrEmptyStore is returned by FetchSinceLast when there is no previous
// record to resume from.
var ErrEmptyStore = errors.New("no previous records in store, fetch a single day first")

// APODClient is the remote API surface the fetcher needs.
type APODClient interface {
	Get(date string) (*apod.Record, error)
	Today() (*apod.Record, error)
	Range(start, end string) ([]*apod.Record, error)
	Random(count int) ([]*apod.Record, error)
	DownloadImage(url string) (io.ReadCloser, error)
}

// Result summarizes one fetch pass.
type Result struct {
	Fetched int // new records merged into the store
	Skipped int // records already present
	Failed  int // image downloads that failed
	Errors  []error
}

// Fetcher coordinates the API client, the record store and the image
// directory for a single run.
type Fetcher struct {
	client      APODClient
	store       *store.Store
	images      *storage.Manager
	rateLimiter ratelimit.Limiter
	config      *config.Config
	logger      logger.Logger
}

// New creates a Fetcher from config, resolving the API key through the
// credential chain when the config does not carry one.
func New(cfg *config.Config) (*Fetcher, error) {
	log := logger.GetLogger()

	apiKey := cfg.APOD.APIKey
	if apiKey == "" {
		if mgr, err := auth.NewManager(); err == nil {
			if cred, err := mgr.RetrieveDefault(); err == nil {
				apiKey = cred.APIKey
			}
		}
	}
	if apiKey == "" {
		log.WithField("quota", ratelimit.DemoKeyHourlyQuota).
			Warn("no API key configured, falling back to DEMO_KEY")
		apiKey = "DEMO_KEY"
	}

	client := apod.NewClient(cfg.APOD.BaseURL, apiKey, cfg.APOD.Timeout, cfg.APOD.Thumbs, log)

	recordStore, err := store.Load(cfg.Store.Path, log)
	if err != nil {
		return nil, err
	}

	images, err := storage.NewManager(cfg.Output.ImageDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image directory: %w", err)
	}

	rateLimiter := ratelimit.NewHourlyQuota(cfg.RateLimit.RequestsPerHour)

	return &Fetcher{
		client:      client,
		store:       recordStore,
		images:      images,
		rateLimiter: rateLimiter,
		config:      cfg,
		logger:      log,
	}, nil
}

// NewWithComponents wires a Fetcher from explicit parts. Used by tests.
func NewWithComponents(client APODClient, recordStore *store.Store, images *storage.Manager, limiter ratelimit.Limiter, cfg *config.Config, log logger.Logger) *Fetcher {
	return &Fetcher{
		client:      client,
		store:       recordStore,
		images:      images,
		rateLimiter: limiter,
		config:      cfg,
		logger:      log,
	}
}

// Store exposes the underlying record store.
func (f *Fetcher) Store() *store.Store {
	return f.store
}

// Images exposes the underlying image manager.
func (f *Fetcher) Images() *storage.Manager {
	return f.images
}

// FetchDate fetches the picture for a single date.
func (f *Fetcher) FetchDate(date string) (*Result, error) {
	if !apod.IsValidDate(date) {
		return nil, apod.ErrInvalidDate
	}

	// Dedup before touching the network at all
	if f.skippable(date) {
		f.logger.InfoWithFields("record already stored, skipping", map[string]interface{}{
			"date": date,
		})
		return &Result{Skipped: 1}, nil
	}

	f.rateLimiter.Wait()
	record, err := f.client.Get(date)
	if err != nil {
		return nil, err
	}

	return f.process([]*apod.Record{record})
}

// FetchToday fetches today's picture.
func (f *Fetcher) FetchToday() (*Result, error) {
	f.rateLimiter.Wait()
	record, err := f.client.Today()
	if err != nil {
		return nil, err
	}

	return f.process([]*apod.Record{record})
}

// FetchRange fetches all pictures between start and end inclusive.
func (f *Fetcher) FetchRange(start, end string) (*Result, error) {
	f.rateLimiter.Wait()
	records, err := f.client.Range(start, end)
	if err != nil {
		return nil, err
	}

	return f.process(records)
}

// FetchRandom fetches count randomly chosen pictures.
func (f *Fetcher) FetchRandom(count int) (*Result, error) {
	f.rateLimiter.Wait()
	records, err := f.client.Random(count)
	if err != nil {
		return nil, err
	}

	return f.process(records)
}

// FetchSinceLast fetches every day after the most recent stored record up
// to today. Returns ErrEmptyStore when nothing has been fetched before.
func (f *Fetcher) FetchSinceLast() (*Result, error) {
	latest, ok := f.store.Latest()
	if !ok {
		return nil, ErrEmptyStore
	}

	today := apod.Today()
	if latest >= today {
		f.logger.Info("store is already up to date")
		return &Result{}, nil
	}

	next, err := time.Parse(apod.DateFormat, latest)
	if err != nil {
		return nil, fmt.Errorf("%w: bad date in store: %q", store.ErrCorruptStore, latest)
	}
	start := next.AddDate(0, 0, 1).Format(apod.DateFormat)

	f.logger.InfoWithFields("resuming from last stored record", map[string]interface{}{
		"last":  latest,
		"start": start,
		"end":   today,
	})

	return f.FetchRange(start, today)
}

// process runs the dedup pass over fetched records, downloads images and
// persists the store after every merge.
func (f *Fetcher) process(records []*apod.Record) (*Result, error) {
	result := &Result{}

	for _, record := range records {
		if record == nil || record.Date == "" {
			continue
		}

		if f.skippable(record.Date) {
			f.logger.DebugWithFields("record already stored, skipping", map[string]interface{}{
				"date": record.Date,
			})
			result.Skipped++
			continue
		}

		imageErr := f.saveImage(record)
		if imageErr != nil {
			result.Failed++
			result.Errors = append(result.Errors, imageErr)
			f.logger.ErrorWithFields("image download failed", map[string]interface{}{
				"date":  record.Date,
				"error": imageErr.Error(),
			})
			if !f.config.Output.KeepMetadataOnImageFailure {
				continue
			}
		}

		f.store.Merge(*record)
		if err := f.store.Save(); err != nil {
			// A store that cannot be written makes further progress pointless
			return result, fmt.Errorf("failed to save record store: %w", err)
		}

		if imageErr == nil {
			result.Fetched++
			f.logger.InfoWithFields("record saved", map[string]interface{}{
				"date":  record.Date,
				"title": record.Title,
				"media": record.MediaType,
			})
		}
	}

	return result, nil
}

// skippable reports whether a date needs no work this pass.
func (f *Fetcher) skippable(date string) bool {
	if !f.store.Contains(date) {
		return false
	}
	if f.config.Output.VerifyImageFiles && !f.images.Exists(date) {
		// The metadata survived but the file is gone, fetch it again
		if record, ok := f.store.Get(date); ok && record.ImageURL() != "" {
			return false
		}
	}
	return true
}

// saveImage downloads and stores the record's image, if it has one. Videos
// yield their thumbnail when the API provided one.
func (f *Fetcher) saveImage(record *apod.Record) error {
	url := record.ImageURL()
	if url == "" {
		// Nothing downloadable, metadata only
		f.logger.DebugWithFields("record has no downloadable image", map[string]interface{}{
			"date":  record.Date,
			"media": record.MediaType,
		})
		return nil
	}

	if f.images.Exists(record.Date) && !f.config.Output.VerifyImageFiles {
		return nil
	}

	f.rateLimiter.Wait()
	body, err := f.client.DownloadImage(url)
	if err != nil {
		return fmt.Errorf("download failed for %s: %w", record.Date, err)
	}
	defer body.Close()

	if err := f.images.Save(record.Date, record.Filename(), body); err != nil {
		return fmt.Errorf("failed to write image for %s: %w", record.Date, err)
	}

	return nil
}

// IsRetryableFailure reports whether a fetch error was caused by rate
// limiting rather than a permanent condition.
func IsRetryableFailure(err error) bool {
	return apoderrors.IsType(err, apoderrors.ErrorTypeRateLimit)
}
