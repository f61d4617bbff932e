// Package shortener orchestrates the short-code lifecycle: submission
// validation, code generation, record creation, and the
// redirect-plus-click transaction.
package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sarayu-uu/22STUCHH010195/clock"
	"github.com/sarayu-uu/22STUCHH010195/config"
	"github.com/sarayu-uu/22STUCHH010195/geo"
	"github.com/sarayu-uu/22STUCHH010195/model"
	"github.com/sarayu-uu/22STUCHH010195/store"
	"github.com/sarayu-uu/22STUCHH010195/validator"
)

// ClickContext carries the request attributes recorded with a click.
type ClickContext struct {
	Referrer  string
	UserAgent string
	ClientIP  string
}

// Shortener creates, resolves and expires short links.
type Shortener struct {
	store     *store.Store
	validator *validator.Validator
	generator CodeGenerator
	clock     clock.Clock
	geo       geo.Sampler

	defaultValidityMinutes int
	maxGenerateRetries     int
}

// New creates a Shortener with injected storage, code generation,
// clock and geolocation dependencies.
func New(st *store.Store, gen CodeGenerator, clk clock.Clock, sampler geo.Sampler, cfg config.ShortenerConfig) *Shortener {
	return &Shortener{
		store:                  st,
		validator:              validator.New(st),
		generator:              gen,
		clock:                  clk,
		geo:                    sampler,
		defaultValidityMinutes: cfg.DefaultValidityMinutes,
		maxGenerateRetries:     cfg.MaxGenerateRetries,
	}
}

// Shorten validates a submission and persists a new URL record.
// Validation failures come back as a model.ValidationErrors value
// carrying each rejected field.
func (s *Shortener) Shorten(ctx context.Context, data model.Submission) (*model.URLRecord, error) {
	log.Info().Str("category", "shortener").Str("url", data.URL).Msg("Attempting to shorten URL")

	if errs := s.validator.ValidateSubmission(ctx, data); len(errs) > 0 {
		log.Warn().Str("category", "shortener").Str("url", data.URL).Int("errors", len(errs)).Msg("URL shortening failed validation")
		return nil, errs
	}

	shortCode := data.CustomShortCode
	if shortCode == "" {
		code, err := s.generateUniqueCode(ctx)
		if err != nil {
			return nil, err
		}
		shortCode = code
	}

	validityMinutes := s.defaultValidityMinutes
	if data.ValidityMinutes != nil {
		validityMinutes = *data.ValidityMinutes
	}

	createdAt := s.clock.Now()
	record := model.URLRecord{
		ID:              uuid.New().String(),
		OriginalURL:     data.URL,
		ShortCode:       shortCode,
		CreatedAt:       createdAt,
		ExpiresAt:       createdAt.Add(time.Duration(validityMinutes) * time.Minute),
		ValidityMinutes: validityMinutes,
		IsExpired:       false,
		Clicks:          []model.ClickEvent{},
	}

	if err := s.store.Save(ctx, record); err != nil {
		return nil, err
	}

	log.Info().
		Str("category", "shortener").
		Str("url", data.URL).
		Str("short_code", shortCode).
		Int("validity_minutes", validityMinutes).
		Msg("URL shortened")
	return &record, nil
}

// ShortenBatch validates all submissions up front and fails the whole
// batch on any error, creating nothing. Past validation, entries are
// written in input order; a late failure (e.g. a storage error or a
// code-uniqueness race) stops the batch without rolling back records
// already written.
func (s *Shortener) ShortenBatch(ctx context.Context, batch []model.Submission) ([]model.URLRecord, error) {
	log.Info().Str("category", "shortener").Int("count", len(batch)).Msg("Attempting to shorten URL batch")

	if batchErrs := s.validator.ValidateBatch(ctx, batch); len(batchErrs) > 0 {
		log.Warn().Str("category", "shortener").Int("failed", len(batchErrs)).Msg("Batch shortening failed validation")
		return nil, batchErrs
	}

	results := make([]model.URLRecord, 0, len(batch))
	for i, data := range batch {
		record, err := s.Shorten(ctx, data)
		if err != nil {
			log.Error().Err(err).Str("category", "shortener").Int("index", i).Str("url", data.URL).Msg("Batch entry failed after validation")
			return nil, err
		}
		results = append(results, *record)
	}

	log.Info().Str("category", "shortener").Int("count", len(results)).Msg("Batch shortened")
	return results, nil
}

// Redirect resolves a short code to its destination URL and records a
// click. Returns model.ErrNotFound or model.ErrExpired as typed
// failures; a failed click recording never blocks the redirect.
func (s *Shortener) Redirect(ctx context.Context, code string, click ClickContext) (string, error) {
	log.Info().Str("category", "shortener").Str("short_code", code).Msg("Attempting redirect")

	record := s.store.GetByShortCode(ctx, code)
	if record == nil {
		log.Warn().Str("category", "shortener").Str("short_code", code).Msg("Shortcode not found")
		return "", model.ErrNotFound
	}

	if record.IsExpired {
		log.Warn().Str("category", "shortener").Str("short_code", code).Msg("Attempted to access expired shortcode")
		return "", model.ErrExpired
	}

	referrer := click.Referrer
	if referrer == "" {
		referrer = model.DirectReferrer
	}

	event := model.ClickEvent{
		Timestamp:   s.clock.Now(),
		Referrer:    referrer,
		UserAgent:   click.UserAgent,
		Geolocation: s.geo.Locate(ctx, click.ClientIP),
	}

	// Best effort: the redirect proceeds whether or not the click lands.
	if recorded, err := s.store.AddClick(ctx, code, event); err != nil {
		log.Error().Err(err).Str("category", "shortener").Str("short_code", code).Msg("Failed to record click")
	} else if !recorded {
		log.Debug().Str("category", "shortener").Str("short_code", code).Msg("Click not recorded")
	}

	log.Info().Str("category", "shortener").Str("short_code", code).Str("original_url", record.OriginalURL).Msg("Redirecting")
	return record.OriginalURL, nil
}

// Stats returns the full current record set for display. Lookups via
// Redirect flip expiry flags; this read does not.
func (s *Shortener) Stats(ctx context.Context) []model.URLRecord {
	records := s.store.GetAll(ctx)
	log.Info().Str("category", "shortener").Int("count", len(records)).Msg("Retrieved record set")
	return records
}

// StatsByCode returns one record for display, nil if unknown. The
// lookup goes through the store, so an overdue record comes back with
// its expiry flag freshly flipped.
func (s *Shortener) StatsByCode(ctx context.Context, code string) *model.URLRecord {
	record := s.store.GetByShortCode(ctx, code)
	if record == nil {
		log.Warn().Str("category", "shortener").Str("short_code", code).Msg("Stats requested for non-existent shortcode")
	}
	return record
}

// CodeExists reports whether a short code is taken.
func (s *Shortener) CodeExists(ctx context.Context, code string) bool {
	return s.store.CodeExists(ctx, code)
}

// CleanupExpired deletes all currently-expired records.
func (s *Shortener) CleanupExpired(ctx context.Context) error {
	if err := s.store.SweepExpired(ctx); err != nil {
		log.Error().Err(err).Str("category", "shortener").Msg("Failed to clean up expired URLs")
		return err
	}
	log.Info().Str("category", "shortener").Msg("Expired URLs cleanup completed")
	return nil
}

// generateUniqueCode draws codes until one is free, giving up after
// the configured number of attempts. The 62^6 code space makes
// collisions negligible at realistic scales; the cap guards against a
// pathologically full space.
func (s *Shortener) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.maxGenerateRetries; attempt++ {
		code, err := s.generator.Generate()
		if err != nil {
			return "", err
		}
		if !s.store.CodeExists(ctx, code) {
			return code, nil
		}
		log.Warn().
			Str("category", "shortener").
			Str("short_code", code).
			Int("attempt", attempt+1).
			Msg("Collision detected, retrying")
	}
	return "", model.ErrMaxRetriesExceeded
}
