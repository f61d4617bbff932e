// Package store is the authoritative keeper of all URL records. Every
// operation round-trips through the serialized durable blob: nothing
// in memory is trusted as a source of truth between calls, so two
// processes sharing a backend always observe each other's completed
// writes (subject to the whole-blob last-writer-wins race noted on
// storage.Backend).
package store

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sarayu-uu/22STUCHH010195/clock"
	"github.com/sarayu-uu/22STUCHH010195/model"
	"github.com/sarayu-uu/22STUCHH010195/storage"
)

// Store reads and writes URL records through a storage backend.
type Store struct {
	backend storage.Backend
	clock   clock.Clock
}

// New creates a Store over the given backend and clock.
func New(backend storage.Backend, clk clock.Clock) *Store {
	return &Store{backend: backend, clock: clk}
}

// load reads and parses the full record set. Read and parse failures
// are logged and degrade to an empty set; read paths favor
// availability over error propagation.
func (s *Store) load(ctx context.Context) []model.URLRecord {
	data, err := s.backend.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("category", "store").Msg("Failed to read record set from storage")
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var records []model.URLRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Error().Err(err).Str("category", "store").Msg("Corrupt record set in storage")
		return nil
	}
	return records
}

// persist serializes and writes the full record set in one operation.
func (s *Store) persist(ctx context.Context, records []model.URLRecord) error {
	if records == nil {
		records = []model.URLRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return s.backend.Store(ctx, data)
}

// GetAll returns every record, expired or not. It never fails: storage
// corruption degrades to an empty set.
func (s *Store) GetAll(ctx context.Context) []model.URLRecord {
	return s.load(ctx)
}

// Save upserts a record by ID: an existing record with the same ID is
// replaced, otherwise the record is appended. All other records are
// preserved.
func (s *Store) Save(ctx context.Context, record model.URLRecord) error {
	records := s.load(ctx)

	replaced := false
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	if err := s.persist(ctx, records); err != nil {
		log.Error().Err(err).Str("category", "store").Str("short_code", record.ShortCode).Msg("Failed to save record")
		return err
	}

	log.Debug().Str("category", "store").Str("short_code", record.ShortCode).Msg("Record saved")
	return nil
}

// GetByShortCode looks a record up by its short code. Expiry is
// detected lazily here: if the record is past its expiry and not yet
// marked, the IsExpired flag is flipped and persisted before the
// record is returned. Returns nil if the code is unknown.
func (s *Store) GetByShortCode(ctx context.Context, code string) *model.URLRecord {
	records := s.load(ctx)

	for i := range records {
		if records[i].ShortCode != code {
			continue
		}
		record := records[i]

		if !record.IsExpired && record.ExpiredAt(s.clock.Now()) {
			record.IsExpired = true
			if err := s.Save(ctx, record); err != nil {
				log.Error().Err(err).Str("category", "store").Str("short_code", code).Msg("Failed to persist expiry flag")
			}
			log.Warn().Str("category", "store").Str("short_code", code).Msg("Accessed expired URL")
		}

		return &record
	}

	return nil
}

// AddClick appends a click to the record owning the code and persists
// it. Clicks against missing or expired codes are dropped; the
// returned recorded flag and error exist for observability, and
// callers on the redirect path ignore both.
func (s *Store) AddClick(ctx context.Context, code string, click model.ClickEvent) (recorded bool, err error) {
	record := s.GetByShortCode(ctx, code)
	if record == nil || record.IsExpired {
		log.Debug().Str("category", "store").Str("short_code", code).Msg("Click dropped")
		return false, nil
	}

	record.Clicks = append(record.Clicks, click)
	if err := s.Save(ctx, *record); err != nil {
		return false, err
	}

	log.Info().Str("category", "store").Str("short_code", code).Int("clicks", len(record.Clicks)).Msg("Click recorded")
	return true, nil
}

// CodeExists reports whether any record, expired or not, holds the
// code. A taken code stays taken until the sweep removes its record.
func (s *Store) CodeExists(ctx context.Context, code string) bool {
	for _, record := range s.load(ctx) {
		if record.ShortCode == code {
			return true
		}
	}
	return false
}

// SweepExpired deletes every record past its expiry, evaluated against
// a single "now", and persists the surviving set in one write. The
// discarded count is reported only through the log.
func (s *Store) SweepExpired(ctx context.Context) error {
	records := s.load(ctx)
	now := s.clock.Now()

	kept := records[:0]
	for _, record := range records {
		if !record.ExpiredAt(now) {
			kept = append(kept, record)
		}
	}

	if err := s.persist(ctx, kept); err != nil {
		log.Error().Err(err).Str("category", "store").Msg("Failed to persist sweep result")
		return err
	}

	log.Info().Str("category", "store").Int("removed", len(records)-len(kept)).Msg("Expired URLs swept")
	return nil
}
