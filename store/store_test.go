package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarayu-uu/22STUCHH010195/clock"
	"github.com/sarayu-uu/22STUCHH010195/model"
	"github.com/sarayu-uu/22STUCHH010195/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.Memory, *clock.Mock) {
	t.Helper()
	backend := storage.NewMemory()
	clk := clock.NewMock(time.Date(2025, 7, 23, 12, 0, 0, 0, time.UTC))
	return New(backend, clk), backend, clk
}

func record(id, code string, createdAt time.Time, validityMinutes int) model.URLRecord {
	return model.URLRecord{
		ID:              id,
		OriginalURL:     "https://example.com",
		ShortCode:       code,
		CreatedAt:       createdAt,
		ExpiresAt:       createdAt.Add(time.Duration(validityMinutes) * time.Minute),
		ValidityMinutes: validityMinutes,
		Clicks:          []model.ClickEvent{},
	}
}

func TestSave_UpsertsByID(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	first := record("id-1", "abc123", clk.Now(), 30)
	require.NoError(t, st.Save(ctx, first))

	other := record("id-2", "def456", clk.Now(), 30)
	require.NoError(t, st.Save(ctx, other))

	// Replacing id-1 must preserve id-2.
	first.OriginalURL = "https://example.org"
	require.NoError(t, st.Save(ctx, first))

	records := st.GetAll(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "https://example.org", records[0].OriginalURL)
	assert.Equal(t, "def456", records[1].ShortCode)
}

func TestGetAll_CorruptStorageReturnsEmpty(t *testing.T) {
	st, backend, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, backend.Store(ctx, []byte("{not json")))

	records := st.GetAll(ctx)
	assert.Empty(t, records)
}

func TestGetAll_RevivesTimestamps(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	created := clk.Now()
	rec := record("id-1", "abc123", created, 45)
	rec.Clicks = append(rec.Clicks, model.ClickEvent{
		Timestamp: created.Add(time.Minute),
		Referrer:  model.DirectReferrer,
		UserAgent: "test-agent",
	})
	require.NoError(t, st.Save(ctx, rec))

	records := st.GetAll(ctx)
	require.Len(t, records, 1)

	// Same instant after the serialization round trip, regardless of
	// the string representation.
	assert.True(t, records[0].CreatedAt.Equal(created))
	assert.True(t, records[0].ExpiresAt.Equal(created.Add(45*time.Minute)))
	require.Len(t, records[0].Clicks, 1)
	assert.True(t, records[0].Clicks[0].Timestamp.Equal(created.Add(time.Minute)))
}

func TestGetByShortCode_LazyExpiryFlipIsPersisted(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("id-1", "abc123", clk.Now(), 1)))

	got := st.GetByShortCode(ctx, "abc123")
	require.NotNil(t, got)
	assert.False(t, got.IsExpired)

	clk.Advance(61 * time.Second)

	got = st.GetByShortCode(ctx, "abc123")
	require.NotNil(t, got)
	assert.True(t, got.IsExpired)

	// The flip was written back, not just computed.
	records := st.GetAll(ctx)
	require.Len(t, records, 1)
	assert.True(t, records[0].IsExpired)
}

func TestGetByShortCode_ExpiryNeverReverts(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("id-1", "abc123", clk.Now(), 1)))
	clk.Advance(2 * time.Minute)
	require.NotNil(t, st.GetByShortCode(ctx, "abc123"))

	// Even if the clock moved backwards the persisted flag stays.
	clk.Set(clk.Now().Add(-10 * time.Minute))
	got := st.GetByShortCode(ctx, "abc123")
	require.NotNil(t, got)
	assert.True(t, got.IsExpired)
}

func TestGetByShortCode_Unknown(t *testing.T) {
	st, _, _ := newTestStore(t)
	assert.Nil(t, st.GetByShortCode(context.Background(), "doesnotexist"))
}

func TestAddClick_AppendsAndPersists(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("id-1", "abc123", clk.Now(), 30)))

	click := model.ClickEvent{
		Timestamp: clk.Now(),
		Referrer:  "https://referrer.example",
		UserAgent: "test-agent",
		Geolocation: model.Geolocation{
			Country: "Germany", City: "Berlin", IP: "192.168.1.3",
		},
	}

	recorded, err := st.AddClick(ctx, "abc123", click)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = st.AddClick(ctx, "abc123", click)
	require.NoError(t, err)
	assert.True(t, recorded)

	got := st.GetByShortCode(ctx, "abc123")
	require.NotNil(t, got)
	assert.Len(t, got.Clicks, 2)
	assert.Equal(t, "Berlin", got.Clicks[0].Geolocation.City)
}

func TestAddClick_DroppedForExpiredAndMissing(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("id-1", "abc123", clk.Now(), 1)))
	clk.Advance(2 * time.Minute)

	recorded, err := st.AddClick(ctx, "abc123", model.ClickEvent{Timestamp: clk.Now()})
	require.NoError(t, err)
	assert.False(t, recorded)

	recorded, err = st.AddClick(ctx, "doesnotexist", model.ClickEvent{Timestamp: clk.Now()})
	require.NoError(t, err)
	assert.False(t, recorded)

	got := st.GetByShortCode(ctx, "abc123")
	require.NotNil(t, got)
	assert.Empty(t, got.Clicks)
}

func TestCodeExists_IncludesExpiredRecords(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("id-1", "abc123", clk.Now(), 1)))
	clk.Advance(2 * time.Minute)

	// Expired but not yet swept: the code stays taken.
	assert.True(t, st.CodeExists(ctx, "abc123"))
	assert.False(t, st.CodeExists(ctx, "def456"))
}

func TestSweepExpired_RemovesOnlyExpired(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("id-1", "old111", clk.Now(), 1)))
	require.NoError(t, st.Save(ctx, record("id-2", "new222", clk.Now(), 60)))
	clk.Advance(5 * time.Minute)

	require.NoError(t, st.SweepExpired(ctx))

	records := st.GetAll(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, "new222", records[0].ShortCode)
	assert.False(t, st.CodeExists(ctx, "old111"))
}

func TestSweepExpired_Idempotent(t *testing.T) {
	st, _, clk := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("id-1", "old111", clk.Now(), 1)))
	require.NoError(t, st.Save(ctx, record("id-2", "new222", clk.Now(), 60)))
	clk.Advance(5 * time.Minute)

	require.NoError(t, st.SweepExpired(ctx))
	after := st.GetAll(ctx)

	require.NoError(t, st.SweepExpired(ctx))
	again := st.GetAll(ctx)

	assert.Equal(t, after, again)
}

func TestPersistedFormIsAJSONArray(t *testing.T) {
	st, backend, clk := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, record("id-1", "abc123", clk.Now(), 30)))

	data, err := backend.Load(ctx)
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)

	// Timestamps serialize as RFC3339 strings.
	createdAt, ok := raw[0]["createdAt"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, createdAt)
	assert.NoError(t, err)
}
