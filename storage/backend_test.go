package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// runBackendContract exercises the Load/Store contract every backend
// must honor: empty on first read, write visibility, overwrite.
func runBackendContract(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	data, err := backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load() on empty backend error = %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("Load() on empty backend = %q, want empty", data)
	}

	first := []byte(`[{"shortCode":"abc123"}]`)
	if err := backend.Store(ctx, first); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	data, err = backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(data) != string(first) {
		t.Errorf("Load() = %q, want %q", data, first)
	}

	second := []byte(`[]`)
	if err := backend.Store(ctx, second); err != nil {
		t.Fatalf("Store() overwrite error = %v", err)
	}

	data, err = backend.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after overwrite error = %v", err)
	}
	if string(data) != string(second) {
		t.Errorf("Load() after overwrite = %q, want %q", data, second)
	}
}

func TestMemoryBackend(t *testing.T) {
	backend := NewMemory()
	defer backend.Close()
	runBackendContract(t, backend)
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	backend := NewFile(path)
	defer backend.Close()
	runBackendContract(t, backend)
}

func TestFileBackend_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.json")

	backend := NewFile(path)
	payload := []byte(`[{"shortCode":"persist"}]`)
	if err := backend.Store(ctx, payload); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	backend.Close()

	reopened := NewFile(path)
	defer reopened.Close()
	data, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("Load() after reopen = %q, want %q", data, payload)
	}
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	backend, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	defer backend.Close()
	runBackendContract(t, backend)
}

func TestRedisBackend(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	backend := NewRedis(client, "url_shortener_data")
	runBackendContract(t, backend)
}
