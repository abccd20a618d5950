package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"github.com/desertthunder/discos/internal/shared"
	tu "github.com/desertthunder/discos/internal/testing"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix, key, expected string
	}{
		{"", "catalog.json", "catalog.json"},
		{"discos", "catalog.json", "discos/catalog.json"},
		{"/discos/", "/2026/catalog.csv", "discos/2026/catalog.csv"},
		{"discos", "../../etc/passwd", "discos/etc/passwd"},
	}

	for _, tt := range tests {
		got, err := objectKey(tt.prefix, tt.key)
		if err != nil {
			t.Errorf("objectKey(%q, %q) failed: %v", tt.prefix, tt.key, err)
		}
		if got != tt.expected {
			t.Errorf("objectKey(%q, %q) = %q, expected %q", tt.prefix, tt.key, got, tt.expected)
		}
	}

	if _, err := objectKey("discos", ""); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty key, got %v", err)
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("Local", func(t *testing.T) {
		s, err := New(ctx, shared.ExportConfig{Backend: BackendLocal, Dir: t.TempDir()})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if s.Name() != BackendLocal {
			t.Errorf("expected local backend, got %s", s.Name())
		}
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		if _, err := New(ctx, shared.ExportConfig{Backend: "ftp"}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("S3 Without Bucket", func(t *testing.T) {
		if _, err := New(ctx, shared.ExportConfig{Backend: BackendS3}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("GCS Without Bucket", func(t *testing.T) {
		if _, err := New(ctx, shared.ExportConfig{Backend: BackendGCS}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("Put And List", func(t *testing.T) {
		dir := t.TempDir()
		s, err := NewLocalStorage(dir, "discos")
		if err != nil {
			t.Fatalf("NewLocalStorage failed: %v", err)
		}

		location, err := s.Put(ctx, "catalog.json", strings.NewReader(`[]`))
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		expected := filepath.Join(dir, "discos", "catalog.json")
		if location != expected {
			t.Errorf("expected location %s, got %s", expected, location)
		}
		tu.AssertFileExists(t, expected)
		if content := tu.MustReadFile(t, expected); content != "[]" {
			t.Errorf("expected file content [], got %q", content)
		}

		if _, err := s.Put(ctx, "2026/catalog.csv", strings.NewReader("Record ID\n")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		keys, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(keys) != 2 || keys[0] != "2026/catalog.csv" || keys[1] != "catalog.json" {
			t.Errorf("unexpected keys: %v", keys)
		}
	})

	t.Run("List Empty", func(t *testing.T) {
		s, err := NewLocalStorage(t.TempDir(), "discos")
		if err != nil {
			t.Fatalf("NewLocalStorage failed: %v", err)
		}

		keys, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(keys) != 0 {
			t.Errorf("expected no keys, got %v", keys)
		}
	})

	t.Run("Read Failure", func(t *testing.T) {
		s, err := NewLocalStorage(t.TempDir(), "")
		if err != nil {
			t.Fatalf("NewLocalStorage failed: %v", err)
		}

		if _, err := s.Put(ctx, "broken.json", &tu.FCloser{}); err == nil {
			t.Error("expected error from failing reader")
		}
	})
}

// fakeS3 records uploads and answers ListObjectsV2 with the stored keys
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/xml")
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
		b.WriteString(`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
		b.WriteString(`<Name>exports</Name><IsTruncated>false</IsTruncated>`)
		for p := range f.objects {
			key := strings.TrimPrefix(p, "/exports/")
			b.WriteString("<Contents><Key>" + key + "</Key><Size>1</Size></Contents>")
		}
		b.WriteString(`</ListBucketResult>`)
		w.Write([]byte(b.String()))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string]string{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	s, err := NewS3Storage(shared.ExportConfig{
		Backend:   BackendS3,
		Bucket:    "exports",
		Prefix:    "discos",
		Region:    "us-east-1",
		Endpoint:  server.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	if err != nil {
		t.Fatalf("NewS3Storage failed: %v", err)
	}

	t.Run("Put", func(t *testing.T) {
		location, err := s.Put(ctx, "catalog.json", strings.NewReader(`[{"title":"Dois"}]`))
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		if expected := server.URL + "/exports/discos/catalog.json"; location != expected {
			t.Errorf("expected location %s, got %s", expected, location)
		}

		fake.mu.Lock()
		body := fake.objects["/exports/discos/catalog.json"]
		fake.mu.Unlock()
		if body != `[{"title":"Dois"}]` {
			t.Errorf("unexpected uploaded body %q", body)
		}
	})

	t.Run("List", func(t *testing.T) {
		keys, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(keys) != 1 || keys[0] != "catalog.json" {
			t.Errorf("unexpected keys: %v", keys)
		}
	})
}

func TestGCSStorage(t *testing.T) {
	s, err := NewGCSStorage(context.Background(),
		shared.ExportConfig{Backend: BackendGCS, Bucket: "exports", Prefix: "discos"},
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewGCSStorage failed: %v", err)
	}
	defer s.Close()

	if s.Name() != BackendGCS {
		t.Errorf("expected gcs backend, got %s", s.Name())
	}
	if s.bucket != "exports" || s.prefix != "discos" {
		t.Errorf("unexpected bucket settings: %s %s", s.bucket, s.prefix)
	}
}
