package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// LocalStorage writes exports below a directory on disk
type LocalStorage struct {
	dir    string
	prefix string
}

// NewLocalStorage creates a LocalStorage rooted at dir, creating it if needed
func NewLocalStorage(dir, prefix string) (*LocalStorage, error) {
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	return &LocalStorage{dir: dir, prefix: prefix}, nil
}

func (s *LocalStorage) Name() string { return BackendLocal }

// Put writes r to dir/prefix/key and returns the file path
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	name, err := objectKey(s.prefix, key)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return target, nil
}

// List returns the keys of all files under dir/prefix, sorted
func (s *LocalStorage) List(ctx context.Context) ([]string, error) {
	root := filepath.Join(s.dir, filepath.FromSlash(listPrefix(s.prefix)))
	keys := []string{}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}
