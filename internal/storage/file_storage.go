package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/moodreel/backend/internal/fetcher"
)

// ContentStorage keeps snapshots of fetched catalogs
type ContentStorage interface {
	Save(result *fetcher.FetchResult) error
	Get(url string) (*fetcher.FetchResult, error)
	Close() error
}

// FileStorage implements ContentStorage using the local file system
type FileStorage struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStorage creates a new file-based storage
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{
		baseDir: baseDir,
	}, nil
}

// Save writes the fetch result to a JSON file. The write goes through a
// temporary file so a crash never leaves a truncated snapshot.
func (fs *FileStorage) Save(result *fetcher.FetchResult) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path := filepath.Join(fs.baseDir, safeFilename(result.URL))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// Get retrieves a fetch result from disk
func (fs *FileStorage) Get(url string) (*fetcher.FetchResult, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	path := filepath.Join(fs.baseDir, safeFilename(url))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var result fetcher.FetchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	if result.URL != url {
		return nil, fmt.Errorf("snapshot %s belongs to %s", path, result.URL)
	}

	return &result, nil
}

// Close is a no-op for file storage
func (fs *FileStorage) Close() error {
	return nil
}

// safeFilename maps a URL to a file name: a readable prefix followed by the
// sha256 of the full URL, so distinct URLs never share a file.
func safeFilename(rawURL string) string {
	var b strings.Builder
	for _, r := range rawURL {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	prefix := b.String()
	if len(prefix) > 60 {
		prefix = prefix[:60]
	}
	sum := sha256.Sum256([]byte(rawURL))
	return prefix + "-" + hex.EncodeToString(sum[:]) + ".json"
}
