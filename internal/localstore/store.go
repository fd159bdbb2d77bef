package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/harvestgreens/storefront/pkg/logger"
)

// Well-known keys. The set mirrors what the storefront keeps in durable
// storage across restarts.
const (
	KeyCart            = "cart"
	KeyWishlist        = "wishlist"
	KeyAuthToken       = "auth_token"
	KeyCurrentUser     = "current_user"
	KeyRememberedEmail = "remembered_email"
	KeyDemoUsers       = "demo_users"
)

// Store abstracts durable string-keyed blob storage. A missing key is not an
// error; Get reports presence separately.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[a-z0-9_.-]+$`)

// fileStore keeps one JSON blob file per key under a directory. Writes go
// through a temp file and rename, so a crash mid-write leaves the previous
// value intact. Last writer wins across processes, same as browser storage
// across tabs.
type fileStore struct {
	dir string
	mu  sync.Mutex
}

// Open creates the state directory if needed and returns a file-backed store.
func Open(dir string) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	logger.Debug("Local store opened", map[string]interface{}{
		"dir": dir,
	})
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid store key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *fileStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *fileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush %s: %w", key, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) Close() error {
	return nil
}

// memoryStore is an in-process Store for tests.
type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory returns a Store backed by a map. Useful in tests and anywhere
// persistence across runs is not wanted.
func NewMemory() Store {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (s *memoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.values[key] = cp
	return nil
}

func (s *memoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
