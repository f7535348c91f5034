package localstore

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

// FileStore is a session.KV persisted as one JSON object. Every change rewrites
// the file through a temporary file and a rename.
type FileStore struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// OpenFileStore loads path, creating its directory when needed. A missing file
// is an empty store. A file that cannot be decoded is moved aside and the store
// starts empty; individual values that are not strings are dropped.
func OpenFileStore(path string, logger *logging.Logger) (*FileStore, error) {
	if path == "" {
		return nil, crerr.New("session file path is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, crerr.Wrapf(err, "create session directory for %q", path)
	}

	s := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, crerr.Wrapf(err, "read session file %q", path)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return s, nil
	}

	var decoded map[string]any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		aside := path + ".corrupt"
		if renameErr := os.Rename(path, aside); renameErr != nil {
			aside = ""
		}
		logger.Warn("session file unreadable, starting empty",
			"path", path,
			"moved_to", aside,
			"error", err,
		)
		return s, nil
	}
	for key, value := range decoded {
		str, ok := value.(string)
		if !ok {
			logger.Warn("drop unreadable session value", "path", path, "key", key)
			continue
		}
		s.values[key] = str
	}

	return s, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.values[key]
	if existed && previous == value {
		return nil
	}
	s.values[key] = value
	if err := s.flushLocked(); err != nil {
		if existed {
			s.values[key] = previous
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.values[key]
	if !existed {
		return nil
	}
	delete(s.values, key)
	if err := s.flushLocked(); err != nil {
		s.values[key] = previous
		return err
	}
	return nil
}

func (s *FileStore) flushLocked() error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(s.values); err != nil {
		return crerr.Wrap(err, "encode session values")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return crerr.Wrap(err, "create temporary session file")
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := buf.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		return crerr.Wrap(err, "write temporary session file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return crerr.Wrap(err, "sync temporary session file")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return crerr.Wrap(err, "close temporary session file")
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		cleanup()
		return crerr.Wrap(err, "chmod temporary session file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return crerr.Wrapf(err, "replace session file %q", s.path)
	}
	return nil
}
