package jsonstorage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"exchange-desk/internal/exchange/data"
	"exchange-desk/pkg/logging"
	"fmt"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	lockSuffix     = ".lock"
	lockRetryDelay = 20 * time.Millisecond
	dirPerm        = 0o755
	filePerm       = 0o644
)

// Storage keeps the whole order collection in one JSON document.
//
// Update is the only read-modify-write entry point: it holds an in-process
// mutex and an advisory lock on <path>.lock, so the intake and bot processes
// cannot interleave their cycles. Writes go to a temp file that is renamed
// over the document, readers never observe a partial write.
type Storage struct {
	path     string
	mux      *sync.Mutex
	fileLock *flock.Flock
	logger   *logging.ZapLogger
}

func New(path string, logger *logging.ZapLogger) *Storage {
	return &Storage{
		path:     path,
		mux:      &sync.Mutex{},
		fileLock: flock.New(path + lockSuffix),
		logger:   logger,
	}
}

func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) LoadAll(ctx context.Context) ([]data.Order, error) {
	return s.load(ctx)
}

func (s *Storage) SaveAll(ctx context.Context, orders []data.Order) error {
	return s.Update(ctx, func([]data.Order) ([]data.Order, error) {
		return orders, nil
	})
}

// Update loads the collection, passes it to f and persists what f returns.
// Nothing is written when f fails.
func (s *Storage) Update(ctx context.Context, f func(orders []data.Order) ([]data.Order, error)) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	orders, err := s.load(ctx)
	if err != nil {
		return err
	}
	updated, err := f(orders)
	if err != nil {
		return err
	}
	return s.save(ctx, updated)
}

func (s *Storage) lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	s.mux.Lock()
	locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		s.mux.Unlock()
		return nil, fmt.Errorf("failed to lock storage: %w", err)
	}
	if !locked {
		s.mux.Unlock()
		return nil, fmt.Errorf("failed to lock storage: %s is held by another process", s.fileLock.Path())
	}
	return func() {
		if err := s.fileLock.Unlock(); err != nil {
			s.logger.ErrorCtx(ctx, "failed to unlock storage", zap.Error(err))
		}
		s.mux.Unlock()
	}, nil
}

func (s *Storage) load(ctx context.Context) ([]data.Order, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.DebugCtx(ctx, "storage file does not exist yet", zap.String("path", s.path))
			return make([]data.Order, 0), nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return make([]data.Order, 0), nil
	}
	var orders []data.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return nil, &data.StorageCorruptError{Path: s.path, Err: err}
	}
	if orders == nil {
		orders = make([]data.Order, 0)
	}
	return orders, nil
}

func (s *Storage) save(ctx context.Context, orders []data.Order) error {
	if orders == nil {
		orders = make([]data.Order, 0)
	}
	buf := &bytes.Buffer{}
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(orders); err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.WarnCtx(ctx, "failed to remove temp file", zap.String("path", tmpPath), zap.Error(err))
		}
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		cleanup()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	s.logger.DebugCtx(ctx, "storage saved", zap.String("path", s.path), zap.Int("orders", len(orders)))
	return nil
}
