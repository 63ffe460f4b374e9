package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend persists raw values per namespace and key.
type Backend interface {
	Read(ctx context.Context, namespace, key string) ([]byte, error)
	Write(ctx context.Context, namespace, key string, data []byte) error
	Close() error
}

// Store is a JSON key-value store on top of a Backend. Values are cached
// after the first read or write; the backend is always written through.
type Store struct {
	backend Backend
	cache   sync.Map

	// OnError observes failed reads and writes. Missing keys are not
	// failures.
	OnError func(op string, err error)
}

// New wraps a backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Open builds a store for the configured driver.
func Open(driver, path string) (*Store, error) {
	switch driver {
	case "", "file":
		b, err := NewFileBackend(path)
		if err != nil {
			return nil, err
		}
		return New(b), nil
	case "sqlite":
		b, err := NewSQLiteBackend(path)
		if err != nil {
			return nil, err
		}
		return New(b), nil
	case "memory":
		return New(NewMemoryBackend()), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

// Get decodes the value stored under namespace/key into out.
func (s *Store) Get(ctx context.Context, namespace, key string, out any) error {
	cacheKey := s.cacheKey(namespace, key)
	if cached, ok := s.cache.Load(cacheKey); ok {
		return decode(cached.([]byte), out)
	}

	data, err := s.backend.Read(ctx, namespace, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.fail("get", err)
		}
		return err
	}
	if err := decode(data, out); err != nil {
		s.fail("decode", err)
		return err
	}

	s.cache.Store(cacheKey, data)
	return nil
}

// Set encodes value and writes it synchronously.
func (s *Store) Set(ctx context.Context, namespace, key string, value any) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}

	if err := s.backend.Write(ctx, namespace, key, data); err != nil {
		err = fmt.Errorf("write %s/%s: %w", namespace, key, err)
		s.fail("set", err)
		return err
	}

	s.cache.Store(s.cacheKey(namespace, key), data)
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) fail(op string, err error) {
	if s.OnError != nil {
		s.OnError(op, err)
	}
}

func (s *Store) cacheKey(namespace, key string) string {
	return namespace + ":" + key
}

func decode(data []byte, out any) error {
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to deserialize: %w", err)
	}
	return nil
}
