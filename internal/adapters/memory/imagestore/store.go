package imagestore

import (
	"context"
	"sync"

	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/imagestore"
)

// Store is an in-memory implementation of imagestore.Store.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[string]imagestore.Image
}

func NewStore() *Store {
	return &Store{m: make(map[string]imagestore.Image)}
}

func (s *Store) Put(ctx context.Context, key string, img imagestore.Image) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = imagestore.Image{ContentType: img.ContentType, Body: append([]byte(nil), img.Body...)}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (imagestore.Image, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.m[key]
	if !ok {
		return imagestore.Image{}, imagestore.ErrNotFound
	}
	return img, nil
}
