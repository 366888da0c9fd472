package imagestore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("image not found")

type Image struct {
	ContentType string
	Body        []byte
}

// Store keeps uploaded campaign images under opaque keys.
type Store interface {
	Put(ctx context.Context, key string, img Image) error
	Get(ctx context.Context, key string) (Image, error)
}
