// Package storage provides the client's durable key-value store. The two
// engines each own a fixed key in it and never touch each other's record.
package storage

import "context"

// Repository is the durable key-value contract the engines persist through.
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
