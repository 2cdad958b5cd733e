package repository

import "context"

// BlobStore define el puerto de persistencia clave → bytes (DIP).
// Get devuelve ok=false si la clave no existe. Ambas operaciones son síncronas.
type BlobStore interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
}
