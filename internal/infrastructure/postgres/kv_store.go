package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-local/internal/domain/repository"
)

var _ repository.BlobStore = (*KVStore)(nil)

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// KVStore implementación del puerto BlobStore sobre una tabla clave/valor en PostgreSQL.
type KVStore struct {
	q Querier
}

// NewKVStore construye el adaptador. Pasar pool o tx (Querier).
func NewKVStore(q Querier) *KVStore {
	return &KVStore{q: q}
}

// EnsureSchema crea la tabla kv_store si no existe.
func (s *KVStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, kvSchema); err != nil {
		return fmt.Errorf("crear kv_store: %w", err)
	}
	return nil
}

// Get implementa repository.BlobStore.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.q.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get kv %q: %w", key, err)
	}
	return data, true, nil
}

// Set implementa repository.BlobStore (upsert).
func (s *KVStore) Set(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.q.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("set kv %q: %w", key, err)
	}
	return nil
}

// CatalogValue suma precio × stock directamente sobre el catálogo JSON guardado en key.
// El NUMERIC resultante se lee como decimal.Decimal gracias al codec registrado en NewPool.
// Clave ausente o catálogo vacío devuelve cero.
func (s *KVStore) CatalogValue(ctx context.Context, key string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM((e->>'price')::numeric * (e->>'currentStock')::numeric), 0)
		FROM kv_store, jsonb_array_elements(convert_from(value, 'UTF8')::jsonb) AS e
		WHERE key = $1`
	var total decimal.Decimal
	if err := s.q.QueryRow(ctx, query, key).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("valor del catálogo %q: %w", key, err)
	}
	return total, nil
}
