package notifications

import "github.com/jackc/pgx/v5/pgxpool"

// Store persists notifications. Queries live in store_data.go; the struct
// exists so the service depends on an interface, not the pool.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}
