package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that must change together inside one transaction.
type Store interface {
	Users() UserRepository
	Offers() OfferRepository
	Applications() ApplicationRepository
	// WithTransaction runs fn against a Store bound to a single database transaction.
	// Any error returned by fn rolls back every write made through tx.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository {
	return NewUserRepository(s.db)
}

func (s *gormStore) Offers() OfferRepository {
	return NewOfferRepository(s.db)
}

func (s *gormStore) Applications() ApplicationRepository {
	return NewApplicationRepository(s.db)
}

// WithTransaction executes a function within a database transaction.
func (s *gormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx})
	})
}
