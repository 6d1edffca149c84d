package repositories

import (
	"context"
	"errors"
	"fmt"

	"shop/internal/apperrors"

	"gorm.io/gorm"
)

// Repositories groups the data access objects bound to one connection or
// one transaction.
type Repositories struct {
	Products ProductRepository
	Sales    SaleItemRepository
	Carts    CartRepository
	Orders   OrderRepository
	Users    UserRepository
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Repos() Repositories
	// WithinTx runs fn in one transaction. The transaction is committed when
	// fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// GORMStore is the GORM implementation of Store.
type GORMStore struct {
	db    *gorm.DB
	repos Repositories
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{
		db:    db,
		repos: newRepositories(db),
	}
}

func newRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Products: NewGORMProductRepository(db),
		Sales:    NewGORMSaleItemRepository(db),
		Carts:    NewGORMCartRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Users:    NewGORMUserRepository(db),
	}
}

// Repos returns repositories that run outside of any explicit transaction.
func (s *GORMStore) Repos() Repositories {
	return s.repos
}

// WithinTx runs fn against repositories bound to a single transaction.
func (s *GORMStore) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

// dbError classifies a GORM error into the shared taxonomy while keeping the
// driver error in the chain.
func dbError(err error, format string, args ...any) error {
	op := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, apperrors.ErrPersistence, err)
	}
}
