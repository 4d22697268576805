package store

import (
	"errors"

	"gorm.io/gorm"
)

// Store wraps the database handle with the business operations. Constructed
// once at startup and injected into handlers and the assistant.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the raw handle for plain reads in handlers.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
