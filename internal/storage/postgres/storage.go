package postgres

import (
	"database/sql"
)

type Storage struct {
	db *sql.DB
	*UserRepository
	*RefreshTokenRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		RefreshTokenRepository: NewRefreshTokenRepository(db),
	}
}
