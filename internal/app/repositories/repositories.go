package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances. These always talk to the
// relational database; catalog and enrollment data go through the storage
// package instead so they can degrade to the local backend.
type Repositories struct {
	UserRepository   *UserRepository
	TokenRepository  *TokenRepository
	ReviewRepository *ReviewRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:   NewUserRepository(db),
		TokenRepository:  NewTokenRepository(db),
		ReviewRepository: NewReviewRepository(db),
	}
}
