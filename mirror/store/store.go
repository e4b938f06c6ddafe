package store

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/webhookdb/mirror/mirror/store/issues"
	"github.com/webhookdb/mirror/mirror/store/repositories"
	"github.com/webhookdb/mirror/mirror/store/users"
)

// Store combines all domain-specific repositories
type Store struct {
	Users        users.Querier
	Issues       issues.Querier
	Repositories repositories.Querier
}

// NewStore creates a new Store with all domain queriers
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{
		Users:        users.New(db),
		Issues:       issues.New(db),
		Repositories: repositories.New(db),
	}
}

// WithTx returns a Store whose queriers all run inside tx.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{
		Users:        s.Users.WithTx(tx),
		Issues:       s.Issues.WithTx(tx),
		Repositories: s.Repositories.WithTx(tx),
	}
}
