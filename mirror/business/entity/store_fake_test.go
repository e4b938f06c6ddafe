package entity

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/webhookdb/mirror/mirror/domain"
	"github.com/webhookdb/mirror/mirror/store"
	"github.com/webhookdb/mirror/mirror/store/issues"
	"github.com/webhookdb/mirror/mirror/store/repositories"
	"github.com/webhookdb/mirror/mirror/store/users"
)

// memDB is an in-memory stand-in for the three record tables.
type memDB struct {
	users        map[int64]users.User
	issues       map[int64]issues.Issue
	repositories map[int64]repositories.Repository
	saves        int
}

func newMemDB() *memDB {
	return &memDB{
		users:        map[int64]users.User{},
		issues:       map[int64]issues.Issue{},
		repositories: map[int64]repositories.Repository{},
	}
}

func (m *memDB) clone() *memDB {
	c := newMemDB()
	for k, v := range m.users {
		c.users[k] = v
	}
	for k, v := range m.issues {
		c.issues[k] = v
	}
	for k, v := range m.repositories {
		c.repositories[k] = v
	}
	c.saves = m.saves
	return c
}

func (m *memDB) store() *store.Store {
	return &store.Store{
		Users:        &memUsers{db: m},
		Issues:       &memIssues{db: m},
		Repositories: &memRepositories{db: m},
	}
}

type memUsers struct{ db *memDB }

func (q *memUsers) EnsureUser(ctx context.Context, id int64) error {
	if _, ok := q.db.users[id]; !ok {
		q.db.users[id] = users.User{ID: id}
	}
	return nil
}

func (q *memUsers) GetUser(ctx context.Context, id int64) (users.User, error) {
	u, ok := q.db.users[id]
	if !ok {
		return users.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (q *memUsers) GetUserForUpdate(ctx context.Context, id int64) (users.User, error) {
	return q.GetUser(ctx, id)
}

func (q *memUsers) UpdateUser(ctx context.Context, arg users.User) error {
	q.db.users[arg.ID] = arg
	q.db.saves++
	return nil
}

func (q *memUsers) WithTx(tx pgx.Tx) users.Querier { return q }

type memIssues struct{ db *memDB }

func (q *memIssues) EnsureIssue(ctx context.Context, id int64) error {
	if _, ok := q.db.issues[id]; !ok {
		q.db.issues[id] = issues.Issue{ID: id}
	}
	return nil
}

func (q *memIssues) GetIssue(ctx context.Context, id int64) (issues.Issue, error) {
	i, ok := q.db.issues[id]
	if !ok {
		return issues.Issue{}, pgx.ErrNoRows
	}
	return i, nil
}

func (q *memIssues) GetIssueForUpdate(ctx context.Context, id int64) (issues.Issue, error) {
	return q.GetIssue(ctx, id)
}

func (q *memIssues) UpdateIssue(ctx context.Context, arg issues.Issue) error {
	q.db.issues[arg.ID] = arg
	q.db.saves++
	return nil
}

func (q *memIssues) WithTx(tx pgx.Tx) issues.Querier { return q }

type memRepositories struct{ db *memDB }

func (q *memRepositories) EnsureRepository(ctx context.Context, id int64) error {
	if _, ok := q.db.repositories[id]; !ok {
		q.db.repositories[id] = repositories.Repository{ID: id}
	}
	return nil
}

func (q *memRepositories) GetRepository(ctx context.Context, id int64) (repositories.Repository, error) {
	r, ok := q.db.repositories[id]
	if !ok {
		return repositories.Repository{}, pgx.ErrNoRows
	}
	return r, nil
}

func (q *memRepositories) GetRepositoryForUpdate(ctx context.Context, id int64) (repositories.Repository, error) {
	return q.GetRepository(ctx, id)
}

func (q *memRepositories) UpdateRepository(ctx context.Context, arg repositories.Repository) error {
	q.db.repositories[arg.ID] = arg
	q.db.saves++
	return nil
}

func (q *memRepositories) WithTx(tx pgx.Tx) repositories.Querier { return q }

// memTransactor applies a scope's writes only when the scope succeeds.
type memTransactor struct{ db *memDB }

func (t *memTransactor) WithinTx(ctx context.Context, fn func(st *store.Store) error) error {
	scope := t.db.clone()
	if err := fn(scope.store()); err != nil {
		return err
	}
	*t.db = *scope
	return nil
}

func (t *memTransactor) Batch(ctx context.Context, fn func(tr domain.Transactor) error) error {
	scope := t.db.clone()
	if err := fn(&memTransactor{db: scope}); err != nil {
		return err
	}
	*t.db = *scope
	return nil
}
