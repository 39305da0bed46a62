package postgres

import (
	"context"
	"database/sql"

	"github.com/pubfit/membership-api/internal/core/ports"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repositories struct {
	users         *UserRepository
	registrations *RegistrationRepository
	nutrition     *NutritionRepository
}

func bind(db DBTX) repositories {
	return repositories{
		users:         NewUserRepository(db),
		registrations: NewRegistrationRepository(db),
		nutrition:     NewNutritionRepository(db),
	}
}

func (r repositories) Users() ports.UserRepository                 { return r.users }
func (r repositories) Registrations() ports.RegistrationRepository { return r.registrations }
func (r repositories) Nutrition() ports.NutritionRepository        { return r.nutrition }

// Store implements ports.Store on a Postgres pool.
type Store struct {
	repositories
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{repositories: bind(db), db: db}
}

// WithinTx runs fn with repositories bound to one transaction. It commits when
// fn returns nil and rolls back on error or panic; panics are rethrown.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.Repositories) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin tx", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = storageErr("commit tx", cerr)
		}
	}()

	err = fn(ctx, bind(tx))
	return err
}

var _ ports.Store = (*Store)(nil)
