// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package postgres implements account.CredentialStore on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/authy/authy/internal/account"
)

// poolIface is the subset of pgxpool.Pool used by Store. It lets unit tests
// substitute pgxmock for a live database.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Store implements account.CredentialStore using PostgreSQL.
type Store struct {
	pool  poolIface
	close func()
}

var _ account.CredentialStore = (*Store)(nil)

// New creates a Store over an existing pool. The caller keeps ownership of the pool.
func New(pool poolIface) *Store {
	return &Store{pool: pool}
}

// Open connects a new pool to dsn. Close releases it.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}
	return &Store{pool: pool, close: pool.Close}, nil
}

// Close releases the pool if the Store opened it. It never fails; the error
// return lets callers treat every store as an io.Closer.
func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	return nil
}

type userRow struct {
	Name     string `db:"name"`
	Email    string `db:"email"`
	Password string `db:"password"`
}

func (r userRow) toUser() (*account.User, error) {
	user, err := account.NewUser(r.Name, r.Email, r.Password)
	if err != nil {
		return nil, oops.Code("USER_ROW_INVALID").
			With("email", r.Email).
			Wrap(err)
	}
	return user, nil
}

// FindUserByEmail retrieves a user by exact email match.
func (s *Store) FindUserByEmail(ctx context.Context, email account.Email) (*account.User, error) {
	query, args, err := psql.Select("name", "email", "password").
		From("users").
		Where(squirrel.Eq{"email": email.String()}).
		ToSql()
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").With("operation", "build select").Wrap(err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, s.pool, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, oops.Code("USER_NOT_FOUND").
				With("email", email.String()).
				Wrap(account.ErrNotFound)
		}
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by email").
			With("email", email.String()).
			Wrap(err)
	}
	return row.toUser()
}

// InsertUser stores a new user.
func (s *Store) InsertUser(ctx context.Context, name account.Name, email account.Email, password account.Password) (*account.User, error) {
	query, args, err := psql.Insert("users").
		Columns("name", "email", "password").
		Values(name.String(), email.String(), password.String()).
		Suffix("RETURNING name, email, password").
		ToSql()
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("operation", "build insert").Wrap(err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, s.pool, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, oops.Code("USER_DUPLICATE").
				With("email", email.String()).
				Wrap(account.ErrConflict)
		}
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("email", email.String()).
			Wrap(err)
	}
	return row.toUser()
}

// ReplaceUserFields merges the non-nil fields into the stored row with one
// UPDATE, so concurrent updates to different fields do not overwrite each other.
func (s *Store) ReplaceUserFields(ctx context.Context, email account.Email, name *account.Name, password *account.Password) (*account.User, error) {
	query, args, err := psql.Update("users").
		Set("name", squirrel.Expr("COALESCE(?, name)", optionalName(name))).
		Set("password", squirrel.Expr("COALESCE(?, password)", optionalPassword(password))).
		Where(squirrel.Eq{"email": email.String()}).
		Suffix("RETURNING name, email, password").
		ToSql()
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").With("operation", "build update").Wrap(err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, s.pool, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, oops.Code("USER_NOT_FOUND").
				With("email", email.String()).
				Wrap(account.ErrNotFound)
		}
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("email", email.String()).
			Wrap(err)
	}
	return row.toUser()
}

// InsertAPIKey stores a key.
func (s *Store) InsertAPIKey(ctx context.Context, key account.APIKey) (account.APIKey, error) {
	query, args, err := psql.Insert("api_keys").
		Columns("api_key").
		Values(key.Bytes()).
		ToSql()
	if err != nil {
		return account.APIKey{}, oops.Code("API_KEY_CREATE_FAILED").With("operation", "build insert").Wrap(err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return account.APIKey{}, oops.Code("API_KEY_CREATE_FAILED").
			With("operation", "insert api key").
			Wrap(err)
	}
	return key, nil
}

// DeleteAPIKey removes a key.
func (s *Store) DeleteAPIKey(ctx context.Context, key account.APIKey) (account.RevocationStatus, error) {
	query, args, err := psql.Delete("api_keys").
		Where(squirrel.Eq{"api_key": key.Bytes()}).
		ToSql()
	if err != nil {
		return account.RevocationNotFound, oops.Code("API_KEY_DELETE_FAILED").With("operation", "build delete").Wrap(err)
	}
	result, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return account.RevocationNotFound, oops.Code("API_KEY_DELETE_FAILED").
			With("operation", "delete api key").
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return account.RevocationNotFound, nil
	}
	return account.Revoked, nil
}

// APIKeyExists reports whether key is stored.
func (s *Store) APIKeyExists(ctx context.Context, key account.APIKey) (bool, error) {
	query, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("api_keys").
		Where(squirrel.Eq{"api_key": key.Bytes()}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, oops.Code("API_KEY_LOOKUP_FAILED").With("operation", "build exists").Wrap(err)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, oops.Code("API_KEY_LOOKUP_FAILED").
			With("operation", "check api key").
			Wrap(err)
	}
	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func optionalName(n *account.Name) any {
	if n == nil {
		return nil
	}
	return n.String()
}

func optionalPassword(p *account.Password) any {
	if p == nil {
		return nil
	}
	return p.String()
}
