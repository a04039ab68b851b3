// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

// Package sqlite implements account.CredentialStore on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/samber/oops"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/authy/authy/internal/account"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// busyTimeout lets concurrent writers wait for the file lock instead of failing.
const busyTimeout = "5000"

var sq = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Store implements account.CredentialStore using SQLite.
type Store struct {
	db *sql.DB
}

var _ account.CredentialStore = (*Store)(nil)

// buildDSN appends the connection pragmas to path, keeping any query
// parameters the caller already set.
func buildDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_pragma=busy_timeout(" + busyTimeout + ")&_pragma=journal_mode(WAL)"
}

// Open opens (creating if needed) the database file at path.
// The schema must already be migrated.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(driverName, buildDSN(path))
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("path", path).Wrap(err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // ping error takes precedence
		return nil, oops.Code("DB_CONNECT_FAILED").With("path", path).Wrap(err)
	}
	return &Store{db: db}, nil
}

// New wraps an existing handle. The caller keeps ownership of db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return oops.Code("DB_CLOSE_FAILED").Wrap(err)
	}
	return nil
}

// Ping checks that the database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return oops.Code("DB_PING_FAILED").Wrap(err)
	}
	return nil
}

type userRow struct {
	Name     string `db:"name"`
	Email    string `db:"email"`
	Password string `db:"password"`
}

// FindUserByEmail retrieves a user by exact email match.
func (s *Store) FindUserByEmail(ctx context.Context, email account.Email) (*account.User, error) {
	query, args, err := sq.Select("name", "email", "password").
		From("users").
		Where(squirrel.Eq{"email": email.String()}).
		ToSql()
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").With("operation", "build select").Wrap(err)
	}

	var row userRow
	if err := sqlscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, oops.Code("USER_NOT_FOUND").With("email", email.String()).Wrap(account.ErrNotFound)
		}
		return nil, oops.Code("USER_GET_FAILED").With("email", email.String()).Wrap(err)
	}
	return toUser(row)
}

// InsertUser stores a new user.
func (s *Store) InsertUser(ctx context.Context, name account.Name, email account.Email, password account.Password) (*account.User, error) {
	query, args, err := sq.Insert("users").
		Columns("name", "email", "password").
		Values(name.String(), email.String(), password.String()).
		Suffix("RETURNING name, email, password").
		ToSql()
	if err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("operation", "build insert").Wrap(err)
	}

	var row userRow
	if err := sqlscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if isConstraintViolation(err) {
			return nil, oops.Code("USER_DUPLICATE").With("email", email.String()).Wrap(account.ErrConflict)
		}
		return nil, oops.Code("USER_CREATE_FAILED").With("email", email.String()).Wrap(err)
	}
	return toUser(row)
}

// ReplaceUserFields merges the non-nil fields into the stored row in one statement.
func (s *Store) ReplaceUserFields(ctx context.Context, email account.Email, name *account.Name, password *account.Password) (*account.User, error) {
	var nameArg, passwordArg any
	if name != nil {
		nameArg = name.String()
	}
	if password != nil {
		passwordArg = password.String()
	}

	query, args, err := sq.Update("users").
		Set("name", squirrel.Expr("COALESCE(?, name)", nameArg)).
		Set("password", squirrel.Expr("COALESCE(?, password)", passwordArg)).
		Where(squirrel.Eq{"email": email.String()}).
		Suffix("RETURNING name, email, password").
		ToSql()
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").With("operation", "build update").Wrap(err)
	}

	var row userRow
	if err := sqlscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, oops.Code("USER_NOT_FOUND").With("email", email.String()).Wrap(account.ErrNotFound)
		}
		return nil, oops.Code("USER_UPDATE_FAILED").With("email", email.String()).Wrap(err)
	}
	return toUser(row)
}

// InsertAPIKey stores a key.
func (s *Store) InsertAPIKey(ctx context.Context, key account.APIKey) (account.APIKey, error) {
	query, args, err := sq.Insert("api_keys").Columns("api_key").Values(key.Bytes()).ToSql()
	if err != nil {
		return account.APIKey{}, oops.Code("API_KEY_CREATE_FAILED").With("operation", "build insert").Wrap(err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return account.APIKey{}, oops.Code("API_KEY_CREATE_FAILED").Wrap(err)
	}
	return key, nil
}

// DeleteAPIKey removes a key.
func (s *Store) DeleteAPIKey(ctx context.Context, key account.APIKey) (account.RevocationStatus, error) {
	query, args, err := sq.Delete("api_keys").Where(squirrel.Eq{"api_key": key.Bytes()}).ToSql()
	if err != nil {
		return account.RevocationNotFound, oops.Code("API_KEY_DELETE_FAILED").With("operation", "build delete").Wrap(err)
	}
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return account.RevocationNotFound, oops.Code("API_KEY_DELETE_FAILED").Wrap(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return account.RevocationNotFound, oops.Code("API_KEY_DELETE_FAILED").With("operation", "rows affected").Wrap(err)
	}
	if n == 0 {
		return account.RevocationNotFound, nil
	}
	return account.Revoked, nil
}

// APIKeyExists reports whether key is stored.
func (s *Store) APIKeyExists(ctx context.Context, key account.APIKey) (bool, error) {
	query, args, err := sq.Select("1").
		Prefix("SELECT EXISTS (").
		From("api_keys").
		Where(squirrel.Eq{"api_key": key.Bytes()}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, oops.Code("API_KEY_LOOKUP_FAILED").With("operation", "build exists").Wrap(err)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, oops.Code("API_KEY_LOOKUP_FAILED").Wrap(err)
	}
	return exists, nil
}

func toUser(r userRow) (*account.User, error) {
	user, err := account.NewUser(r.Name, r.Email, r.Password)
	if err != nil {
		return nil, oops.Code("USER_ROW_INVALID").With("email", r.Email).Wrap(err)
	}
	return user, nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	default:
		return false
	}
}
