// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/database/schema"
	"github.com/memry/photobook/internal/platform/dberr"
	"github.com/memry/photobook/internal/platform/postgres"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// bootstrapLockKey serializes concurrent setup requests.
const bootstrapLockKey int64 = 0x6d656d7279

// PostgresRepository implements [Repository] on admin.account.
type PostgresRepository struct {
	db postgres.PgxPool
}

// NewPostgresRepository creates an admin repository over a pool.
func NewPostgresRepository(db postgres.PgxPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var accountColumns = strings.Join(schema.AdminAccount.Columns(), ", ")

func (repository *PostgresRepository) Exists(context context.Context) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s)`, schema.AdminAccount.Table)
	if err := repository.db.QueryRow(context, query).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "admin_exists")
	}
	return exists, nil
}

/*
InsertFirst stores the first admin account.

Description: The insert is guarded by NOT EXISTS and runs under a
transaction-scoped advisory lock, so two concurrent setup requests with
different emails cannot both succeed.
*/
func (repository *PostgresRepository) InsertFirst(context context.Context, account *Account) (bool, error) {
	table := schema.AdminAccount

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return false, dberr.Wrap(err, "begin_bootstrap_tx")
	}
	defer transaction.Rollback(context)

	if _, err := transaction.Exec(context, `SELECT pg_advisory_xact_lock($1)`, bootstrapLockKey); err != nil {
		return false, dberr.Wrap(err, "lock_bootstrap")
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) SELECT $1, $2, $3 WHERE NOT EXISTS (SELECT 1 FROM %s) RETURNING %s, %s`,
		table.Table, table.ID, table.Email, table.PasswordHash, table.Table, table.CreatedAt, table.UpdatedAt)

	err = transaction.QueryRow(context, query, account.ID, account.Email, account.PasswordHash).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, dberr.WrapResource(err, resourceAdmin, "insert_first_admin")
	}

	if err := transaction.Commit(context); err != nil {
		return false, dberr.Wrap(err, "commit_bootstrap")
	}
	return true, nil
}

func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	return repository.findOne(context, sq.Eq{schema.AdminAccount.Email: email})
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Account, error) {
	return repository.findOne(context, sq.Eq{schema.AdminAccount.ID: id})
}

func (repository *PostgresRepository) findOne(context context.Context, where sq.Eq) (*Account, error) {
	query, args, err := psql.Select(accountColumns).
		From(schema.AdminAccount.Table).
		Where(where).
		ToSql()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	account := &Account{}
	err = repository.db.QueryRow(context, query, args...).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, dberr.WrapResource(err, resourceAdmin, "find_admin")
	}
	return account, nil
}

func (repository *PostgresRepository) UpdatePassword(context context.Context, id, passwordHash string) error {
	table := schema.AdminAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		table.Table, table.PasswordHash, table.UpdatedAt, table.ID)

	tag, err := repository.db.Exec(context, query, passwordHash, id)
	if err != nil {
		return dberr.Wrap(err, "update_admin_password")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourceAdmin)
	}
	return nil
}
