// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/admin"
	"github.com/memry/photobook/internal/platform/apperr"
)

const (
	adminID     = "0190a6c2-7d44-7b3e-9d1f-5e6f708192a3"
	insertFirst = "INSERT INTO admin.account (id, email, passwordhash) SELECT $1, $2, $3 WHERE NOT EXISTS (SELECT 1 FROM admin.account) RETURNING createdat, updatedat"
)

func newRepository(t *testing.T) (*admin.PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return admin.NewPostgresRepository(mock), mock
}

func quoted(sql string) string {
	return regexp.QuoteMeta(sql)
}

func TestPostgresRepository_Exists(t *testing.T) {
	repository, mock := newRepository(t)

	mock.ExpectQuery(quoted("SELECT EXISTS (SELECT 1 FROM admin.account)")).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repository.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestPostgresRepository_InsertFirst covers the locked insert and the guard
that keeps a second admin out.
*/
func TestPostgresRepository_InsertFirst(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("empty_table", func(t *testing.T) {
		repository, mock := newRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(quoted("SELECT pg_advisory_xact_lock($1)")).
			WithArgs(pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(quoted(insertFirst)).
			WithArgs(adminID, "owner@memry.app", "hash").
			WillReturnRows(pgxmock.NewRows([]string{"createdat", "updatedat"}).AddRow(created, created))
		mock.ExpectCommit()

		account := &admin.Account{ID: adminID, Email: "owner@memry.app", PasswordHash: "hash"}
		inserted, err := repository.InsertFirst(context.Background(), account)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.Equal(t, created, account.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin_exists", func(t *testing.T) {
		repository, mock := newRepository(t)
		mock.ExpectBegin()
		mock.ExpectExec(quoted("SELECT pg_advisory_xact_lock($1)")).
			WithArgs(pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectQuery(quoted(insertFirst)).
			WithArgs(adminID, "second@memry.app", "hash").
			WillReturnRows(pgxmock.NewRows([]string{"createdat", "updatedat"}))
		mock.ExpectRollback()

		inserted, err := repository.InsertFirst(context.Background(), &admin.Account{ID: adminID, Email: "second@memry.app", PasswordHash: "hash"})
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresRepository_FindByEmail(t *testing.T) {
	repository, mock := newRepository(t)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	columns := []string{"id", "email", "passwordhash", "createdat", "updatedat"}

	mock.ExpectQuery(quoted("SELECT id, email, passwordhash, createdat, updatedat FROM admin.account WHERE email = $1")).
		WithArgs("owner@memry.app").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(adminID, "owner@memry.app", "hash", created, created))

	account, err := repository.FindByEmail(context.Background(), "owner@memry.app")
	require.NoError(t, err)
	assert.Equal(t, adminID, account.ID)
	assert.Equal(t, "hash", account.PasswordHash)

	mock.ExpectQuery(quoted("SELECT id, email, passwordhash, createdat, updatedat FROM admin.account WHERE id = $1")).
		WithArgs(adminID).
		WillReturnRows(pgxmock.NewRows(columns))

	_, err = repository.FindByID(context.Background(), adminID)
	require.Error(t, err)
	assert.Equal(t, "Admin not found", err.Error())
	assert.True(t, apperr.IsNotFound(err))
}

func TestPostgresRepository_UpdatePassword(t *testing.T) {
	repository, mock := newRepository(t)

	mock.ExpectExec(quoted("UPDATE admin.account SET passwordhash = $1, updatedat = NOW() WHERE id = $2")).
		WithArgs("new-hash", adminID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repository.UpdatePassword(context.Background(), adminID, "new-hash")
	assert.True(t, apperr.IsNotFound(err))
}
