// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/photo"
	"github.com/memry/photobook/internal/platform/apperr"
)

var assetColumns = []string{"id", "photobookid", "storageid", "url", "filename", "uploadedat"}

func newRepository(t *testing.T) (*photo.PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return photo.NewPostgresRepository(mock), mock
}

/*
TestPostgresRepository_Insert fills the upload time and maps a missing book.
*/
func TestPostgresRepository_Insert(t *testing.T) {
	repository, mock := newRepository(t)
	uploadedAt := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	asset := &photo.Asset{
		ID:          "0190a6c2-7d44-7b3e-9d1f-cccccccccccc",
		PhotobookID: bookID,
		StorageID:   "uploads/0190a6c2-7d44-7b3e-9d1f-dddddddddddd/a.jpg",
		URL:         "https://blob.test/a.jpg",
		Filename:    "a.jpg",
	}

	mock.ExpectQuery(`INSERT INTO orders\.photoasset`).
		WithArgs(asset.ID, asset.PhotobookID, asset.StorageID, asset.URL, asset.Filename).
		WillReturnRows(pgxmock.NewRows([]string{"uploadedat"}).AddRow(uploadedAt))
	mock.ExpectQuery(`INSERT INTO orders\.photoasset`).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	require.NoError(t, repository.Insert(context.Background(), asset))
	assert.Equal(t, uploadedAt, asset.UploadedAt)

	err := repository.Insert(context.Background(), asset)
	require.Error(t, err)
	assert.Equal(t, "INVALID_REFERENCE", apperr.As(err).Code)
	assert.Equal(t, "Photobook does not exist", err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListForBook(t *testing.T) {
	repository, mock := newRepository(t)
	first := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM orders.photoasset WHERE photobookid = $1 ORDER BY uploadedat, id")).
		WithArgs(bookID).
		WillReturnRows(pgxmock.NewRows(assetColumns).
			AddRow("p1", bookID, "uploads/x/1.jpg", "https://blob.test/1.jpg", "1.jpg", first).
			AddRow("p2", bookID, "uploads/x/2.jpg", "https://blob.test/2.jpg", "2.jpg", first.Add(time.Minute)))

	assets, err := repository.ListForBook(context.Background(), bookID)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "p1", assets[0].ID)
	assert.Equal(t, "2.jpg", assets[1].Filename)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete(t *testing.T) {
	repository, mock := newRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders.photoasset WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repository.Delete(context.Background(), "p1")
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_DeleteForBook(t *testing.T) {
	repository, mock := newRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders.photoasset WHERE photobookid = $1")).
		WithArgs(bookID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	removed, err := repository.DeleteForBook(context.Background(), bookID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListStorageIDs(t *testing.T) {
	repository, mock := newRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT storageid FROM orders.photoasset")).
		WillReturnRows(pgxmock.NewRows([]string{"storageid"}).AddRow("uploads/a/1.jpg").AddRow("uploads/b/2.jpg"))

	ids, err := repository.ListStorageIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/a/1.jpg", "uploads/b/2.jpg"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
