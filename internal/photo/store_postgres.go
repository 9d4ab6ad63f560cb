// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photo

import (
	"context"
	"fmt"
	"strings"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/database/schema"
	"github.com/memry/photobook/internal/platform/dberr"
	"github.com/memry/photobook/internal/platform/postgres"
)

const (
	resourcePhoto     = "Photo"
	resourcePhotobook = "Photobook"
)

// PostgresRepository implements [Repository] on orders.photoasset.
type PostgresRepository struct {
	db postgres.PgxPool
}

// NewPostgresRepository creates a photo repository over a pool.
func NewPostgresRepository(db postgres.PgxPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns is the column list matching scanAsset.
var selectColumns = strings.Join(schema.OrdersPhotoAsset.Columns(), ", ")

func (repository *PostgresRepository) Insert(context context.Context, asset *Asset) error {
	table := schema.OrdersPhotoAsset
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`,
		table.Table,
		table.ID, table.PhotobookID, table.StorageID, table.URL, table.Filename,
		table.UploadedAt,
	)

	err := repository.db.QueryRow(context, query,
		asset.ID, asset.PhotobookID, asset.StorageID, asset.URL, asset.Filename,
	).Scan(&asset.UploadedAt)
	if err != nil {
		// The only foreign key on the table is the owning photobook.
		return dberr.WrapResource(err, resourcePhotobook, "insert_photo")
	}
	return nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Asset, error) {
	table := schema.OrdersPhotoAsset
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, selectColumns, table.Table, table.ID)

	asset, err := scanAsset(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.WrapResource(err, resourcePhoto, "get_photo")
	}
	return asset, nil
}

func (repository *PostgresRepository) ListForBook(context context.Context, photobookID string) ([]*Asset, error) {
	table := schema.OrdersPhotoAsset
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s, %s`,
		selectColumns, table.Table, table.PhotobookID, table.UploadedAt, table.ID)

	rows, err := repository.db.Query(context, query, photobookID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_photos")
	}
	defer rows.Close()

	assets := make([]*Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_photo")
		}
		assets = append(assets, asset)
	}

	return assets, dberr.Wrap(rows.Err(), "iterate_photos")
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.OrdersPhotoAsset
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_photo")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourcePhoto)
	}
	return nil
}

func (repository *PostgresRepository) DeleteForBook(context context.Context, photobookID string) (int64, error) {
	table := schema.OrdersPhotoAsset
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.PhotobookID)

	tag, err := repository.db.Exec(context, query, photobookID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_book_photos")
	}
	return tag.RowsAffected(), nil
}

func (repository *PostgresRepository) ListStorageIDs(context context.Context) ([]string, error) {
	table := schema.OrdersPhotoAsset
	query := fmt.Sprintf(`SELECT DISTINCT %s FROM %s ORDER BY %s`, table.StorageID, table.Table, table.StorageID)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_storage_ids")
	}
	defer rows.Close()

	storageIDs := make([]string, 0)
	for rows.Next() {
		var storageID string
		if err := rows.Scan(&storageID); err != nil {
			return nil, dberr.Wrap(err, "scan_storage_id")
		}
		storageIDs = append(storageIDs, storageID)
	}

	return storageIDs, dberr.Wrap(rows.Err(), "iterate_storage_ids")
}

func (repository *PostgresRepository) DeleteAll(context context.Context) (int64, error) {
	tag, err := repository.db.Exec(context, fmt.Sprintf(`DELETE FROM %s`, schema.OrdersPhotoAsset.Table))
	if err != nil {
		return 0, dberr.Wrap(err, "delete_all_photos")
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*Asset, error) {
	asset := &Asset{}
	err := row.Scan(
		&asset.ID, &asset.PhotobookID, &asset.StorageID,
		&asset.URL, &asset.Filename, &asset.UploadedAt,
	)
	return asset, err
}
