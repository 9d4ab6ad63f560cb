// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photobook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/database/schema"
	"github.com/memry/photobook/internal/platform/dberr"
	"github.com/memry/photobook/internal/platform/postgres"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository implements [Repository] on orders.photobook.
type PostgresRepository struct {
	db postgres.PgxPool
}

// NewPostgresRepository creates a photobook repository over a pool.
func NewPostgresRepository(db postgres.PgxPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns is the column list matching scanPhotobook.
var selectColumns = strings.Join(schema.OrdersPhotobook.Columns(), ", ")

// # Writes

func (repository *PostgresRepository) Insert(context context.Context, book *Photobook) error {
	pages, err := encodePages(book.Pages)
	if err != nil {
		return err
	}

	table := schema.OrdersPhotobook
	query, args, err := psql.Insert(table.Table).
		Columns(table.ID, table.ShareID, table.BookTypeID, table.PageOptionID, table.ThemeID, table.Status, table.Pages).
		Values(book.ID, book.ShareID, book.BookTypeID, book.PageOptionID, book.ThemeID, string(book.Status), pages).
		Suffix(fmt.Sprintf("RETURNING %s, %s", table.CreatedAt, table.UpdatedAt)).
		ToSql()
	if err != nil {
		return apperr.Internal(err)
	}

	err = repository.db.QueryRow(context, query, args...).Scan(&book.CreatedAt, &book.UpdatedAt)
	return dberr.WrapResource(err, resourcePhotobook, "insert_photobook")
}

func (repository *PostgresRepository) UpdatePages(context context.Context, id string, pages []Page) error {
	encoded, err := encodePages(pages)
	if err != nil {
		return err
	}

	table := schema.OrdersPhotobook
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		table.Table, table.Pages, table.UpdatedAt, table.ID)

	tag, err := repository.db.Exec(context, query, encoded, id)
	if err != nil {
		return dberr.Wrap(err, "update_pages")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourcePhotobook)
	}
	return nil
}

func (repository *PostgresRepository) UpdateSelections(context context.Context, id string, selections Selections, pages []Page) error {
	table := schema.OrdersPhotobook
	values := map[string]any{
		table.UpdatedAt: sq.Expr("NOW()"),
	}
	if selections.BookTypeID != nil {
		values[table.BookTypeID] = *selections.BookTypeID
	}
	if selections.PageOptionID != nil {
		values[table.PageOptionID] = *selections.PageOptionID
	}
	if selections.ThemeID != nil {
		values[table.ThemeID] = *selections.ThemeID
	}
	if pages != nil {
		encoded, err := encodePages(pages)
		if err != nil {
			return err
		}
		values[table.Pages] = encoded
	}

	query, args, err := psql.Update(table.Table).
		SetMap(values).
		Where(sq.Eq{table.ID: id}).
		ToSql()
	if err != nil {
		return apperr.Internal(err)
	}

	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "update_selections")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourcePhotobook)
	}
	return nil
}

func (repository *PostgresRepository) Transition(context context.Context, id string, from, to Status) (bool, error) {
	table := schema.OrdersPhotobook
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s = $3`,
		table.Table, table.Status, table.UpdatedAt, table.ID, table.Status)

	tag, err := repository.db.Exec(context, query, string(to), id, string(from))
	if err != nil {
		return false, dberr.Wrap(err, "transition_photobook")
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	// No row moved: tell a missing book apart from one in another status.
	var current string
	err = repository.db.QueryRow(context,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, table.Status, table.Table, table.ID), id,
	).Scan(&current)
	if err != nil {
		return false, dberr.WrapResource(err, resourcePhotobook, "get_photobook_status")
	}
	return false, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.OrdersPhotobook
	tag, err := repository.db.Exec(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID), id)
	if err != nil {
		return dberr.Wrap(err, "delete_photobook")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(resourcePhotobook)
	}
	return nil
}

func (repository *PostgresRepository) DeleteAll(context context.Context) (int64, error) {
	tag, err := repository.db.Exec(context, fmt.Sprintf(`DELETE FROM %s`, schema.OrdersPhotobook.Table))
	if err != nil {
		return 0, dberr.Wrap(err, "delete_all_photobooks")
	}
	return tag.RowsAffected(), nil
}

// # Reads

func (repository *PostgresRepository) Get(context context.Context, id string) (*Photobook, error) {
	return repository.getBy(context, schema.OrdersPhotobook.ID, id)
}

func (repository *PostgresRepository) GetByShareID(context context.Context, shareID string) (*Photobook, error) {
	return repository.getBy(context, schema.OrdersPhotobook.ShareID, shareID)
}

func (repository *PostgresRepository) getBy(context context.Context, column, value string) (*Photobook, error) {
	query, args, err := psql.Select(selectColumns).
		From(schema.OrdersPhotobook.Table).
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	book, err := scanPhotobook(repository.db.QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.WrapResource(err, resourcePhotobook, "get_photobook")
	}
	return book, nil
}

func (repository *PostgresRepository) List(context context.Context, offset, limit int) ([]*Photobook, int, error) {
	table := schema.OrdersPhotobook

	var total int
	err := repository.db.QueryRow(context, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table.Table)).Scan(&total)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "count_photobooks")
	}

	query, args, err := psql.Select(selectColumns).
		From(table.Table).
		OrderBy(table.CreatedAt+" DESC", table.ID+" DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_photobooks")
	}
	defer rows.Close()

	books := make([]*Photobook, 0, limit)
	for rows.Next() {
		book, err := scanPhotobook(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_photobook")
		}
		books = append(books, book)
	}

	return books, total, dberr.Wrap(rows.Err(), "iterate_photobooks")
}

// # Helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhotobook(row rowScanner) (*Photobook, error) {
	book := &Photobook{}
	var (
		status string
		pages  []byte
	)

	err := row.Scan(
		&book.ID, &book.ShareID, &book.BookTypeID, &book.PageOptionID,
		&book.ThemeID, &book.CoverDesignID, &status, &pages,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	book.Status = Status(status)
	if err := json.Unmarshal(pages, &book.Pages); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	if book.Pages == nil {
		book.Pages = []Page{}
	}
	for i := range book.Pages {
		if book.Pages[i].Photos == nil {
			book.Pages[i].Photos = []PagePhoto{}
		}
		if book.Pages[i].Texts == nil {
			book.Pages[i].Texts = []PageText{}
		}
	}
	return book, nil
}

func encodePages(pages []Page) ([]byte, error) {
	if pages == nil {
		pages = []Page{}
	}
	encoded, err := json.Marshal(pages)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("encode pages: %w", err))
	}
	return encoded, nil
}
