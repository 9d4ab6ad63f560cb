// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/database/schema"
	"github.com/memry/photobook/internal/platform/dberr"
	"github.com/memry/photobook/internal/platform/postgres"
	"github.com/memry/photobook/pkg/pointer"
)

// psql builds statements with PostgreSQL's $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// kindTables maps each variant to its table. Every catalog table shares the
// id, isactive and updatedat column names.
var kindTables = map[Kind]string{
	KindBookType:      schema.CatalogBookType.Table,
	KindPageOption:    schema.CatalogPageOption.Table,
	KindThemeCategory: schema.CatalogThemeCategory.Table,
	KindTheme:         schema.CatalogTheme.Table,
}

const (
	columnID        = "id"
	columnIsActive  = "isactive"
	columnUpdatedAt = "updatedat"
)

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgresRepository implements [Repository] on PostgreSQL.
type PostgresRepository struct {
	db postgres.PgxPool
}

// NewPostgresRepository creates a catalog repository over a pool.
func NewPostgresRepository(db postgres.PgxPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Book Types

func (repository *PostgresRepository) ListBookTypes(context context.Context, activeOnly bool) ([]*BookType, error) {
	table := schema.CatalogBookType
	builder := psql.Select(table.Columns()...).From(table.Table).
		OrderBy(table.SortOrder, table.CreatedAt, table.ID)
	if activeOnly {
		builder = builder.Where(sq.Eq{table.IsActive: true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_list_book_types")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_book_types")
	}
	defer rows.Close()

	bookTypes := make([]*BookType, 0)
	for rows.Next() {
		bookType, err := scanBookType(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_book_type")
		}
		bookTypes = append(bookTypes, bookType)
	}

	return bookTypes, dberr.Wrap(rows.Err(), "iterate_book_types")
}

func (repository *PostgresRepository) GetBookType(context context.Context, id string) (*BookType, error) {
	table := schema.CatalogBookType
	query, args, err := psql.Select(table.Columns()...).From(table.Table).
		Where(sq.Eq{table.ID: id}).ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_get_book_type")
	}

	bookType, err := scanBookType(repository.db.QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.WrapResource(err, KindBookType.Resource(), "get_book_type")
	}
	return bookType, nil
}

func scanBookType(row rowScanner) (*BookType, error) {
	bookType := &BookType{}
	err := row.Scan(
		&bookType.ID, &bookType.Name, &bookType.AspectRatio, &bookType.Description,
		&bookType.Price, &bookType.ImageURL, &bookType.IsActive, &bookType.Order,
		&bookType.CreatedAt, &bookType.UpdatedAt,
	)
	return bookType, err
}

// # Page Options

func (repository *PostgresRepository) ListPageOptions(context context.Context, activeOnly bool) ([]*PageOption, error) {
	table := schema.CatalogPageOption
	builder := psql.Select(table.Columns()...).From(table.Table).
		OrderBy(table.SortOrder, table.CreatedAt, table.ID)
	if activeOnly {
		builder = builder.Where(sq.Eq{table.IsActive: true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_list_page_options")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_page_options")
	}
	defer rows.Close()

	options := make([]*PageOption, 0)
	for rows.Next() {
		option, err := scanPageOption(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_page_option")
		}
		options = append(options, option)
	}

	return options, dberr.Wrap(rows.Err(), "iterate_page_options")
}

func (repository *PostgresRepository) GetPageOption(context context.Context, id string) (*PageOption, error) {
	table := schema.CatalogPageOption
	query, args, err := psql.Select(table.Columns()...).From(table.Table).
		Where(sq.Eq{table.ID: id}).ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_get_page_option")
	}

	option, err := scanPageOption(repository.db.QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.WrapResource(err, KindPageOption.Resource(), "get_page_option")
	}
	return option, nil
}

func scanPageOption(row rowScanner) (*PageOption, error) {
	option := &PageOption{}
	err := row.Scan(
		&option.ID, &option.PageCount, &option.AdditionalPrice,
		&option.IsActive, &option.Order, &option.CreatedAt, &option.UpdatedAt,
	)
	return option, err
}

// # Theme Categories

func (repository *PostgresRepository) ListThemeCategories(context context.Context, activeOnly bool) ([]*ThemeCategory, error) {
	table := schema.CatalogThemeCategory
	builder := psql.Select(table.Columns()...).From(table.Table).
		OrderBy(table.SortOrder, table.CreatedAt, table.ID)
	if activeOnly {
		builder = builder.Where(sq.Eq{table.IsActive: true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_list_theme_categories")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_theme_categories")
	}
	defer rows.Close()

	categories := make([]*ThemeCategory, 0)
	for rows.Next() {
		category, err := scanThemeCategory(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_theme_category")
		}
		categories = append(categories, category)
	}

	return categories, dberr.Wrap(rows.Err(), "iterate_theme_categories")
}

func (repository *PostgresRepository) GetThemeCategory(context context.Context, id string) (*ThemeCategory, error) {
	table := schema.CatalogThemeCategory
	query, args, err := psql.Select(table.Columns()...).From(table.Table).
		Where(sq.Eq{table.ID: id}).ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_get_theme_category")
	}

	category, err := scanThemeCategory(repository.db.QueryRow(context, query, args...))
	if err != nil {
		return nil, dberr.WrapResource(err, KindThemeCategory.Resource(), "get_theme_category")
	}
	return category, nil
}

func scanThemeCategory(row rowScanner) (*ThemeCategory, error) {
	category := &ThemeCategory{}
	err := row.Scan(
		&category.ID, &category.Name, &category.Description,
		&category.IsActive, &category.Order, &category.CreatedAt, &category.UpdatedAt,
	)
	return category, err
}

// # Themes

func (repository *PostgresRepository) ListThemes(context context.Context, filter ThemeFilter) ([]*Theme, error) {
	table := schema.CatalogTheme
	builder := psql.Select(table.Columns()...).From(table.Table).
		OrderBy(table.SortOrder, table.CreatedAt, table.ID)
	if filter.ActiveOnly {
		builder = builder.Where(sq.Eq{table.IsActive: true})
	}
	if filter.CategoryID != "" {
		builder = builder.Where(sq.Eq{table.CategoryID: filter.CategoryID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_list_themes")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list_themes")
	}
	defer rows.Close()

	themes := make([]*Theme, 0)
	for rows.Next() {
		theme := &Theme{}
		if err := rows.Scan(
			&theme.ID, &theme.CategoryID, &theme.Name, &theme.CoverImageURL,
			&theme.IsActive, &theme.Order, &theme.CreatedAt, &theme.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_theme")
		}
		themes = append(themes, theme)
	}

	return themes, dberr.Wrap(rows.Err(), "iterate_themes")
}

/*
GetTheme reads one theme together with its category.

The category is LEFT JOINed: a theme whose category was deleted is still
returned, with a nil Category.
*/
func (repository *PostgresRepository) GetTheme(context context.Context, id string) (*Theme, error) {
	theme := schema.CatalogTheme
	category := schema.CatalogThemeCategory

	query := fmt.Sprintf(`
		SELECT %s, %s
		FROM %s t
		LEFT JOIN %s c ON c.%s = t.%s
		WHERE t.%s = $1
	`,
		prefixed("t", theme.Columns()), prefixed("c", category.Columns()),
		theme.Table, category.Table,
		category.ID, theme.CategoryID,
		theme.ID,
	)

	result := &Theme{}
	var (
		categoryID          *string
		categoryName        *string
		categoryDescription *string
		categoryIsActive    *bool
		categoryOrder       *int
		categoryCreatedAt   *time.Time
		categoryUpdatedAt   *time.Time
	)

	err := repository.db.QueryRow(context, query, id).Scan(
		&result.ID, &result.CategoryID, &result.Name, &result.CoverImageURL,
		&result.IsActive, &result.Order, &result.CreatedAt, &result.UpdatedAt,
		&categoryID, &categoryName, &categoryDescription,
		&categoryIsActive, &categoryOrder, &categoryCreatedAt, &categoryUpdatedAt,
	)
	if err != nil {
		return nil, dberr.WrapResource(err, KindTheme.Resource(), "get_theme")
	}

	if categoryID != nil {
		result.Category = &ThemeCategory{
			ID:          *categoryID,
			Name:        pointer.Val(categoryName),
			Description: categoryDescription,
			IsActive:    pointer.Val(categoryIsActive),
			Order:       pointer.Val(categoryOrder),
			CreatedAt:   pointer.Val(categoryCreatedAt),
			UpdatedAt:   pointer.Val(categoryUpdatedAt),
		}
	}

	return result, nil
}

// # Generic Mutations

/*
Insert creates a row of the given kind from a validated field set.

Columns absent from the set (isactive, sortorder, additionalprice) take their
database defaults.
*/
func (repository *PostgresRepository) Insert(context context.Context, kind Kind, id string, fields FieldSet) error {
	table, err := tableOf(kind)
	if err != nil {
		return err
	}

	columns := fields.Columns(kind)
	columns[columnID] = id

	query, args, err := psql.Insert(table).SetMap(columns).ToSql()
	if err != nil {
		return dberr.Wrap(err, "build_insert_catalog_item")
	}

	if _, err := repository.db.Exec(context, query, args...); err != nil {
		return dberr.WrapResource(err, kind.Resource(), "insert_catalog_item")
	}
	return nil
}

/*
Update writes exactly the columns present in the field set.

An empty set only verifies that the row exists.

Returns:
  - error: apperr.NotFound if no row carries id
*/
func (repository *PostgresRepository) Update(context context.Context, kind Kind, id string, fields FieldSet) error {
	table, err := tableOf(kind)
	if err != nil {
		return err
	}

	if len(fields) == 0 {
		exists, err := repository.Exists(context, kind, id)
		if err != nil {
			return err
		}
		if !exists {
			return notFound(kind)
		}
		return nil
	}

	// updatedat is bookkeeping, it moves on every field-set write.
	query, args, err := psql.Update(table).
		SetMap(fields.Columns(kind)).
		Set(columnUpdatedAt, sq.Expr("NOW()")).
		Where(sq.Eq{columnID: id}).
		ToSql()
	if err != nil {
		return dberr.Wrap(err, "build_update_catalog_item")
	}

	tag, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.WrapResource(err, kind.Resource(), "update_catalog_item")
	}
	if tag.RowsAffected() == 0 {
		return notFound(kind)
	}
	return nil
}

// Delete removes one row. Nothing cascades.
func (repository *PostgresRepository) Delete(context context.Context, kind Kind, id string) error {
	table, err := tableOf(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, columnID)
	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.WrapResource(err, kind.Resource(), "delete_catalog_item")
	}
	if tag.RowsAffected() == 0 {
		return notFound(kind)
	}
	return nil
}

/*
ToggleActive flips isactive in a single statement and returns the new value.

The row lock taken by UPDATE serializes concurrent toggles, so two calls
always cancel out. updatedat is left alone so the pair restores the row
exactly.
*/
func (repository *PostgresRepository) ToggleActive(context context.Context, kind Kind, id string) (bool, error) {
	table, err := tableOf(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = NOT %s WHERE %s = $1 RETURNING %s`,
		table, columnIsActive, columnIsActive, columnID, columnIsActive)

	var isActive bool
	if err := repository.db.QueryRow(context, query, id).Scan(&isActive); err != nil {
		return false, dberr.WrapResource(err, kind.Resource(), "toggle_catalog_item")
	}
	return isActive, nil
}

func (repository *PostgresRepository) Exists(context context.Context, kind Kind, id string) (bool, error) {
	table, err := tableOf(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table, columnID)

	var exists bool
	if err := repository.db.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "catalog_item_exists")
	}
	return exists, nil
}

func (repository *PostgresRepository) Count(context context.Context, kind Kind) (int, error) {
	table, err := tableOf(kind)
	if err != nil {
		return 0, err
	}

	var count int
	if err := repository.db.QueryRow(context, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_catalog_items")
	}
	return count, nil
}

func (repository *PostgresRepository) DeleteAll(context context.Context, kind Kind) (int64, error) {
	table, err := tableOf(kind)
	if err != nil {
		return 0, err
	}

	tag, err := repository.db.Exec(context, fmt.Sprintf(`DELETE FROM %s`, table))
	if err != nil {
		return 0, dberr.Wrap(err, "delete_all_catalog_items")
	}
	return tag.RowsAffected(), nil
}

// # Helpers

func tableOf(kind Kind) (string, error) {
	table, ok := kindTables[kind]
	if !ok {
		return "", fmt.Errorf("catalog: unknown kind %q", kind)
	}
	return table, nil
}

func notFound(kind Kind) error {
	return apperr.NotFound(kind.Resource())
}

func prefixed(alias string, columns []string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}
