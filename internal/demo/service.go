// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package demo fills an empty installation with a sample catalog and wipes
everything again.

Both operations are admin-only and meant for development and sales demos.
*/
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/platform/apperr"
)

// # Dependencies

// Catalog is the subset of [catalog.Service] used for seeding.
type Catalog interface {
	Count(context context.Context, kind catalog.Kind) (int, error)
	Create(context context.Context, kind catalog.Kind, fields catalog.FieldSet) (any, error)
	Delete(context context.Context, kind catalog.Kind, id string) error
	DeleteAll(context context.Context, kind catalog.Kind) (int64, error)
}

// Deleter empties one table. Satisfied by the photobook service.
type Deleter interface {
	DeleteAll(context context.Context) (int64, error)
}

// Photos removes every photo asset. Satisfied by the photo service.
type Photos interface {
	ClearAll(context context.Context) (int64, error)
}

// # Results

// SeedResult counts the inserted catalog items.
type SeedResult struct {
	BookTypes       int `json:"bookTypes"`
	PageOptions     int `json:"pageOptions"`
	ThemeCategories int `json:"themeCategories"`
	Themes          int `json:"themes"`
}

// ClearResult counts the removed rows per table.
type ClearResult struct {
	Photobooks      int64 `json:"photobooks"`
	Photos          int64 `json:"photos"`
	Themes          int64 `json:"themes"`
	ThemeCategories int64 `json:"themeCategories"`
	PageOptions     int64 `json:"pageOptions"`
	BookTypes       int64 `json:"bookTypes"`
}

// # Service

// Service seeds and clears demo data.
type Service struct {
	seeding sync.Mutex

	catalog Catalog
	books   Deleter
	photos  Photos
	logger  *slog.Logger
}

// NewService constructs a new demo [Service].
func NewService(catalog Catalog, books Deleter, photos Photos, logger *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		books:   books,
		photos:  photos,
		logger:  logger,
	}
}

/*
Seed inserts the sample catalog.

Description: Refuses to run once any book type exists. Items are created
through the catalog service, so they pass the same validation as admin
writes. Seeds are serialized, and a failed seed deletes the items it
already created so the catalog is never left half filled.

Returns:
  - *SeedResult: Inserted counts
  - error: Conflict "Data already seeded"
*/
func (service *Service) Seed(context context.Context) (*SeedResult, error) {
	service.seeding.Lock()
	defer service.seeding.Unlock()

	existing, err := service.catalog.Count(context, catalog.KindBookType)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.Conflict("Data already seeded")
	}

	seed := &seedRun{catalog: service.catalog}
	if err := seed.run(context); err != nil {
		service.rollback(context, seed.created)
		return nil, err
	}

	result := &seed.result
	service.logger.Info("demo_seeded",
		slog.Int("book_types", result.BookTypes),
		slog.Int("page_options", result.PageOptions),
		slog.Int("theme_categories", result.ThemeCategories),
		slog.Int("themes", result.Themes),
	)
	return result, nil
}

// rollback deletes seeded items newest first, so themes go before their category.
func (service *Service) rollback(context context.Context, created []seededItem) {
	for i := len(created) - 1; i >= 0; i-- {
		item := created[i]
		if err := service.catalog.Delete(context, item.kind, item.id); err != nil {
			service.logger.Error("demo_seed_rollback_failed",
				slog.String("kind", string(item.kind)),
				slog.String("id", item.id),
				slog.Any("error", err),
			)
		}
	}
	service.logger.Warn("demo_seed_rolled_back", slog.Int("items", len(created)))
}

// # Seeding

type seededItem struct {
	kind catalog.Kind
	id   string
}

// seedRun records every created item so a failure can be undone.
type seedRun struct {
	catalog Catalog
	created []seededItem
	result  SeedResult
}

func (seed *seedRun) create(context context.Context, kind catalog.Kind, fields catalog.FieldSet) (string, error) {
	created, err := seed.catalog.Create(context, kind, fields)
	if err != nil {
		return "", err
	}

	var id string
	switch item := created.(type) {
	case *catalog.BookType:
		id = item.ID
	case *catalog.PageOption:
		id = item.ID
	case *catalog.ThemeCategory:
		id = item.ID
	case *catalog.Theme:
		id = item.ID
	default:
		return "", apperr.Internal(fmt.Errorf("demo: unexpected %s type %T", kind, created))
	}

	seed.created = append(seed.created, seededItem{kind: kind, id: id})
	return id, nil
}

func (seed *seedRun) run(context context.Context) error {
	for _, fields := range bookTypes {
		if _, err := seed.create(context, catalog.KindBookType, fields); err != nil {
			return err
		}
		seed.result.BookTypes++
	}

	for _, fields := range pageOptions {
		if _, err := seed.create(context, catalog.KindPageOption, fields); err != nil {
			return err
		}
		seed.result.PageOptions++
	}

	for _, group := range themeGroups {
		categoryID, err := seed.create(context, catalog.KindThemeCategory, group.category)
		if err != nil {
			return err
		}
		seed.result.ThemeCategories++

		for _, fields := range group.themes {
			themeFields := catalog.FieldSet{"categoryId": categoryID}
			for name, value := range fields {
				themeFields[name] = value
			}
			if _, err := seed.create(context, catalog.KindTheme, themeFields); err != nil {
				return err
			}
			seed.result.Themes++
		}
	}
	return nil
}

/*
Clear deletes all orders, photos and catalog items.

Description: Photos go first. Their rows cascade with the photobook, and
the storage ids are needed to delete the binaries. A binary that cannot be
deleted is logged and skipped. Catalog tables are emptied children first.

Returns:
  - *ClearResult: Removed rows per table
  - error: Persistence failures
*/
func (service *Service) Clear(context context.Context) (*ClearResult, error) {
	result := &ClearResult{}
	var err error

	if result.Photos, err = service.photos.ClearAll(context); err != nil {
		return nil, err
	}
	if result.Photobooks, err = service.books.DeleteAll(context); err != nil {
		return nil, err
	}

	counts := []struct {
		kind   catalog.Kind
		target *int64
	}{
		{catalog.KindTheme, &result.Themes},
		{catalog.KindThemeCategory, &result.ThemeCategories},
		{catalog.KindPageOption, &result.PageOptions},
		{catalog.KindBookType, &result.BookTypes},
	}
	for _, entry := range counts {
		if *entry.target, err = service.catalog.DeleteAll(context, entry.kind); err != nil {
			return nil, err
		}
	}

	service.logger.Info("demo_cleared",
		slog.Int64("photobooks", result.Photobooks),
		slog.Int64("photos", result.Photos),
		slog.Int64("book_types", result.BookTypes),
	)
	return result, nil
}
