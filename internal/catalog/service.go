// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/pkg/slice"
	"github.com/memry/photobook/pkg/uuid"
)

// # Service Layer

// Service orchestrates catalog reads for customers and writes for the admin console.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service] with its repository.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Customer Reads

func (service *Service) ListBookTypes(context context.Context, activeOnly bool) ([]*BookType, error) {
	return service.repo.ListBookTypes(context, activeOnly)
}

func (service *Service) ListPageOptions(context context.Context, activeOnly bool) ([]*PageOption, error) {
	return service.repo.ListPageOptions(context, activeOnly)
}

func (service *Service) ListThemeCategories(context context.Context, activeOnly bool) ([]*ThemeCategory, error) {
	return service.repo.ListThemeCategories(context, activeOnly)
}

func (service *Service) ListThemes(context context.Context, activeOnly bool) ([]*Theme, error) {
	return service.repo.ListThemes(context, ThemeFilter{ActiveOnly: activeOnly})
}

// GetBookType returns NotFound for ids that are absent or malformed.
func (service *Service) GetBookType(context context.Context, id string) (*BookType, error) {
	if !uuid.IsValid(id) {
		return nil, notFound(KindBookType)
	}
	return service.repo.GetBookType(context, id)
}

func (service *Service) GetPageOption(context context.Context, id string) (*PageOption, error) {
	if !uuid.IsValid(id) {
		return nil, notFound(KindPageOption)
	}
	return service.repo.GetPageOption(context, id)
}

func (service *Service) GetThemeCategory(context context.Context, id string) (*ThemeCategory, error) {
	if !uuid.IsValid(id) {
		return nil, notFound(KindThemeCategory)
	}
	return service.repo.GetThemeCategory(context, id)
}

// GetTheme includes the parent category, nil when it no longer exists.
func (service *Service) GetTheme(context context.Context, id string) (*Theme, error) {
	if !uuid.IsValid(id) {
		return nil, notFound(KindTheme)
	}
	return service.repo.GetTheme(context, id)
}

/*
ListThemesByCategory returns the active themes of one category.

Returns:
  - []*Theme: Active themes in display order
  - error: NotFound if the category does not exist
*/
func (service *Service) ListThemesByCategory(context context.Context, categoryID string) ([]*Theme, error) {
	if _, err := service.GetThemeCategory(context, categoryID); err != nil {
		return nil, err
	}
	return service.repo.ListThemes(context, ThemeFilter{ActiveOnly: true, CategoryID: categoryID})
}

/*
ListActiveWithCategories builds the customer theme picker.

Description: Returns active categories in display order, each holding its
active themes. Categories without any active theme are omitted, and themes
whose category is inactive or deleted are not shown.
*/
func (service *Service) ListActiveWithCategories(context context.Context) ([]*CategoryWithThemes, error) {
	categories, err := service.repo.ListThemeCategories(context, true)
	if err != nil {
		return nil, err
	}

	themes, err := service.repo.ListThemes(context, ThemeFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]*Theme, len(categories))
	for _, theme := range themes {
		byCategory[theme.CategoryID] = append(byCategory[theme.CategoryID], theme)
	}

	groups := slice.Map(categories, func(category *ThemeCategory) *CategoryWithThemes {
		return &CategoryWithThemes{ThemeCategory: *category, Themes: byCategory[category.ID]}
	})

	return slice.Filter(groups, func(group *CategoryWithThemes) bool {
		return len(group.Themes) > 0
	}), nil
}

// # Admin Operations

/*
List returns every item of a kind, active or not, in display order.
*/
func (service *Service) List(context context.Context, kind Kind) (any, error) {
	switch kind {
	case KindBookType:
		return service.repo.ListBookTypes(context, false)
	case KindPageOption:
		return service.repo.ListPageOptions(context, false)
	case KindThemeCategory:
		return service.repo.ListThemeCategories(context, false)
	case KindTheme:
		return service.repo.ListThemes(context, ThemeFilter{})
	default:
		return nil, notFound(kind)
	}
}

// Get returns one item of a kind.
func (service *Service) Get(context context.Context, kind Kind, id string) (any, error) {
	switch kind {
	case KindBookType:
		return service.GetBookType(context, id)
	case KindPageOption:
		return service.GetPageOption(context, id)
	case KindThemeCategory:
		return service.GetThemeCategory(context, id)
	case KindTheme:
		return service.GetTheme(context, id)
	default:
		return nil, notFound(kind)
	}
}

/*
Create validates and inserts a new catalog item.

Description: Every required field of the variant must be present. A theme's
categoryId must reference an existing category.

Parameters:
  - context: context.Context
  - kind: Kind (Catalog variant)
  - fields: FieldSet (Initial values)

Returns:
  - any: The stored item, as read back from the database
  - error: ValidationError, InvalidReference or persistence errors
*/
func (service *Service) Create(context context.Context, kind Kind, fields FieldSet) (any, error) {
	if err := fields.Validate(kind, true); err != nil {
		return nil, err
	}

	if err := service.checkCategory(context, kind, fields); err != nil {
		return nil, err
	}

	id := uuid.New()
	if err := service.repo.Insert(context, kind, id, fields); err != nil {
		return nil, err
	}

	service.logger.Info("catalog_item_created",
		slog.String("kind", string(kind)),
		slog.String("id", id),
	)

	return service.Get(context, kind, id)
}

/*
Update applies a partial patch to an existing item.

Description: Only the fields present in the set are written; every other
column stays byte-identical. An empty set only checks existence.

Returns:
  - any: The item after the update
  - error: NotFound, ValidationError or InvalidReference
*/
func (service *Service) Update(context context.Context, kind Kind, id string, fields FieldSet) (any, error) {
	if !uuid.IsValid(id) {
		return nil, notFound(kind)
	}

	if err := fields.Validate(kind, false); err != nil {
		return nil, err
	}

	if err := service.checkCategory(context, kind, fields); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, kind, id, fields); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		service.logger.Info("catalog_item_updated",
			slog.String("kind", string(kind)),
			slog.String("id", id),
			slog.Int("fields", len(fields)),
		)
	}

	return service.Get(context, kind, id)
}

// Delete removes one item. References held by photobooks or themes are left dangling.
func (service *Service) Delete(context context.Context, kind Kind, id string) error {
	if !uuid.IsValid(id) {
		return notFound(kind)
	}

	if err := service.repo.Delete(context, kind, id); err != nil {
		return err
	}

	service.logger.Info("catalog_item_deleted",
		slog.String("kind", string(kind)),
		slog.String("id", id),
	)
	return nil
}

// ToggleActive flips the isActive flag atomically and returns its new value.
func (service *Service) ToggleActive(context context.Context, kind Kind, id string) (bool, error) {
	if !uuid.IsValid(id) {
		return false, notFound(kind)
	}

	isActive, err := service.repo.ToggleActive(context, kind, id)
	if err != nil {
		return false, err
	}

	service.logger.Info("catalog_item_toggled",
		slog.String("kind", string(kind)),
		slog.String("id", id),
		slog.Bool("is_active", isActive),
	)
	return isActive, nil
}

// Count returns the number of items of a kind.
func (service *Service) Count(context context.Context, kind Kind) (int, error) {
	return service.repo.Count(context, kind)
}

// DeleteAll empties one catalog table and returns the number of removed rows.
func (service *Service) DeleteAll(context context.Context, kind Kind) (int64, error) {
	return service.repo.DeleteAll(context, kind)
}

// checkCategory rejects theme writes pointing at a missing category.
func (service *Service) checkCategory(context context.Context, kind Kind, fields FieldSet) error {
	if kind != KindTheme {
		return nil
	}

	categoryID, ok := fields.CategoryID()
	if !ok {
		return nil
	}

	exists, err := service.repo.Exists(context, KindThemeCategory, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.InvalidReference(KindThemeCategory.Resource())
	}
	return nil
}
