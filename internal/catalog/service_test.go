// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/platform/apperr"
)

// # Fake Repository

// fakeRepository keeps catalog rows in insertion order. Field sets are applied
// through the JSON field names, which match the API names one to one.
type fakeRepository struct {
	bookTypes   []*catalog.BookType
	pageOptions []*catalog.PageOption
	categories  []*catalog.ThemeCategory
	themes      []*catalog.Theme
	clock       time.Time
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (repo *fakeRepository) tick() time.Time {
	repo.clock = repo.clock.Add(time.Second)
	return repo.clock
}

func overlay[T any](target *T, fields map[string]any) {
	encoded, _ := json.Marshal(target)
	values := map[string]any{}
	_ = json.Unmarshal(encoded, &values)
	for name, value := range fields {
		values[name] = value
	}
	encoded, _ = json.Marshal(values)
	_ = json.Unmarshal(encoded, target)
}

func activeOnly[T any](items []*T, activeOnly bool, isActive func(*T) bool) []*T {
	result := make([]*T, 0, len(items))
	for _, item := range items {
		if !activeOnly || isActive(item) {
			result = append(result, item)
		}
	}
	return result
}

func find[T any](items []*T, id string, idOf func(*T) string) *T {
	for _, item := range items {
		if idOf(item) == id {
			return item
		}
	}
	return nil
}

func copyOf[T any](item *T) *T {
	clone := *item
	return &clone
}

func (repo *fakeRepository) ListBookTypes(_ context.Context, active bool) ([]*catalog.BookType, error) {
	return activeOnly(repo.bookTypes, active, func(item *catalog.BookType) bool { return item.IsActive }), nil
}

func (repo *fakeRepository) GetBookType(_ context.Context, id string) (*catalog.BookType, error) {
	item := find(repo.bookTypes, id, func(item *catalog.BookType) string { return item.ID })
	if item == nil {
		return nil, apperr.NotFound("Book type")
	}
	return copyOf(item), nil
}

func (repo *fakeRepository) ListPageOptions(_ context.Context, active bool) ([]*catalog.PageOption, error) {
	return activeOnly(repo.pageOptions, active, func(item *catalog.PageOption) bool { return item.IsActive }), nil
}

func (repo *fakeRepository) GetPageOption(_ context.Context, id string) (*catalog.PageOption, error) {
	item := find(repo.pageOptions, id, func(item *catalog.PageOption) string { return item.ID })
	if item == nil {
		return nil, apperr.NotFound("Page option")
	}
	return copyOf(item), nil
}

func (repo *fakeRepository) ListThemeCategories(_ context.Context, active bool) ([]*catalog.ThemeCategory, error) {
	return activeOnly(repo.categories, active, func(item *catalog.ThemeCategory) bool { return item.IsActive }), nil
}

func (repo *fakeRepository) GetThemeCategory(_ context.Context, id string) (*catalog.ThemeCategory, error) {
	item := find(repo.categories, id, func(item *catalog.ThemeCategory) string { return item.ID })
	if item == nil {
		return nil, apperr.NotFound("Theme category")
	}
	return copyOf(item), nil
}

func (repo *fakeRepository) ListThemes(_ context.Context, filter catalog.ThemeFilter) ([]*catalog.Theme, error) {
	themes := activeOnly(repo.themes, filter.ActiveOnly, func(item *catalog.Theme) bool { return item.IsActive })
	if filter.CategoryID == "" {
		return themes, nil
	}
	return activeOnly(themes, true, func(item *catalog.Theme) bool { return item.CategoryID == filter.CategoryID }), nil
}

func (repo *fakeRepository) GetTheme(_ context.Context, id string) (*catalog.Theme, error) {
	item := find(repo.themes, id, func(item *catalog.Theme) string { return item.ID })
	if item == nil {
		return nil, apperr.NotFound("Theme")
	}
	theme := copyOf(item)
	if category := find(repo.categories, theme.CategoryID, func(item *catalog.ThemeCategory) string { return item.ID }); category != nil {
		theme.Category = copyOf(category)
	}
	return theme, nil
}

func (repo *fakeRepository) Insert(_ context.Context, kind catalog.Kind, id string, fields catalog.FieldSet) error {
	now := repo.tick()
	base := map[string]any{"id": id, "isActive": true, "order": 0, "createdAt": now, "updatedAt": now}
	for name, value := range fields {
		base[name] = value
	}

	switch kind {
	case catalog.KindBookType:
		item := &catalog.BookType{}
		overlay(item, base)
		repo.bookTypes = append(repo.bookTypes, item)
	case catalog.KindPageOption:
		item := &catalog.PageOption{}
		overlay(item, base)
		repo.pageOptions = append(repo.pageOptions, item)
	case catalog.KindThemeCategory:
		item := &catalog.ThemeCategory{}
		overlay(item, base)
		repo.categories = append(repo.categories, item)
	case catalog.KindTheme:
		item := &catalog.Theme{}
		overlay(item, base)
		repo.themes = append(repo.themes, item)
	}
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, kind catalog.Kind, id string, fields catalog.FieldSet) error {
	switch kind {
	case catalog.KindBookType:
		if item := find(repo.bookTypes, id, func(item *catalog.BookType) string { return item.ID }); item != nil {
			overlay(item, fields)
			return nil
		}
	case catalog.KindPageOption:
		if item := find(repo.pageOptions, id, func(item *catalog.PageOption) string { return item.ID }); item != nil {
			overlay(item, fields)
			return nil
		}
	case catalog.KindThemeCategory:
		if item := find(repo.categories, id, func(item *catalog.ThemeCategory) string { return item.ID }); item != nil {
			overlay(item, fields)
			return nil
		}
	case catalog.KindTheme:
		if item := find(repo.themes, id, func(item *catalog.Theme) string { return item.ID }); item != nil {
			overlay(item, fields)
			return nil
		}
	}
	return apperr.NotFound(kind.Resource())
}

func (repo *fakeRepository) Delete(_ context.Context, kind catalog.Kind, id string) error {
	removed := false
	switch kind {
	case catalog.KindBookType:
		repo.bookTypes, removed = without(repo.bookTypes, id, func(item *catalog.BookType) string { return item.ID })
	case catalog.KindPageOption:
		repo.pageOptions, removed = without(repo.pageOptions, id, func(item *catalog.PageOption) string { return item.ID })
	case catalog.KindThemeCategory:
		repo.categories, removed = without(repo.categories, id, func(item *catalog.ThemeCategory) string { return item.ID })
	case catalog.KindTheme:
		repo.themes, removed = without(repo.themes, id, func(item *catalog.Theme) string { return item.ID })
	}
	if !removed {
		return apperr.NotFound(kind.Resource())
	}
	return nil
}

func without[T any](items []*T, id string, idOf func(*T) string) ([]*T, bool) {
	for i, item := range items {
		if idOf(item) == id {
			return append(items[:i:i], items[i+1:]...), true
		}
	}
	return items, false
}

func (repo *fakeRepository) ToggleActive(context context.Context, kind catalog.Kind, id string) (bool, error) {
	item, err := repo.get(context, kind, id)
	if err != nil {
		return false, err
	}
	next := !isActiveOf(item)
	return next, repo.Update(context, kind, id, catalog.FieldSet{"isActive": next})
}

func (repo *fakeRepository) Exists(context context.Context, kind catalog.Kind, id string) (bool, error) {
	_, err := repo.get(context, kind, id)
	return err == nil, nil
}

func (repo *fakeRepository) Count(_ context.Context, kind catalog.Kind) (int, error) {
	switch kind {
	case catalog.KindBookType:
		return len(repo.bookTypes), nil
	case catalog.KindPageOption:
		return len(repo.pageOptions), nil
	case catalog.KindThemeCategory:
		return len(repo.categories), nil
	default:
		return len(repo.themes), nil
	}
}

func (repo *fakeRepository) DeleteAll(context context.Context, kind catalog.Kind) (int64, error) {
	count, _ := repo.Count(context, kind)
	switch kind {
	case catalog.KindBookType:
		repo.bookTypes = nil
	case catalog.KindPageOption:
		repo.pageOptions = nil
	case catalog.KindThemeCategory:
		repo.categories = nil
	default:
		repo.themes = nil
	}
	return int64(count), nil
}

func (repo *fakeRepository) get(context context.Context, kind catalog.Kind, id string) (any, error) {
	switch kind {
	case catalog.KindBookType:
		return repo.GetBookType(context, id)
	case catalog.KindPageOption:
		return repo.GetPageOption(context, id)
	case catalog.KindThemeCategory:
		return repo.GetThemeCategory(context, id)
	default:
		return repo.GetTheme(context, id)
	}
}

func isActiveOf(item any) bool {
	switch value := item.(type) {
	case *catalog.BookType:
		return value.IsActive
	case *catalog.PageOption:
		return value.IsActive
	case *catalog.ThemeCategory:
		return value.IsActive
	case *catalog.Theme:
		return value.IsActive
	}
	return false
}

// # Helpers

func newService(repo catalog.Repository) *catalog.Service {
	return catalog.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustCreate(t *testing.T, service *catalog.Service, kind catalog.Kind, fields catalog.FieldSet) any {
	t.Helper()
	item, err := service.Create(context.Background(), kind, fields)
	require.NoError(t, err)
	return item
}

func portraitFields() catalog.FieldSet {
	return catalog.FieldSet{
		"name":        "Portrait",
		"aspectRatio": "3:4",
		"price":       49.99,
		"imageUrl":    "https://cdn.memry.app/portrait.jpg",
	}
}

// # Tests

/*
TestService_Create reads the stored item back with database defaults applied.
*/
func TestService_Create(t *testing.T) {
	service := newService(newFakeRepository())

	item := mustCreate(t, service, catalog.KindBookType, portraitFields())

	bookType, ok := item.(*catalog.BookType)
	require.True(t, ok)
	assert.Equal(t, "Portrait", bookType.Name)
	assert.True(t, bookType.IsActive)
	assert.Equal(t, 0, bookType.Order)
	assert.Len(t, bookType.ID, 36)
}

func TestService_Create_Validation(t *testing.T) {
	service := newService(newFakeRepository())

	_, err := service.Create(context.Background(), catalog.KindBookType, catalog.FieldSet{"name": "Portrait"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_Create_ThemeNeedsCategory rejects themes pointing at a missing category.
*/
func TestService_Create_ThemeNeedsCategory(t *testing.T) {
	service := newService(newFakeRepository())

	_, err := service.Create(context.Background(), catalog.KindTheme, catalog.FieldSet{
		"categoryId":    categoryID,
		"name":          "Minimal",
		"coverImageUrl": "https://cdn.memry.app/minimal.jpg",
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_REFERENCE", apperr.As(err).Code)
	assert.Equal(t, "Theme category does not exist", err.Error())
}

/*
TestService_Update_PartialPatch leaves every field outside the patch unchanged.
*/
func TestService_Update_PartialPatch(t *testing.T) {
	service := newService(newFakeRepository())
	created := mustCreate(t, service, catalog.KindBookType, portraitFields()).(*catalog.BookType)

	item, err := service.Update(context.Background(), catalog.KindBookType, created.ID, catalog.FieldSet{"isActive": false})
	require.NoError(t, err)

	updated := item.(*catalog.BookType)
	assert.False(t, updated.IsActive)

	updated.IsActive = true
	assert.Equal(t, created, updated)
}

func TestService_Update_ClearsDescription(t *testing.T) {
	service := newService(newFakeRepository())
	fields := portraitFields()
	fields["description"] = "Tall"
	created := mustCreate(t, service, catalog.KindBookType, fields).(*catalog.BookType)
	require.NotNil(t, created.Description)

	item, err := service.Update(context.Background(), catalog.KindBookType, created.ID, catalog.FieldSet{"description": (*string)(nil)})
	require.NoError(t, err)
	assert.Nil(t, item.(*catalog.BookType).Description)
}

func TestService_Update_NotFound(t *testing.T) {
	service := newService(newFakeRepository())

	tests := []struct {
		name string
		id   string
	}{
		{"malformed_id", "abc"},
		{"unknown_id", bookTypeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Update(context.Background(), catalog.KindBookType, tt.id, catalog.FieldSet{"price": 10.0})
			assert.True(t, apperr.IsNotFound(err))
		})
	}
}

/*
TestService_ToggleActive restores the original value after two toggles.
*/
func TestService_ToggleActive(t *testing.T) {
	service := newService(newFakeRepository())
	created := mustCreate(t, service, catalog.KindPageOption, catalog.FieldSet{"pageCount": 50}).(*catalog.PageOption)

	first, err := service.ToggleActive(context.Background(), catalog.KindPageOption, created.ID)
	require.NoError(t, err)
	assert.False(t, first)

	second, err := service.ToggleActive(context.Background(), catalog.KindPageOption, created.ID)
	require.NoError(t, err)
	assert.True(t, second)
}

/*
TestService_ListActiveWithCategories hides inactive items and empty groups.
*/
func TestService_ListActiveWithCategories(t *testing.T) {
	service := newService(newFakeRepository())

	classic := mustCreate(t, service, catalog.KindThemeCategory, catalog.FieldSet{"name": "Classic", "order": 1}).(*catalog.ThemeCategory)
	modern := mustCreate(t, service, catalog.KindThemeCategory, catalog.FieldSet{"name": "Modern", "order": 0}).(*catalog.ThemeCategory)
	hidden := mustCreate(t, service, catalog.KindThemeCategory, catalog.FieldSet{"name": "Hidden", "isActive": false}).(*catalog.ThemeCategory)
	mustCreate(t, service, catalog.KindThemeCategory, catalog.FieldSet{"name": "Empty"})

	theme := func(categoryID, name string, isActive bool) {
		mustCreate(t, service, catalog.KindTheme, catalog.FieldSet{
			"categoryId": categoryID, "name": name, "coverImageUrl": "https://cdn/" + name, "isActive": isActive,
		})
	}
	theme(classic.ID, "Linen", true)
	theme(classic.ID, "Retired", false)
	theme(modern.ID, "Mono", true)
	theme(hidden.ID, "Secret", true)

	// The fake lists in insertion order; display order is a database concern.
	groups, err := service.ListActiveWithCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Classic", groups[0].Name)
	require.Len(t, groups[0].Themes, 1)
	assert.Equal(t, "Linen", groups[0].Themes[0].Name)

	assert.Equal(t, "Modern", groups[1].Name)
	require.Len(t, groups[1].Themes, 1)
	assert.Equal(t, "Mono", groups[1].Themes[0].Name)
}

func TestService_ListThemesByCategory_UnknownCategory(t *testing.T) {
	service := newService(newFakeRepository())

	_, err := service.ListThemesByCategory(context.Background(), categoryID)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_GetTheme_DeletedCategory keeps the theme readable with a nil category.
*/
func TestService_GetTheme_DeletedCategory(t *testing.T) {
	service := newService(newFakeRepository())

	category := mustCreate(t, service, catalog.KindThemeCategory, catalog.FieldSet{"name": "Classic"}).(*catalog.ThemeCategory)
	theme := mustCreate(t, service, catalog.KindTheme, catalog.FieldSet{
		"categoryId": category.ID, "name": "Linen", "coverImageUrl": "https://cdn/linen",
	}).(*catalog.Theme)
	require.NotNil(t, theme.Category)

	require.NoError(t, service.Delete(context.Background(), catalog.KindThemeCategory, category.ID))

	reloaded, err := service.GetTheme(context.Background(), theme.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, reloaded.CategoryID)
	assert.Nil(t, reloaded.Category)
}

func TestService_DeleteAll(t *testing.T) {
	service := newService(newFakeRepository())
	mustCreate(t, service, catalog.KindPageOption, catalog.FieldSet{"pageCount": 50})
	mustCreate(t, service, catalog.KindPageOption, catalog.FieldSet{"pageCount": 100})

	removed, err := service.DeleteAll(context.Background(), catalog.KindPageOption)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	count, err := service.Count(context.Background(), catalog.KindPageOption)
	require.NoError(t, err)
	assert.Zero(t, count)
}
