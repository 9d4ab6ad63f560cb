// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// Repository is the persistence contract of the catalog.
//
// Typed reads serve the customer API and the photobook resolver; the
// kind-generic writes serve the admin console, which treats the four
// variants uniformly.
type Repository interface {
	ListBookTypes(context context.Context, activeOnly bool) ([]*BookType, error)
	GetBookType(context context.Context, id string) (*BookType, error)

	ListPageOptions(context context.Context, activeOnly bool) ([]*PageOption, error)
	GetPageOption(context context.Context, id string) (*PageOption, error)

	ListThemeCategories(context context.Context, activeOnly bool) ([]*ThemeCategory, error)
	GetThemeCategory(context context.Context, id string) (*ThemeCategory, error)

	ListThemes(context context.Context, filter ThemeFilter) ([]*Theme, error)
	GetTheme(context context.Context, id string) (*Theme, error)

	Insert(context context.Context, kind Kind, id string, fields FieldSet) error
	Update(context context.Context, kind Kind, id string, fields FieldSet) error
	Delete(context context.Context, kind Kind, id string) error
	ToggleActive(context context.Context, kind Kind, id string) (bool, error)
	Exists(context context.Context, kind Kind, id string) (bool, error)
	Count(context context.Context, kind Kind) (int, error)
	DeleteAll(context context.Context, kind Kind) (int64, error)
}
