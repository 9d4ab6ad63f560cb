// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog manages the purchasable options customers choose from.

The catalog is four flat tables (book types, page options, theme categories
and themes). Every item carries an isActive flag, which hides it from
customer listings, and an order used for display sorting.

# Ordering

Listings sort by order ascending. Equal order values keep insertion order:
createdat breaks the tie first, then the time-ordered v7 id.

# References

Nothing references a catalog item through a foreign key. Deleting an item
leaves photobooks and themes pointing at it, and readers resolve such
dangling references to null.

# Routing Strategy

  - Public (v1): Active items only, for the order wizard (GET /catalog/...).
  - Admin (v1): Every item regardless of isActive, plus mutations
    (GET/POST/PATCH/DELETE /admin/catalog/{kind}).
*/
package catalog

import "time"

// # Kinds

// Kind names one catalog variant. Its value is the URL segment used by the admin API.
type Kind string

const (
	KindBookType      Kind = "book-types"
	KindPageOption    Kind = "page-options"
	KindThemeCategory Kind = "theme-categories"
	KindTheme         Kind = "themes"
)

// Kinds lists every catalog variant in dependency order (parents first).
var Kinds = []Kind{KindBookType, KindPageOption, KindThemeCategory, KindTheme}

// ParseKind validates a URL segment.
func ParseKind(raw string) (Kind, bool) {
	for _, kind := range Kinds {
		if string(kind) == raw {
			return kind, true
		}
	}
	return "", false
}

// Resource is the human-readable name used in error messages.
func (kind Kind) Resource() string {
	switch kind {
	case KindBookType:
		return "Book type"
	case KindPageOption:
		return "Page option"
	case KindThemeCategory:
		return "Theme category"
	case KindTheme:
		return "Theme"
	default:
		return "Catalog item"
	}
}

// # Entities

// BookType is a physical book format (size, aspect ratio, base price).
type BookType struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AspectRatio string    `json:"aspectRatio"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	IsActive    bool      `json:"isActive"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PageOption is a selectable page count with its surcharge.
type PageOption struct {
	ID              string    `json:"id"`
	PageCount       int       `json:"pageCount"`
	AdditionalPrice float64   `json:"additionalPrice"`
	IsActive        bool      `json:"isActive"`
	Order           int       `json:"order"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ThemeCategory groups themes in the picker.
type ThemeCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"isActive"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Theme is a visual style applied to a photobook.
type Theme struct {
	ID            string    `json:"id"`
	CategoryID    string    `json:"categoryId"`
	Name          string    `json:"name"`
	CoverImageURL string    `json:"coverImageUrl"`
	IsActive      bool      `json:"isActive"`
	Order         int       `json:"order"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Category is populated on single-theme reads; nil when the category was deleted.
	Category *ThemeCategory `json:"category,omitempty"`
}

// CategoryWithThemes is one group of the customer theme picker.
type CategoryWithThemes struct {
	ThemeCategory
	Themes []*Theme `json:"themes"`
}

// ThemeFilter narrows theme listings.
type ThemeFilter struct {
	ActiveOnly bool
	CategoryID string
}
