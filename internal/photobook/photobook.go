// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package photobook owns the order aggregate: catalog selections, share id,
status and the embedded page sequence.

Pages are never stored or addressed individually. The whole sequence is one
JSONB column, read and written as a unit, and saves are last-writer-wins.

# Status

	draft ──complete──▶ completed ──markOrdered──▶ ordered

Status never moves backwards. Completing a completed book is a no-op that
returns the share id again.
*/
package photobook

import (
	"time"

	"github.com/memry/photobook/internal/catalog"
)

// # Status

// Status is the lifecycle state of a photobook.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusOrdered   Status = "ordered"
)

// # Pages

// Page is one page of the book. PageNumber always equals its 1-based position.
type Page struct {
	PageNumber      int         `json:"pageNumber"`
	Layout          Layout      `json:"layout"`
	BackgroundColor string      `json:"backgroundColor"`
	Photos          []PagePhoto `json:"photos"`
	Texts           []PageText  `json:"texts"`
}

// PagePhoto places an uploaded photo in a layout slot.
//
// Coordinates are percentages of the page bounds.
type PagePhoto struct {
	StorageID string  `json:"storageId"`
	URL       string  `json:"url"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Rotation  float64 `json:"rotation"`
}

// PageText is a free text overlay.
type PageText struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	Color      string  `json:"color"`
	Rotation   float64 `json:"rotation"`
}

// IsEmpty reports whether the page holds neither photos nor texts.
func (page Page) IsEmpty() bool {
	return len(page.Photos) == 0 && len(page.Texts) == 0
}

// # Aggregate

// Photobook is the stored order aggregate.
type Photobook struct {
	ID           string  `json:"id"`
	ShareID      string  `json:"shareId"`
	BookTypeID   string  `json:"bookTypeId"`
	PageOptionID string  `json:"pageOptionId"`
	ThemeID      *string `json:"themeId"`

	// CoverDesignID is only read back from books created before themes existed.
	CoverDesignID *string `json:"coverDesignId,omitempty"`

	Status    Status    `json:"status"`
	Pages     []Page    `json:"pages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Detail is a photobook with its catalog references resolved.
//
// A reference to a deleted catalog item resolves to nil.
type Detail struct {
	*Photobook
	BookType   *catalog.BookType   `json:"bookType"`
	PageOption *catalog.PageOption `json:"pageOption"`
	Theme      *catalog.Theme      `json:"theme"`
}

// # Requests

// CreateRequest carries the three wizard selections.
type CreateRequest struct {
	BookTypeID   string `json:"bookTypeId"`
	PageOptionID string `json:"pageOptionId"`
	ThemeID      string `json:"themeId"`
}

// Selections changes any subset of the catalog references. Nil fields are kept.
type Selections struct {
	BookTypeID   *string `json:"bookTypeId"`
	PageOptionID *string `json:"pageOptionId"`
	ThemeID      *string `json:"themeId"`
}

// IsEmpty reports whether no selection is being changed.
func (selections Selections) IsEmpty() bool {
	return selections.BookTypeID == nil && selections.PageOptionID == nil && selections.ThemeID == nil
}

// # Field Names

const (
	FieldBookTypeID   = "bookTypeId"
	FieldPageOptionID = "pageOptionId"
	FieldThemeID      = "themeId"
	FieldPages        = "pages"
	FieldPageNumber   = "pageNumber"
)

// Resource names used in error messages.
const (
	resourcePhotobook  = "Photobook"
	resourcePage       = "Page"
	resourceBookType   = "Book type"
	resourcePageOption = "Page option"
	resourceTheme      = "Theme"
)
