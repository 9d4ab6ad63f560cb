// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photobook

import (
	"fmt"
	"math"

	"github.com/memry/photobook/internal/platform/validate"
)

// # Layouts

// Layout names a page grid. Its value is the number of photo slots.
type Layout string

const (
	LayoutSingle Layout = "1"
	LayoutDouble Layout = "2"
	LayoutTriple Layout = "3"
	LayoutQuad   Layout = "4"
	LayoutSix    Layout = "6"
)

// grid is the column and row count of a layout.
type grid struct {
	cols int
	rows int
}

// grids is the fixed layout table. Slots are numbered row-major.
var grids = map[Layout]grid{
	LayoutSingle: {cols: 1, rows: 1},
	LayoutDouble: {cols: 2, rows: 1},
	LayoutTriple: {cols: 3, rows: 1},
	LayoutQuad:   {cols: 2, rows: 2},
	LayoutSix:    {cols: 3, rows: 2},
}

// Layouts lists every layout in picker order.
var Layouts = []Layout{LayoutSingle, LayoutDouble, LayoutTriple, LayoutQuad, LayoutSix}

// IsValid reports whether the layout is in the table.
func (layout Layout) IsValid() bool {
	_, ok := grids[layout]
	return ok
}

// SlotCount returns the number of photo slots, 0 for an unknown layout.
func (layout Layout) SlotCount() int {
	g, ok := grids[layout]
	if !ok {
		return 0
	}
	return g.cols * g.rows
}

// Rect is a slot rectangle in page percentages.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

/*
SlotRect derives the rectangle of one slot from the grid table.

For slot s in a cols x rows grid: col = s mod cols, row = s div cols,
x = col*100/cols, y = row*100/rows, width = 100/cols, height = 100/rows.

Returns:
  - Rect: The slot rectangle
  - bool: false when the layout is unknown or the slot is out of range
*/
func (layout Layout) SlotRect(slot int) (Rect, bool) {
	g, ok := grids[layout]
	if !ok || slot < 0 || slot >= g.cols*g.rows {
		return Rect{}, false
	}

	col := slot % g.cols
	row := slot / g.cols
	return Rect{
		X:      float64(col) * 100 / float64(g.cols),
		Y:      float64(row) * 100 / float64(g.rows),
		Width:  100 / float64(g.cols),
		Height: 100 / float64(g.rows),
	}, true
}

// Place returns a copy of photo positioned in the given slot, keeping its rotation.
func (layout Layout) Place(photo PagePhoto, slot int) PagePhoto {
	rect, ok := layout.SlotRect(slot)
	if !ok {
		return photo
	}
	photo.X, photo.Y, photo.Width, photo.Height = rect.X, rect.Y, rect.Width, rect.Height
	return photo
}

// Reflow re-derives every photo rectangle from its index in the grid.
func (layout Layout) Reflow(photos []PagePhoto) []PagePhoto {
	placed := make([]PagePhoto, len(photos))
	for i, photo := range photos {
		placed[i] = layout.Place(photo, i)
	}
	return placed
}

// # Page Defaults

const (
	// DefaultBackground is the background of freshly created pages.
	DefaultBackground = "#ffffff"

	// MaxPages bounds a page sequence, matching the catalog's page count limit.
	MaxPages = 500
)

// NewPage returns an empty single-slot white page.
func NewPage(number int) Page {
	return Page{
		PageNumber:      number,
		Layout:          LayoutSingle,
		BackgroundColor: DefaultBackground,
		Photos:          []PagePhoto{},
		Texts:           []PageText{},
	}
}

// NewPages returns count empty pages numbered 1..count.
func NewPages(count int) []Page {
	pages := make([]Page, count)
	for i := range pages {
		pages[i] = NewPage(i + 1)
	}
	return pages
}

/*
Resize grows or shrinks a page sequence to count pages.

Growing appends empty pages numbered from len(pages)+1. Shrinking cuts the
tail, dropping whatever content those pages held.
*/
func Resize(pages []Page, count int) []Page {
	if count <= len(pages) {
		return append([]Page(nil), pages[:count]...)
	}

	resized := make([]Page, 0, count)
	resized = append(resized, pages...)
	for number := len(pages) + 1; number <= count; number++ {
		resized = append(resized, NewPage(number))
	}
	return resized
}

// # Structural Validation

/*
ValidatePages checks the structure of a full page sequence.

Rules:
  - Page numbers run 1..N by position.
  - Layout is in the table and holds every placed photo.
  - Rectangles and text positions are percentages.
  - Every text carries an id.
*/
func ValidatePages(pages []Page) error {
	validator := &validate.Validator{}
	validator.Custom(FieldPages, len(pages) > MaxPages, fmt.Sprintf("At most %d pages", MaxPages))

	for i, page := range pages {
		validator.Custom(fmt.Sprintf("pages[%d].pageNumber", i), page.PageNumber != i+1,
			fmt.Sprintf("Must be %d", i+1))
		checkPage(validator, fmt.Sprintf("pages[%d]", i), page)
	}
	return validator.Err()
}

// ValidatePage checks a single page, independent of its position.
func ValidatePage(page Page) error {
	validator := &validate.Validator{}
	validator.Custom(FieldPageNumber, page.PageNumber < 1, "Must be at least 1")
	checkPage(validator, "page", page)
	return validator.Err()
}

func checkPage(validator *validate.Validator, prefix string, page Page) {
	validator.OneOf(prefix+".layout", string(page.Layout), layoutNames()...)
	validator.HexColor(prefix+".backgroundColor", page.BackgroundColor)

	if page.Layout.IsValid() {
		validator.Custom(prefix+".photos", len(page.Photos) > page.Layout.SlotCount(),
			fmt.Sprintf("Layout %s holds at most %d photos", page.Layout, page.Layout.SlotCount()))
	}

	for i, photo := range page.Photos {
		field := fmt.Sprintf("%s.photos[%d]", prefix, i)
		validator.Required(field+".storageId", photo.StorageID)
		validator.Percent(field+".x", photo.X)
		validator.Percent(field+".y", photo.Y)
		validator.Percent(field+".width", photo.Width)
		validator.Percent(field+".height", photo.Height)
		validator.Custom(field+".rotation", !isFinite(photo.Rotation), "Must be a finite number")
	}

	for i, text := range page.Texts {
		field := fmt.Sprintf("%s.texts[%d]", prefix, i)
		checkText(validator, field, text)
	}
}

func checkText(validator *validate.Validator, field string, text PageText) {
	validator.Required(field+".id", text.ID)
	validator.MaxLen(field+".content", text.Content, maxTextLen)
	validator.Percent(field+".x", text.X)
	validator.Percent(field+".y", text.Y)
	validator.Custom(field+".fontSize", !isFinite(text.FontSize) || text.FontSize <= 0 || text.FontSize > maxFontSize,
		fmt.Sprintf("Must be between 1 and %d", maxFontSize))
	validator.MaxLen(field+".fontFamily", text.FontFamily, maxFontFamilyLen)
	validator.HexColor(field+".color", text.Color)
	validator.Custom(field+".rotation", !isFinite(text.Rotation), "Must be a finite number")
}

// ValidateText checks one text overlay. Exported for the editor.
func ValidateText(text PageText) error {
	validator := &validate.Validator{}
	checkText(validator, "text", text)
	return validator.Err()
}

const (
	maxTextLen       = 2000
	maxFontSize      = 400
	maxFontFamilyLen = 100
)

func layoutNames() []string {
	names := make([]string, len(Layouts))
	for i, layout := range Layouts {
		names[i] = string(layout)
	}
	return names
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
