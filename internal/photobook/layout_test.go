// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photobook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/apperr"
)

/*
TestLayout_SlotRect checks the grid arithmetic for every layout.
*/
func TestLayout_SlotRect(t *testing.T) {
	third := 100.0 / 3

	tests := []struct {
		layout photobook.Layout
		slot   int
		want   photobook.Rect
	}{
		{photobook.LayoutSingle, 0, photobook.Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{photobook.LayoutDouble, 1, photobook.Rect{X: 50, Y: 0, Width: 50, Height: 100}},
		{photobook.LayoutTriple, 2, photobook.Rect{X: 2 * third, Y: 0, Width: third, Height: 100}},
		{photobook.LayoutQuad, 2, photobook.Rect{X: 0, Y: 50, Width: 50, Height: 50}},
		{photobook.LayoutQuad, 3, photobook.Rect{X: 50, Y: 50, Width: 50, Height: 50}},
		{photobook.LayoutSix, 4, photobook.Rect{X: third, Y: 50, Width: third, Height: 50}},
	}

	for _, tt := range tests {
		t.Run(string(tt.layout), func(t *testing.T) {
			rect, ok := tt.layout.SlotRect(tt.slot)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, rect.X, 1e-9)
			assert.InDelta(t, tt.want.Y, rect.Y, 1e-9)
			assert.InDelta(t, tt.want.Width, rect.Width, 1e-9)
			assert.InDelta(t, tt.want.Height, rect.Height, 1e-9)
		})
	}
}

func TestLayout_SlotCount(t *testing.T) {
	counts := map[photobook.Layout]int{"1": 1, "2": 2, "3": 3, "4": 4, "6": 6, "5": 0}
	for layout, want := range counts {
		assert.Equal(t, want, layout.SlotCount(), "layout %s", layout)
	}

	_, ok := photobook.LayoutQuad.SlotRect(4)
	assert.False(t, ok)
	_, ok = photobook.Layout("5").SlotRect(0)
	assert.False(t, ok)
}

func TestLayout_Reflow(t *testing.T) {
	photos := []photobook.PagePhoto{
		{StorageID: "a", X: 10, Y: 10, Width: 10, Height: 10, Rotation: 15},
		{StorageID: "b"},
	}

	placed := photobook.LayoutDouble.Reflow(photos)

	require.Len(t, placed, 2)
	assert.Equal(t, photobook.PagePhoto{StorageID: "a", X: 0, Y: 0, Width: 50, Height: 100, Rotation: 15}, placed[0])
	assert.Equal(t, 50.0, placed[1].X)
	assert.Equal(t, 10.0, photos[0].X, "input must not be modified")
}

/*
TestNewPages checks the default page shape.
*/
func TestNewPages(t *testing.T) {
	pages := photobook.NewPages(50)

	require.Len(t, pages, 50)
	for i, page := range pages {
		assert.Equal(t, i+1, page.PageNumber)
		assert.Equal(t, photobook.LayoutSingle, page.Layout)
		assert.Equal(t, "#ffffff", page.BackgroundColor)
		assert.NotNil(t, page.Photos)
		assert.NotNil(t, page.Texts)
		assert.True(t, page.IsEmpty())
	}
}

/*
TestResize grows with numbered defaults and shrinks by cutting the tail.
*/
func TestResize(t *testing.T) {
	pages := photobook.NewPages(50)
	pages[0].Layout = photobook.LayoutQuad
	pages[49].BackgroundColor = "#123456"

	grown := photobook.Resize(pages, 100)
	require.Len(t, grown, 100)
	assert.Equal(t, photobook.LayoutQuad, grown[0].Layout)
	assert.Equal(t, "#123456", grown[49].BackgroundColor)
	for i := 50; i < 100; i++ {
		assert.Equal(t, photobook.NewPage(i+1), grown[i])
	}

	shrunk := photobook.Resize(grown, 50)
	require.Len(t, shrunk, 50)
	assert.Equal(t, pages, shrunk)

	assert.Len(t, photobook.Resize(pages, 50), 50)
}

/*
TestValidatePages reports structural problems with indexed field names.
*/
func TestValidatePages(t *testing.T) {
	valid := func() []photobook.Page {
		pages := photobook.NewPages(2)
		pages[1].Layout = photobook.LayoutDouble
		pages[1].Photos = []photobook.PagePhoto{{StorageID: "uploads/x/a.jpg", X: 0, Y: 0, Width: 50, Height: 100}}
		pages[1].Texts = []photobook.PageText{{ID: "t1", Content: "Hi", X: 10, Y: 10, FontSize: 16, FontFamily: "sans-serif", Color: "#000000"}}
		return pages
	}

	tests := []struct {
		name      string
		mutate    func([]photobook.Page) []photobook.Page
		wantField string
	}{
		{
			name:   "valid",
			mutate: func(pages []photobook.Page) []photobook.Page { return pages },
		},
		{
			name: "numbering_gap",
			mutate: func(pages []photobook.Page) []photobook.Page {
				pages[1].PageNumber = 3
				return pages
			},
			wantField: "pages[1].pageNumber",
		},
		{
			name: "unknown_layout",
			mutate: func(pages []photobook.Page) []photobook.Page {
				pages[0].Layout = "5"
				return pages
			},
			wantField: "pages[0].layout",
		},
		{
			name: "too_many_photos",
			mutate: func(pages []photobook.Page) []photobook.Page {
				pages[0].Photos = []photobook.PagePhoto{{StorageID: "a"}, {StorageID: "b"}}
				return pages
			},
			wantField: "pages[0].photos",
		},
		{
			name: "percent_out_of_range",
			mutate: func(pages []photobook.Page) []photobook.Page {
				pages[1].Photos[0].Width = 120
				return pages
			},
			wantField: "pages[1].photos[0].width",
		},
		{
			name: "text_without_id",
			mutate: func(pages []photobook.Page) []photobook.Page {
				pages[1].Texts[0].ID = ""
				return pages
			},
			wantField: "pages[1].texts[0].id",
		},
		{
			name: "bad_background",
			mutate: func(pages []photobook.Page) []photobook.Page {
				pages[0].BackgroundColor = "white"
				return pages
			},
			wantField: "pages[0].backgroundColor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := photobook.ValidatePages(tt.mutate(valid()))
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			fields := make([]string, len(appErr.Details))
			for i, detail := range appErr.Details {
				fields[i] = detail.Field
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}
