// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package demo

import (
	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/pkg/pointer"
)

const imageHost = "https://images.unsplash.com/"

var bookTypes = []catalog.FieldSet{
	{
		"name":        "Portrait Photobook",
		"aspectRatio": "3:4",
		"price":       49.99,
		"imageUrl":    imageHost + "photo-1544716278-ca5e3f4abd8c?w=400&h=533&fit=crop",
		"isActive":    true,
		"order":       1,
	},
	{
		"name":        "Landscape Photobook",
		"aspectRatio": "4:3",
		"price":       54.99,
		"imageUrl":    imageHost + "photo-1516541196182-6bdb0516ed27?w=533&h=400&fit=crop",
		"isActive":    true,
		"order":       2,
	},
	{
		"name":        "Square Photobook",
		"aspectRatio": "1:1",
		"price":       44.99,
		"imageUrl":    imageHost + "photo-1531685250784-7569952593d2?w=400&h=400&fit=crop",
		"isActive":    true,
		"order":       3,
	},
}

var pageOptions = []catalog.FieldSet{
	{"pageCount": 50, "additionalPrice": 0.0, "isActive": true, "order": 1},
	{"pageCount": 100, "additionalPrice": 19.99, "isActive": true, "order": 2},
}

type themeGroup struct {
	category catalog.FieldSet
	themes   []catalog.FieldSet
}

func theme(name, photo string, order int) catalog.FieldSet {
	return catalog.FieldSet{
		"name":          name,
		"coverImageUrl": imageHost + photo + "?w=400&h=400&fit=crop",
		"isActive":      true,
		"order":         order,
	}
}

var themeGroups = []themeGroup{
	{
		category: catalog.FieldSet{
			"name":        "Classic",
			"description": pointer.To("Timeless covers in white, black and cream"),
			"isActive":    true,
			"order":       1,
		},
		themes: []catalog.FieldSet{
			theme("Classic White", "photo-1553484771-371a605b060b", 1),
			theme("Elegant Black", "photo-1544947950-fa07a98d237f", 2),
			theme("Minimalist Cream", "photo-1516979187457-637abb4f9353", 3),
		},
	},
	{
		category: catalog.FieldSet{
			"name":        "Natural",
			"description": pointer.To("Warm, earthy tones"),
			"isActive":    true,
			"order":       2,
		},
		themes: []catalog.FieldSet{
			theme("Natural Beige", "photo-1518893494013-4edb2d6f5f25", 1),
			theme("Rustic Brown", "photo-1507842217343-583bb7270b66", 2),
			theme("Modern Gray", "photo-1481627834876-b7833e8f5570", 3),
		},
	},
}
