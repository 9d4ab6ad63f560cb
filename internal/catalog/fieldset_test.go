// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/platform/apperr"
)

func rawObject(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func fieldNames(err error) []string {
	appErr := apperr.As(err)
	if appErr == nil {
		return nil
	}
	names := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		names = append(names, detail.Field)
	}
	return names
}

/*
TestDecodeFieldSet covers unknown, read-only and mistyped fields.
*/
func TestDecodeFieldSet(t *testing.T) {
	tests := []struct {
		name       string
		kind       catalog.Kind
		body       string
		wantFields []string
		want       catalog.FieldSet
	}{
		{
			name: "falsy_values_are_kept",
			kind: catalog.KindBookType,
			body: `{"isActive": false, "order": 0, "price": 0}`,
			want: catalog.FieldSet{"isActive": false, "order": 0, "price": float64(0)},
		},
		{
			name: "empty_object",
			kind: catalog.KindPageOption,
			body: `{}`,
			want: catalog.FieldSet{},
		},
		{
			name:       "unknown_field",
			kind:       catalog.KindBookType,
			body:       `{"colour": "red"}`,
			wantFields: []string{"colour"},
		},
		{
			name:       "read_only_fields",
			kind:       catalog.KindTheme,
			body:       `{"id": "x", "createdAt": "2024-01-01T00:00:00Z"}`,
			wantFields: []string{"createdAt", "id"},
		},
		{
			name:       "wrong_types",
			kind:       catalog.KindPageOption,
			body:       `{"pageCount": "fifty", "isActive": 1, "order": 1.5}`,
			wantFields: []string{"isActive", "order", "pageCount"},
		},
		{
			name:       "null_on_required_text",
			kind:       catalog.KindThemeCategory,
			body:       `{"name": null}`,
			wantFields: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := catalog.DecodeFieldSet(tt.kind, rawObject(t, tt.body))

			if tt.wantFields != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantFields, fieldNames(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, set)
		})
	}
}

func TestDecodeFieldSet_NullDescription(t *testing.T) {
	set, err := catalog.DecodeFieldSet(catalog.KindBookType, rawObject(t, `{"description": null}`))
	require.NoError(t, err)

	value, present := set["description"]
	assert.True(t, present)
	assert.Nil(t, value.(*string))
}

/*
TestFieldSet_Validate checks value rules and required fields on create.
*/
func TestFieldSet_Validate(t *testing.T) {
	validBookType := catalog.FieldSet{
		"name":        "Portrait",
		"aspectRatio": "3:4",
		"price":       49.99,
		"imageUrl":    "https://cdn.memry.app/portrait.jpg",
	}

	tests := []struct {
		name       string
		kind       catalog.Kind
		set        catalog.FieldSet
		creating   bool
		wantFields []string
	}{
		{"create_valid", catalog.KindBookType, validBookType, true, nil},
		{"create_missing_required", catalog.KindBookType, catalog.FieldSet{"name": "Portrait"}, true, []string{"aspectRatio", "imageUrl", "price"}},
		{"patch_partial", catalog.KindBookType, catalog.FieldSet{"isActive": false}, false, nil},
		{"negative_price", catalog.KindBookType, catalog.FieldSet{"price": -1.0}, false, []string{"price"}},
		{"bad_ratio", catalog.KindBookType, catalog.FieldSet{"aspectRatio": "3x4"}, false, []string{"aspectRatio"}},
		{"blank_name", catalog.KindThemeCategory, catalog.FieldSet{"name": "  "}, false, []string{"name"}},
		{"zero_pages", catalog.KindPageOption, catalog.FieldSet{"pageCount": 0}, false, []string{"pageCount"}},
		{"bad_category_id", catalog.KindTheme, catalog.FieldSet{"categoryId": "nope"}, false, []string{"categoryId"}},
		{"wrong_go_type", catalog.KindPageOption, catalog.FieldSet{"pageCount": "50"}, false, []string{"pageCount"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate(tt.kind, tt.creating)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantFields, fieldNames(err))
		})
	}
}

func TestFieldSet_Columns(t *testing.T) {
	set := catalog.FieldSet{"isActive": false, "order": 3, "aspectRatio": "4:3"}

	assert.Equal(t, map[string]any{
		"isactive":    false,
		"sortorder":   3,
		"aspectratio": "4:3",
	}, set.Columns(catalog.KindBookType))
}

func TestParseKind(t *testing.T) {
	kind, ok := catalog.ParseKind("theme-categories")
	assert.True(t, ok)
	assert.Equal(t, catalog.KindThemeCategory, kind)

	_, ok = catalog.ParseKind("covers")
	assert.False(t, ok)
}
