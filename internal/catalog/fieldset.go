// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/memry/photobook/internal/platform/database/schema"
	"github.com/memry/photobook/internal/platform/validate"
)

// # Field Sets
//
// Creates and partial updates carry an explicit FieldSet: a map from API field
// name to its new value, containing only the fields that change. A field that
// is absent stays untouched; a field that is present is written even when its
// value is false, zero or (for nullable text) null.

// FieldSet maps API field names (e.g. "aspectRatio") to decoded Go values.
type FieldSet map[string]any

// valueType drives both JSON decoding and validation of one field.
type valueType int

const (
	typeText         valueType = iota // non-empty string
	typeOptionalText                  // string or null
	typeMoney                         // float64 >= 0
	typeCount                         // int >= 1
	typeInteger                       // any int
	typeBool                          // bool
	typeUUID                          // uuid string
	typeRatio                         // "W:H"
)

// fieldSpec describes one writable field of a catalog variant.
type fieldSpec struct {
	column   string
	kind     valueType
	maxLen   int
	required bool
}

const (
	maxNameLen        = 120
	maxDescriptionLen = 2000
	maxURLLen         = 2048
	maxPageCount      = 500
)

// fieldSpecs is the table of writable fields per variant. Anything else
// (id, createdAt, updatedAt, category) is read-only.
var fieldSpecs = map[Kind]map[string]fieldSpec{
	KindBookType: {
		"name":        {column: schema.CatalogBookType.Name, kind: typeText, maxLen: maxNameLen, required: true},
		"aspectRatio": {column: schema.CatalogBookType.AspectRatio, kind: typeRatio, required: true},
		"description": {column: schema.CatalogBookType.Description, kind: typeOptionalText, maxLen: maxDescriptionLen},
		"price":       {column: schema.CatalogBookType.Price, kind: typeMoney, required: true},
		"imageUrl":    {column: schema.CatalogBookType.ImageURL, kind: typeText, maxLen: maxURLLen, required: true},
		"isActive":    {column: schema.CatalogBookType.IsActive, kind: typeBool},
		"order":       {column: schema.CatalogBookType.SortOrder, kind: typeInteger},
	},
	KindPageOption: {
		"pageCount":       {column: schema.CatalogPageOption.PageCount, kind: typeCount, required: true},
		"additionalPrice": {column: schema.CatalogPageOption.AdditionalPrice, kind: typeMoney},
		"isActive":        {column: schema.CatalogPageOption.IsActive, kind: typeBool},
		"order":           {column: schema.CatalogPageOption.SortOrder, kind: typeInteger},
	},
	KindThemeCategory: {
		"name":        {column: schema.CatalogThemeCategory.Name, kind: typeText, maxLen: maxNameLen, required: true},
		"description": {column: schema.CatalogThemeCategory.Description, kind: typeOptionalText, maxLen: maxDescriptionLen},
		"isActive":    {column: schema.CatalogThemeCategory.IsActive, kind: typeBool},
		"order":       {column: schema.CatalogThemeCategory.SortOrder, kind: typeInteger},
	},
	KindTheme: {
		"categoryId":    {column: schema.CatalogTheme.CategoryID, kind: typeUUID, required: true},
		"name":          {column: schema.CatalogTheme.Name, kind: typeText, maxLen: maxNameLen, required: true},
		"coverImageUrl": {column: schema.CatalogTheme.CoverImageURL, kind: typeText, maxLen: maxURLLen, required: true},
		"isActive":      {column: schema.CatalogTheme.IsActive, kind: typeBool},
		"order":         {column: schema.CatalogTheme.SortOrder, kind: typeInteger},
	},
}

/*
DecodeFieldSet turns a raw JSON object into a typed [FieldSet].

Only the JSON shape is checked here (known field, correct type). Value rules
such as ranges or formats are applied by [FieldSet.Validate] in the service.

Returns:
  - FieldSet: Typed values keyed by API field name
  - error: apperr.ValidationError listing every unknown or mistyped field
*/
func DecodeFieldSet(kind Kind, raw map[string]json.RawMessage) (FieldSet, error) {
	specs, ok := fieldSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown kind %q", kind)
	}

	validator := &validate.Validator{}
	set := make(FieldSet, len(raw))

	for _, name := range sortedKeys(raw) {
		spec, known := specs[name]
		if !known {
			validator.Custom(name, true, "Unknown or read-only field")
			continue
		}

		value, err := decodeValue(spec.kind, raw[name])
		if err != nil {
			validator.Custom(name, true, err.Error())
			continue
		}
		set[name] = value
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// decodeValue decodes one JSON value according to its declared type.
func decodeValue(kind valueType, raw json.RawMessage) (any, error) {
	isNull := bytes.Equal(bytes.TrimSpace(raw), []byte("null"))

	switch kind {
	case typeOptionalText:
		if isNull {
			return (*string)(nil), nil
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, errors.New("Must be a string or null")
		}
		return &text, nil
	case typeText, typeUUID, typeRatio:
		var text string
		if isNull || json.Unmarshal(raw, &text) != nil {
			return nil, errors.New("Must be a string")
		}
		return text, nil
	case typeMoney:
		var number float64
		if isNull || json.Unmarshal(raw, &number) != nil {
			return nil, errors.New("Must be a number")
		}
		return number, nil
	case typeCount, typeInteger:
		var number int
		if isNull || json.Unmarshal(raw, &number) != nil {
			return nil, errors.New("Must be an integer")
		}
		return number, nil
	case typeBool:
		var flag bool
		if isNull || json.Unmarshal(raw, &flag) != nil {
			return nil, errors.New("Must be a boolean")
		}
		return flag, nil
	default:
		return nil, errors.New("Unsupported field")
	}
}

/*
Validate applies the value rules of kind to every field in the set.

When creating is true, every required field of the variant must be present.
*/
func (set FieldSet) Validate(kind Kind, creating bool) error {
	specs, ok := fieldSpecs[kind]
	if !ok {
		return fmt.Errorf("catalog: unknown kind %q", kind)
	}

	validator := &validate.Validator{}

	for _, name := range sortedKeys(set) {
		spec, known := specs[name]
		if !known {
			validator.Custom(name, true, "Unknown or read-only field")
			continue
		}
		validateValue(validator, name, spec, set[name])
	}

	if creating {
		for _, name := range sortedKeys(specs) {
			if _, present := set[name]; specs[name].required && !present {
				validator.Custom(name, true, "This field is required")
			}
		}
	}

	return validator.Err()
}

// validateValue checks one typed value against its spec.
func validateValue(validator *validate.Validator, name string, spec fieldSpec, value any) {
	switch spec.kind {
	case typeText, typeUUID, typeRatio:
		text, ok := value.(string)
		if !ok {
			validator.Custom(name, true, "Must be a string")
			return
		}
		switch spec.kind {
		case typeUUID:
			validator.UUID(name, text)
		case typeRatio:
			validator.AspectRatio(name, text)
		default:
			validator.Required(name, text).MaxLen(name, text, spec.maxLen)
		}
	case typeOptionalText:
		text, ok := value.(*string)
		if !ok {
			validator.Custom(name, true, "Must be a string or null")
			return
		}
		if text != nil {
			validator.MaxLen(name, *text, spec.maxLen)
		}
	case typeMoney:
		number, ok := value.(float64)
		if !ok {
			validator.Custom(name, true, "Must be a number")
			return
		}
		validator.NonNegative(name, number)
	case typeCount:
		number, ok := value.(int)
		if !ok {
			validator.Custom(name, true, "Must be an integer")
			return
		}
		validator.Range(name, number, 1, maxPageCount)
	case typeInteger:
		if _, ok := value.(int); !ok {
			validator.Custom(name, true, "Must be an integer")
		}
	case typeBool:
		if _, ok := value.(bool); !ok {
			validator.Custom(name, true, "Must be a boolean")
		}
	}
}

// Columns maps the set onto database column names for a SQL SET clause.
func (set FieldSet) Columns(kind Kind) map[string]any {
	specs := fieldSpecs[kind]
	columns := make(map[string]any, len(set))
	for name, value := range set {
		if spec, ok := specs[name]; ok {
			columns[spec.column] = value
		}
	}
	return columns
}

// CategoryID returns the theme category carried by the set, if any.
func (set FieldSet) CategoryID() (string, bool) {
	id, ok := set["categoryId"].(string)
	return id, ok
}

// # Entity Conversions

// Fields returns the creation field set of a book type.
func (bookType *BookType) Fields() FieldSet {
	return FieldSet{
		"name":        bookType.Name,
		"aspectRatio": bookType.AspectRatio,
		"description": bookType.Description,
		"price":       bookType.Price,
		"imageUrl":    bookType.ImageURL,
		"isActive":    bookType.IsActive,
		"order":       bookType.Order,
	}
}

// Fields returns the creation field set of a page option.
func (option *PageOption) Fields() FieldSet {
	return FieldSet{
		"pageCount":       option.PageCount,
		"additionalPrice": option.AdditionalPrice,
		"isActive":        option.IsActive,
		"order":           option.Order,
	}
}

// Fields returns the creation field set of a theme category.
func (category *ThemeCategory) Fields() FieldSet {
	return FieldSet{
		"name":        category.Name,
		"description": category.Description,
		"isActive":    category.IsActive,
		"order":       category.Order,
	}
}

// Fields returns the creation field set of a theme.
func (theme *Theme) Fields() FieldSet {
	return FieldSet{
		"categoryId":    theme.CategoryID,
		"name":          theme.Name,
		"coverImageUrl": theme.CoverImageURL,
		"isActive":      theme.IsActive,
		"order":         theme.Order,
	}
}

func sortedKeys[V any](values map[string]V) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
