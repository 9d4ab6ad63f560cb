// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Portrait", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "owner@memry.app", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"display_name", "Owner <owner@memry.app>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Formats covers the hex color, aspect ratio and percent rules.
*/
func TestValidator_Formats(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(v *validate.Validator)
		isValid bool
	}{
		{"white", func(v *validate.Validator) { v.HexColor("c", "#ffffff") }, true},
		{"upper_hex", func(v *validate.Validator) { v.HexColor("c", "#A0B1C2") }, true},
		{"short_hex", func(v *validate.Validator) { v.HexColor("c", "#fff") }, false},
		{"named_color", func(v *validate.Validator) { v.HexColor("c", "white") }, false},
		{"ratio", func(v *validate.Validator) { v.AspectRatio("r", "3:4") }, true},
		{"ratio_zero", func(v *validate.Validator) { v.AspectRatio("r", "0:4") }, false},
		{"ratio_text", func(v *validate.Validator) { v.AspectRatio("r", "square") }, false},
		{"percent_edge", func(v *validate.Validator) { v.Percent("x", 100) }, true},
		{"percent_over", func(v *validate.Validator) { v.Percent("x", 100.5) }, false},
		{"percent_nan", func(v *validate.Validator) { v.Percent("x", math.NaN()) }, false},
		{"price_zero", func(v *validate.Validator) { v.NonNegative("p", 0) }, true},
		{"price_negative", func(v *validate.Validator) { v.NonNegative("p", -0.01) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.apply(v)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").
		MinLen("password", "abc", 6).
		Email("email", "not-an-email").
		OneOf("layout", "5", "1", "2").
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 4 errors
	assert.Len(t, ae.Details, 4)
}
