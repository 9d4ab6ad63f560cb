// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/memry/photobook/pkg/uuid"
)

func TestNew_IsTimeOrdered(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.IsValid(first))
	assert.Less(t, first, second)
}

func TestIsValid(t *testing.T) {
	assert.True(t, uuid.IsValid("0190b7a4-5f1e-7c3a-9d2b-4e8f6a1c2b3d"))
	assert.False(t, uuid.IsValid("urn:uuid:0190b7a4-5f1e-7c3a-9d2b-4e8f6a1c2b3d"))
	assert.False(t, uuid.IsValid("not-a-uuid"))
	assert.False(t, uuid.IsValid(""))
}
