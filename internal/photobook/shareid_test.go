// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photobook_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/photobook"
)

func TestNewShareID(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{10}$`)
	seen := map[string]bool{}

	for range 500 {
		id, err := photobook.NewShareID()
		require.NoError(t, err)
		assert.Regexp(t, pattern, id)
		assert.True(t, photobook.IsShareID(id))
		seen[id] = true
	}
	assert.Len(t, seen, 500)
}

func TestIsShareID(t *testing.T) {
	assert.False(t, photobook.IsShareID("ABCDEFGHIJ"))
	assert.False(t, photobook.IsShareID("abc"))
	assert.False(t, photobook.IsShareID("abcdefghij1"))
	assert.True(t, photobook.IsShareID("k3x9q0aa7z"))
}
