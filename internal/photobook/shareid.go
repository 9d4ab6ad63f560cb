// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photobook

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

const (
	shareIDLength   = 10
	shareIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	// maxShareIDAttempts bounds the retry loop on a unique index collision.
	maxShareIDAttempts = 5
)

var shareIDPattern = regexp.MustCompile(`^[a-z0-9]{10}$`)

// IsShareID reports whether s has the share id shape.
func IsShareID(s string) bool {
	return shareIDPattern.MatchString(s)
}

/*
NewShareID draws 10 characters uniformly from [a-z0-9].

Bytes at or above 252 (the largest multiple of 36 below 256) are rejected
so every character is equally likely.
*/
func NewShareID() (string, error) {
	const limit = 256 - 256%len(shareIDAlphabet)

	id := make([]byte, 0, shareIDLength)
	buffer := make([]byte, shareIDLength*2)

	for len(id) < shareIDLength {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("share id entropy: %w", err)
		}
		for _, b := range buffer {
			if int(b) >= limit {
				continue
			}
			id = append(id, shareIDAlphabet[int(b)%len(shareIDAlphabet)])
			if len(id) == shareIDLength {
				break
			}
		}
	}
	return string(id), nil
}
