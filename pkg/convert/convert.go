// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions for query parameters.

Use it only where a malformed value should silently fall back to a default
(page numbers, limits). Domain input goes through the validate package.
*/
package convert

import "strconv"

// ToIntD converts a string to an int, returning def when it is empty or malformed.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}
	return def
}
