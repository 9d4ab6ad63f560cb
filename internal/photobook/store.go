// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photobook

import "context"

// Repository persists photobooks. The page sequence is read and written whole.
type Repository interface {

	/*
		Insert stores a new photobook and fills its timestamps.

		Returns:
		  - error: apperr.Conflict (wrapping the unique violation) on a share id collision
	*/
	Insert(context context.Context, book *Photobook) error

	// Get returns one photobook or apperr.NotFound.
	Get(context context.Context, id string) (*Photobook, error)

	// GetByShareID returns the photobook published under shareID or apperr.NotFound.
	GetByShareID(context context.Context, shareID string) (*Photobook, error)

	// UpdatePages replaces the page sequence. Returns apperr.NotFound when the book is gone.
	UpdatePages(context context.Context, id string, pages []Page) error

	/*
		UpdateSelections writes the provided catalog references in one statement.

		Parameters:
		  - selections: Nil fields are left untouched
		  - pages: The resized sequence, or nil to keep the stored one
	*/
	UpdateSelections(context context.Context, id string, selections Selections, pages []Page) error

	/*
		Transition moves the status from one value to another.

		Returns:
		  - bool: false when the book exists but is not in the from status
		  - error: apperr.NotFound when the book is gone
	*/
	Transition(context context.Context, id string, from, to Status) (bool, error)

	// Delete removes one photobook or returns apperr.NotFound.
	Delete(context context.Context, id string) error

	// List returns one page of photobooks, newest first, and the total count.
	List(context context.Context, offset, limit int) ([]*Photobook, int, error)

	// DeleteAll removes every photobook and returns the count.
	DeleteAll(context context.Context) (int64, error)
}
