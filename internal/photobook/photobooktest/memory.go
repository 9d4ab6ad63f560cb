// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package photobooktest provides an in-memory [photobook.Repository] for service tests.
package photobooktest

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/dberr"
)

// Memory stores books as JSON snapshots, the way the JSONB column does.
type Memory struct {
	mu    sync.Mutex
	books map[string][]byte
	clock time.Time

	// Collisions makes the next n inserts fail with a unique violation.
	Collisions int

	// Inserts counts insert attempts, failed ones included.
	Inserts int
}

var _ photobook.Repository = (*Memory)(nil)

// NewMemory returns an empty repository.
func NewMemory() *Memory {
	return &Memory{
		books: map[string][]byte{},
		clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Put stores a book as-is, bypassing validation. Used to seed fixtures.
func (memory *Memory) Put(book *photobook.Photobook) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.store(book)
}

// Len returns the number of stored books.
func (memory *Memory) Len() int {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	return len(memory.books)
}

func (memory *Memory) Insert(_ context.Context, book *photobook.Photobook) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.Inserts++
	if memory.Collisions > 0 {
		memory.Collisions--
		return dberr.WrapResource(&pgconn.PgError{Code: "23505"}, "Photobook", "insert_photobook")
	}
	for _, stored := range memory.books {
		if memory.decode(stored).ShareID == book.ShareID {
			return dberr.WrapResource(&pgconn.PgError{Code: "23505"}, "Photobook", "insert_photobook")
		}
	}

	memory.clock = memory.clock.Add(time.Minute)
	book.CreatedAt, book.UpdatedAt = memory.clock, memory.clock
	memory.store(book)
	return nil
}

func (memory *Memory) Get(_ context.Context, id string) (*photobook.Photobook, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	stored, ok := memory.books[id]
	if !ok {
		return nil, apperr.NotFound("Photobook")
	}
	return memory.decode(stored), nil
}

func (memory *Memory) GetByShareID(_ context.Context, shareID string) (*photobook.Photobook, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, stored := range memory.books {
		if book := memory.decode(stored); book.ShareID == shareID {
			return book, nil
		}
	}
	return nil, apperr.NotFound("Photobook")
}

func (memory *Memory) UpdatePages(_ context.Context, id string, pages []photobook.Page) error {
	return memory.update(id, func(book *photobook.Photobook) bool {
		book.Pages = pages
		return true
	})
}

func (memory *Memory) UpdateSelections(_ context.Context, id string, selections photobook.Selections, pages []photobook.Page) error {
	return memory.update(id, func(book *photobook.Photobook) bool {
		if selections.BookTypeID != nil {
			book.BookTypeID = *selections.BookTypeID
		}
		if selections.PageOptionID != nil {
			book.PageOptionID = *selections.PageOptionID
		}
		if selections.ThemeID != nil {
			themeID := *selections.ThemeID
			book.ThemeID = &themeID
		}
		if pages != nil {
			book.Pages = pages
		}
		return true
	})
}

func (memory *Memory) Transition(_ context.Context, id string, from, to photobook.Status) (bool, error) {
	moved := false
	err := memory.update(id, func(book *photobook.Photobook) bool {
		if book.Status != from {
			return false
		}
		book.Status = to
		moved = true
		return true
	})
	return moved, err
}

func (memory *Memory) Delete(_ context.Context, id string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if _, ok := memory.books[id]; !ok {
		return apperr.NotFound("Photobook")
	}
	delete(memory.books, id)
	return nil
}

func (memory *Memory) List(_ context.Context, offset, limit int) ([]*photobook.Photobook, int, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	books := make([]*photobook.Photobook, 0, len(memory.books))
	for _, stored := range memory.books {
		books = append(books, memory.decode(stored))
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].ID > books[j].ID
		}
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})

	total := len(books)
	if offset >= total {
		return []*photobook.Photobook{}, total, nil
	}
	end := min(offset+limit, total)
	return books[offset:end], total, nil
}

func (memory *Memory) DeleteAll(_ context.Context) (int64, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	removed := int64(len(memory.books))
	memory.books = map[string][]byte{}
	return removed, nil
}

// # Helpers

func (memory *Memory) update(id string, apply func(*photobook.Photobook) bool) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	stored, ok := memory.books[id]
	if !ok {
		return apperr.NotFound("Photobook")
	}

	book := memory.decode(stored)
	if !apply(book) {
		return nil
	}
	memory.clock = memory.clock.Add(time.Second)
	book.UpdatedAt = memory.clock
	memory.store(book)
	return nil
}

func (memory *Memory) store(book *photobook.Photobook) {
	encoded, err := json.Marshal(book)
	if err != nil {
		panic(err)
	}
	memory.books[book.ID] = encoded
}

func (memory *Memory) decode(stored []byte) *photobook.Photobook {
	book := &photobook.Photobook{}
	if err := json.Unmarshal(stored, book); err != nil {
		panic(err)
	}
	return book
}
