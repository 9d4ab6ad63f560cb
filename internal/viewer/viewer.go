// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package viewer serves the read-only book behind a share link.
package viewer

import (
	"context"
	"log/slog"
	"time"

	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/photobook"
)

// Books looks up a photobook by share id. [photobook.Service] satisfies it.
type Books interface {
	GetByShareID(context context.Context, shareID string) (*photobook.Detail, error)
}

// Book is the public projection of a photobook.
//
// The internal id is left out so a share link cannot be turned into an
// editing handle.
type Book struct {
	ShareID    string              `json:"shareId"`
	Status     photobook.Status    `json:"status"`
	BookType   *catalog.BookType   `json:"bookType"`
	PageOption *catalog.PageOption `json:"pageOption"`
	Theme      *catalog.Theme      `json:"theme"`
	PageCount  int                 `json:"pageCount"`
	Pages      []photobook.Page    `json:"pages"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// Service resolves share links.
type Service struct {
	books  Books
	logger *slog.Logger
}

// NewService constructs a new viewer [Service].
func NewService(books Books, logger *slog.Logger) *Service {
	return &Service{books: books, logger: logger}
}

/*
View returns the book published under shareID.

Description: Any status is viewable, drafts included. Malformed and
unknown ids are both NotFound.

Returns:
  - *Book: The public projection
  - error: NotFound if no book has this share id
*/
func (service *Service) View(context context.Context, shareID string) (*Book, error) {
	detail, err := service.books.GetByShareID(context, shareID)
	if err != nil {
		return nil, err
	}

	service.logger.Debug("photobook_viewed",
		slog.String("share_id", shareID),
		slog.String("status", string(detail.Status)),
	)

	return &Book{
		ShareID:    detail.ShareID,
		Status:     detail.Status,
		BookType:   detail.BookType,
		PageOption: detail.PageOption,
		Theme:      detail.Theme,
		PageCount:  len(detail.Pages),
		Pages:      detail.Pages,
		UpdatedAt:  detail.UpdatedAt,
	}, nil
}
