// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package photobook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/dberr"
	"github.com/memry/photobook/internal/platform/validate"
	"github.com/memry/photobook/pkg/pagination"
	"github.com/memry/photobook/pkg/uuid"
)

// # Dependencies

// Catalog resolves the items a photobook references. [catalog.Service] satisfies it.
type Catalog interface {
	GetBookType(context context.Context, id string) (*catalog.BookType, error)
	GetPageOption(context context.Context, id string) (*catalog.PageOption, error)
	GetTheme(context context.Context, id string) (*catalog.Theme, error)
}

// Photos drops the photo records owned by a book and re-signs page photo
// URLs. [photo.Service] satisfies it.
type Photos interface {
	DeleteMetadataForBook(context context.Context, photobookID string) (int64, error)
	SignURLs(context context.Context, storageIDs []string) (map[string]string, error)
}

// # Service Layer

// Service implements the photobook lifecycle.
type Service struct {
	repo    Repository
	catalog Catalog
	photos  Photos
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, catalog Catalog, photos Photos, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		photos:  photos,
		logger:  logger,
	}
}

// # Creation

/*
Create starts a draft photobook from the three wizard selections.

Description: The references are checked in order book type, page option,
theme and the first missing one is reported. The book receives one empty
page per page of the chosen option and a fresh share id. A share id
collision is retried a bounded number of times.

Parameters:
  - context: context.Context
  - input: CreateRequest

Returns:
  - *Detail: The stored book with its catalog items
  - error: ValidationError, InvalidReference or Internal
*/
func (service *Service) Create(context context.Context, input CreateRequest) (*Detail, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBookTypeID, input.BookTypeID)
	validator.Required(FieldPageOptionID, input.PageOptionID)
	validator.Required(FieldThemeID, input.ThemeID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	bookType, err := service.catalog.GetBookType(context, input.BookTypeID)
	if err != nil {
		return nil, reference(err, resourceBookType)
	}
	option, err := service.catalog.GetPageOption(context, input.PageOptionID)
	if err != nil {
		return nil, reference(err, resourcePageOption)
	}
	theme, err := service.catalog.GetTheme(context, input.ThemeID)
	if err != nil {
		return nil, reference(err, resourceTheme)
	}

	themeID := theme.ID
	book := &Photobook{
		ID:           uuid.New(),
		BookTypeID:   bookType.ID,
		PageOptionID: option.ID,
		ThemeID:      &themeID,
		Status:       StatusDraft,
		Pages:        NewPages(option.PageCount),
	}

	if err := service.insertWithShareID(context, book); err != nil {
		return nil, err
	}

	service.logger.Info("photobook_created",
		slog.String("photobook_id", book.ID),
		slog.String("share_id", book.ShareID),
		slog.Int("pages", len(book.Pages)),
	)
	return &Detail{Photobook: book, BookType: bookType, PageOption: option, Theme: theme}, nil
}

func (service *Service) insertWithShareID(context context.Context, book *Photobook) error {
	for attempt := 1; attempt <= maxShareIDAttempts; attempt++ {
		shareID, err := NewShareID()
		if err != nil {
			return apperr.Internal(err)
		}
		book.ShareID = shareID

		err = service.repo.Insert(context, book)
		if err == nil {
			return nil
		}
		if !dberr.IsUniqueViolation(err) {
			return err
		}

		service.logger.Warn("share_id_collision",
			slog.String("photobook_id", book.ID),
			slog.Int("attempt", attempt),
		)
	}
	return apperr.Internal(fmt.Errorf("no free share id after %d attempts", maxShareIDAttempts))
}

// reference turns a catalog NotFound into an InvalidReference naming resource.
func reference(err error, resource string) error {
	if apperr.IsNotFound(err) {
		return apperr.InvalidReference(resource)
	}
	return err
}

// # Reads

// Get returns the stored book without resolving its catalog references.
func (service *Service) Get(context context.Context, id string) (*Photobook, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound(resourcePhotobook)
	}
	return service.repo.Get(context, id)
}

// GetByID returns the book with its catalog references resolved.
func (service *Service) GetByID(context context.Context, id string) (*Detail, error) {
	book, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}
	return service.resolve(context, book)
}

// GetByShareID returns the book published under shareID, with references resolved.
func (service *Service) GetByShareID(context context.Context, shareID string) (*Detail, error) {
	if !IsShareID(shareID) {
		return nil, apperr.NotFound(resourcePhotobook)
	}

	book, err := service.repo.GetByShareID(context, shareID)
	if err != nil {
		return nil, err
	}
	return service.resolve(context, book)
}

/*
resolve attaches the catalog items a book points at.

Description: Catalog items carry no foreign key from the book, so a
deleted item resolves to nil instead of failing the read.
*/
func (service *Service) resolve(context context.Context, book *Photobook) (*Detail, error) {
	detail := &Detail{Photobook: book}

	bookType, err := service.catalog.GetBookType(context, book.BookTypeID)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}
	detail.BookType = bookType

	option, err := service.catalog.GetPageOption(context, book.PageOptionID)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}
	detail.PageOption = option

	if book.ThemeID != nil {
		theme, err := service.catalog.GetTheme(context, *book.ThemeID)
		if err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
		detail.Theme = theme
	}

	if err := service.signPhotoURLs(context, book.Pages); err != nil {
		return nil, err
	}
	return detail, nil
}

// signPhotoURLs replaces the stored photo URLs of pages with fresh ones.
func (service *Service) signPhotoURLs(context context.Context, pages []Page) error {
	var storageIDs []string
	for _, page := range pages {
		for _, photo := range page.Photos {
			storageIDs = append(storageIDs, photo.StorageID)
		}
	}
	if len(storageIDs) == 0 {
		return nil
	}

	urls, err := service.photos.SignURLs(context, storageIDs)
	if err != nil {
		return err
	}
	for i := range pages {
		for j := range pages[i].Photos {
			if url, ok := urls[pages[i].Photos[j].StorageID]; ok {
				pages[i].Photos[j].URL = url
			}
		}
	}
	return nil
}

/*
ListAll returns one page of photobooks for the admin console, newest first.
*/
func (service *Service) ListAll(context context.Context, params pagination.Params) ([]*Photobook, pagination.Meta, error) {
	books, total, err := service.repo.List(context, params.Offset(), params.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return books, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Page Edits

/*
UpdatePages replaces the whole page sequence.

Description: Saves are last-writer-wins. The sequence is validated
structurally before anything is written.

Returns:
  - *Photobook: The stored book
  - error: ValidationError or NotFound
*/
func (service *Service) UpdatePages(context context.Context, id string, pages []Page) (*Photobook, error) {
	if pages == nil {
		return nil, validate.RequiredError(FieldPages, "This field is required")
	}
	if err := ValidatePages(pages); err != nil {
		return nil, err
	}
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound(resourcePhotobook)
	}
	if err := service.checkPageCount(context, id, len(pages)); err != nil {
		return nil, err
	}

	normalized := normalizePages(pages)
	if err := service.repo.UpdatePages(context, id, normalized); err != nil {
		return nil, err
	}

	service.logger.Info("photobook_pages_saved",
		slog.String("photobook_id", id),
		slog.Int("pages", len(normalized)),
	)
	return service.repo.Get(context, id)
}

// checkPageCount requires a full snapshot to match the book's page option.
// A dangling page option has no count to compare against.
func (service *Service) checkPageCount(context context.Context, id string, count int) error {
	book, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}

	option, err := service.catalog.GetPageOption(context, book.PageOptionID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}
	if option.PageCount != count {
		return validate.RequiredError(FieldPages, fmt.Sprintf("Expected %d pages, got %d", option.PageCount, count))
	}
	return nil
}

/*
UpdatePage replaces the page carrying the same page number.

Returns:
  - *Photobook: The stored book
  - error: NotFound ("Page") when no page has that number, the sequence is left unchanged
*/
func (service *Service) UpdatePage(context context.Context, id string, page Page) (*Photobook, error) {
	if err := ValidatePage(page); err != nil {
		return nil, err
	}

	book, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range book.Pages {
		if book.Pages[i].PageNumber == page.PageNumber {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, apperr.NotFound(resourcePage)
	}

	pages := append([]Page(nil), book.Pages...)
	pages[index] = normalizePage(page)

	if err := service.repo.UpdatePages(context, id, pages); err != nil {
		return nil, err
	}
	book.Pages = pages
	return book, nil
}

// # Selections

/*
UpdateSelections changes any subset of the catalog references.

Description: Every provided id is checked before anything is written. A
new page option resizes the sequence: empty pages are appended, or the
tail is cut.

Returns:
  - *Detail: The stored book with resolved references
  - error: NotFound, InvalidReference or ValidationError
*/
func (service *Service) UpdateSelections(context context.Context, id string, selections Selections) (*Detail, error) {
	book, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}
	if selections.IsEmpty() {
		return service.resolve(context, book)
	}

	var pages []Page

	if selections.BookTypeID != nil {
		if _, err := service.catalog.GetBookType(context, *selections.BookTypeID); err != nil {
			return nil, reference(err, resourceBookType)
		}
	}
	if selections.PageOptionID != nil {
		option, err := service.catalog.GetPageOption(context, *selections.PageOptionID)
		if err != nil {
			return nil, reference(err, resourcePageOption)
		}
		if option.PageCount != len(book.Pages) {
			pages = Resize(book.Pages, option.PageCount)
		}
	}
	if selections.ThemeID != nil {
		if _, err := service.catalog.GetTheme(context, *selections.ThemeID); err != nil {
			return nil, reference(err, resourceTheme)
		}
	}

	if err := service.repo.UpdateSelections(context, id, selections, pages); err != nil {
		return nil, err
	}

	if pages != nil {
		service.logger.Info("photobook_resized",
			slog.String("photobook_id", id),
			slog.Int("from", len(book.Pages)),
			slog.Int("to", len(pages)),
		)
	}
	return service.GetByID(context, id)
}

// # Status

/*
Complete moves a draft to completed and returns its share id.

Description: Completing a completed book returns the share id again.
An ordered book cannot be completed.

Returns:
  - string: The share id
  - error: NotFound or Conflict
*/
func (service *Service) Complete(context context.Context, id string) (string, error) {
	book, err := service.Get(context, id)
	if err != nil {
		return "", err
	}

	switch book.Status {
	case StatusCompleted:
		return book.ShareID, nil
	case StatusOrdered:
		return "", apperr.Conflict("Photobook has already been ordered")
	}

	moved, err := service.repo.Transition(context, id, StatusDraft, StatusCompleted)
	if err != nil {
		return "", err
	}
	if !moved {
		// Another request changed the status in between; judge the new one.
		current, err := service.repo.Get(context, id)
		if err != nil {
			return "", err
		}
		if current.Status != StatusCompleted {
			return "", apperr.Conflict("Photobook has already been ordered")
		}
		return current.ShareID, nil
	}

	service.logger.Info("photobook_completed",
		slog.String("photobook_id", id),
		slog.String("share_id", book.ShareID),
	)
	return book.ShareID, nil
}

// MarkOrdered moves a completed book to ordered. Any other status is a Conflict.
func (service *Service) MarkOrdered(context context.Context, id string) (*Photobook, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound(resourcePhotobook)
	}

	moved, err := service.repo.Transition(context, id, StatusCompleted, StatusOrdered)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperr.Conflict("Only completed photobooks can be marked as ordered")
	}

	service.logger.Info("photobook_ordered", slog.String("photobook_id", id))
	return service.repo.Get(context, id)
}

// # Deletion

/*
Delete removes the photo records of a book, then the book itself.

Description: Photo binaries stay in the store. Callers that want them gone
use the photo service first.
*/
func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound(resourcePhotobook)
	}

	photos, err := service.photos.DeleteMetadataForBook(context, id)
	if err != nil {
		return err
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("photobook_deleted",
		slog.String("photobook_id", id),
		slog.Int64("photos", photos),
	)
	return nil
}

// DeleteAll removes every photobook and returns the count.
func (service *Service) DeleteAll(context context.Context) (int64, error) {
	return service.repo.DeleteAll(context)
}

// # Helpers

func normalizePages(pages []Page) []Page {
	normalized := make([]Page, len(pages))
	for i, page := range pages {
		normalized[i] = normalizePage(page)
	}
	return normalized
}

// normalizePage keeps empty lists as [] in the stored JSON.
func normalizePage(page Page) Page {
	if page.Photos == nil {
		page.Photos = []PagePhoto{}
	}
	if page.Texts == nil {
		page.Texts = []PageText{}
	}
	return page
}
