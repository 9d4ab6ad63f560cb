// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/memry/photobook/internal/photo"
	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/validate"
	"github.com/memry/photobook/pkg/uuid"
)

// # Dependencies

// Books is the slice of [photobook.Service] the editor needs.
type Books interface {
	Get(context context.Context, id string) (*photobook.Photobook, error)
	UpdatePages(context context.Context, id string, pages []photobook.Page) (*photobook.Photobook, error)
	Complete(context context.Context, id string) (string, error)
}

// Photos lists a book's uploads. [photo.Service] satisfies it.
type Photos interface {
	ListForBook(context context.Context, photobookID string) ([]*photo.Asset, error)
}

// # Service Layer

// Service implements the editor operations on a Redis working copy.
type Service struct {
	store  Store
	books  Books
	photos Photos
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store Store, books Books, photos Photos, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		books:  books,
		photos: photos,
		logger: logger,
	}
}

// # Session Lifecycle

/*
Open starts an editor session on a photobook.

Description: When every stored page is empty, the book is on its first
load and the Nth uploaded photo is placed full-page on the Nth page.
Otherwise the stored pages are used as they are.

Parameters:
  - context: context.Context
  - photobookID: string (UUID)

Returns:
  - *View: The new working copy
  - error: NotFound, or Conflict for an ordered book
*/
func (service *Service) Open(context context.Context, photobookID string) (*View, error) {
	if photobookID == "" {
		return nil, validate.RequiredError(FieldPhotobookID, "This field is required")
	}

	book, err := service.books.Get(context, photobookID)
	if err != nil {
		return nil, err
	}
	if book.Status == photobook.StatusOrdered {
		return nil, apperr.Conflict("Photobook has already been ordered")
	}

	assets, err := service.photos.ListForBook(context, photobookID)
	if err != nil {
		return nil, err
	}

	photos := make([]Photo, len(assets))
	urls := make(map[string]string, len(assets))
	for i, asset := range assets {
		photos[i] = Photo{StorageID: asset.StorageID, URL: asset.URL, Filename: asset.Filename}
		urls[asset.StorageID] = asset.URL
	}

	// Stored URLs may be expired presigns, the listed assets carry fresh ones.
	pages := book.Pages
	for i := range pages {
		for j := range pages[i].Photos {
			if url, ok := urls[pages[i].Photos[j].StorageID]; ok {
				pages[i].Photos[j].URL = url
			}
		}
	}
	autoFilled := false
	if allEmpty(pages) && len(photos) > 0 {
		pages = autoFill(pages, photos)
		autoFilled = true
	}

	now := time.Now().UTC()
	session := &Session{
		ID:          uuid.New(),
		PhotobookID: book.ID,
		ShareID:     book.ShareID,
		Pages:       pages,
		Photos:      photos,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := service.store.Create(context, session.ID, session); err != nil {
		return nil, err
	}

	service.logger.Info("editor_opened",
		slog.String("session_id", session.ID),
		slog.String("photobook_id", book.ID),
		slog.Int("photos", len(photos)),
		slog.Bool("auto_filled", autoFilled),
	)
	return session.view(), nil
}

// Get returns the working copy, NotFound once it expired.
func (service *Service) Get(context context.Context, sessionID string) (*View, error) {
	session, err := service.store.Get(context, sessionID)
	if err != nil {
		return nil, err
	}
	return session.view(), nil
}

// Discard drops the working copy without saving.
func (service *Service) Discard(context context.Context, sessionID string) error {
	return service.store.Delete(context, sessionID)
}

/*
Save writes the working copy's pages to the photobook.

Returns:
  - *photobook.Photobook: The stored book
  - error: NotFound or ValidationError from the photobook
*/
func (service *Service) Save(context context.Context, sessionID string) (*photobook.Photobook, error) {
	session, err := service.store.Get(context, sessionID)
	if err != nil {
		return nil, err
	}

	book, err := service.books.UpdatePages(context, session.PhotobookID, session.Pages)
	if err != nil {
		return nil, err
	}

	service.logger.Info("editor_saved",
		slog.String("session_id", sessionID),
		slog.String("photobook_id", session.PhotobookID),
	)
	return book, nil
}

/*
Complete saves, completes the photobook and closes the session.

Returns:
  - string: The share id
  - error: As [Service.Save] or Conflict from the photobook
*/
func (service *Service) Complete(context context.Context, sessionID string) (string, error) {
	book, err := service.Save(context, sessionID)
	if err != nil {
		return "", err
	}

	shareID, err := service.books.Complete(context, book.ID)
	if err != nil {
		return "", err
	}

	if err := service.store.Delete(context, sessionID); err != nil {
		service.logger.Warn("editor_session_delete_failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
	}
	return shareID, nil
}

// # Page Edits

/*
ChangeLayout switches a page to another grid.

Description: Rectangles are re-derived from the grid. Photos keep their
slot index and those beyond the new slot count are dropped. Remaining
empty slots are filled, in upload order, with photos not placed anywhere
in the book.
*/
func (service *Service) ChangeLayout(context context.Context, sessionID string, pageNumber int, layout photobook.Layout) (*View, error) {
	if !layout.IsValid() {
		return nil, validate.RequiredError(FieldLayout, "Must be one of 1, 2, 3, 4, 6")
	}

	return service.edit(context, sessionID, pageNumber, func(session *Session, page *photobook.Page) error {
		slots := layout.SlotCount()
		kept := page.Photos
		if len(kept) > slots {
			kept = kept[:slots]
		}

		page.Layout = layout
		page.Photos = slices.Clone(kept)

		for _, candidate := range session.Unplaced() {
			if len(page.Photos) >= slots {
				break
			}
			page.Photos = append(page.Photos, photobook.PagePhoto{StorageID: candidate.StorageID, URL: candidate.URL})
		}

		page.Photos = layout.Reflow(page.Photos)
		return nil
	})
}

// ChangeBackground sets a page's background to a #rrggbb color.
func (service *Service) ChangeBackground(context context.Context, sessionID string, pageNumber int, color string) (*View, error) {
	validator := &validate.Validator{}
	validator.HexColor(FieldColor, color)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.edit(context, sessionID, pageNumber, func(_ *Session, page *photobook.Page) error {
		page.BackgroundColor = color
		return nil
	})
}

/*
AssignPhoto places an uploaded photo in a slot.

Description: A slot holding a photo is replaced. A slot past the last
placed photo appends, so slots always fill contiguously.

Returns:
  - *View: The updated working copy
  - error: InvalidReference for a photo not uploaded to this book, ValidationError for a bad slot
*/
func (service *Service) AssignPhoto(context context.Context, sessionID string, pageNumber, slot int, storageID string) (*View, error) {
	if storageID == "" {
		return nil, validate.RequiredError(FieldStorageID, "This field is required")
	}

	return service.edit(context, sessionID, pageNumber, func(session *Session, page *photobook.Page) error {
		uploaded := session.photo(storageID)
		if uploaded == nil {
			return apperr.InvalidReference(resourcePhoto)
		}

		slots := page.Layout.SlotCount()
		if slot < 0 || slot >= slots {
			return validate.RequiredError(FieldSlot, fmt.Sprintf("Must be between 0 and %d", slots-1))
		}

		placed := photobook.PagePhoto{StorageID: uploaded.StorageID, URL: uploaded.URL}
		if slot < len(page.Photos) {
			placed.Rotation = page.Photos[slot].Rotation
			page.Photos[slot] = page.Layout.Place(placed, slot)
			return nil
		}

		page.Photos = append(page.Photos, page.Layout.Place(placed, len(page.Photos)))
		return nil
	})
}

// RemovePhoto empties a slot. The remaining photos reflow into the grid.
func (service *Service) RemovePhoto(context context.Context, sessionID string, pageNumber, slot int) (*View, error) {
	return service.edit(context, sessionID, pageNumber, func(_ *Session, page *photobook.Page) error {
		if slot < 0 || slot >= len(page.Photos) {
			return validate.RequiredError(FieldSlot, "Slot is empty")
		}

		page.Photos = page.Layout.Reflow(slices.Delete(page.Photos, slot, slot+1))
		return nil
	})
}

// # Text Overlays

// AddText appends a text overlay with the default style and a fresh id.
func (service *Service) AddText(context context.Context, sessionID string, pageNumber int) (*View, error) {
	return service.edit(context, sessionID, pageNumber, func(_ *Session, page *photobook.Page) error {
		page.Texts = append(page.Texts, photobook.PageText{
			ID:         uuid.New(),
			Content:    DefaultTextContent,
			X:          DefaultTextX,
			Y:          DefaultTextY,
			FontSize:   DefaultTextFontSize,
			FontFamily: DefaultTextFontFamily,
			Color:      DefaultTextColor,
		})
		return nil
	})
}

// EditText applies a partial change to one text overlay.
func (service *Service) EditText(context context.Context, sessionID string, pageNumber int, textID string, patch TextPatch) (*View, error) {
	return service.edit(context, sessionID, pageNumber, func(_ *Session, page *photobook.Page) error {
		index := slices.IndexFunc(page.Texts, func(text photobook.PageText) bool { return text.ID == textID })
		if index < 0 {
			return apperr.NotFound(resourceText)
		}

		text := applyPatch(page.Texts[index], patch)
		if err := photobook.ValidateText(text); err != nil {
			return err
		}
		page.Texts[index] = text
		return nil
	})
}

// DeleteText removes one text overlay.
func (service *Service) DeleteText(context context.Context, sessionID string, pageNumber int, textID string) (*View, error) {
	return service.edit(context, sessionID, pageNumber, func(_ *Session, page *photobook.Page) error {
		index := slices.IndexFunc(page.Texts, func(text photobook.PageText) bool { return text.ID == textID })
		if index < 0 {
			return apperr.NotFound(resourceText)
		}
		page.Texts = slices.Delete(page.Texts, index, index+1)
		return nil
	})
}

// # Helpers

// edit runs change on one page inside an atomic session update.
func (service *Service) edit(context context.Context, sessionID string, pageNumber int, change func(*Session, *photobook.Page) error) (*View, error) {
	session, err := service.store.Update(context, sessionID, func(session *Session) error {
		page := session.page(pageNumber)
		if page == nil {
			return apperr.NotFound(resourcePage)
		}
		if err := change(session, page); err != nil {
			return err
		}
		session.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session.view(), nil
}

func allEmpty(pages []photobook.Page) bool {
	for _, page := range pages {
		if !page.IsEmpty() {
			return false
		}
	}
	return true
}

// autoFill places the Nth photo full-page on the Nth page.
func autoFill(pages []photobook.Page, photos []Photo) []photobook.Page {
	filled := slices.Clone(pages)
	for i := range filled {
		if i >= len(photos) {
			break
		}
		filled[i].Layout = photobook.LayoutSingle
		filled[i].Photos = []photobook.PagePhoto{
			photobook.LayoutSingle.Place(photobook.PagePhoto{StorageID: photos[i].StorageID, URL: photos[i].URL}, 0),
		}
	}
	return filled
}

func applyPatch(text photobook.PageText, patch TextPatch) photobook.PageText {
	if patch.Content != nil {
		text.Content = *patch.Content
	}
	if patch.X != nil {
		text.X = *patch.X
	}
	if patch.Y != nil {
		text.Y = *patch.Y
	}
	if patch.FontSize != nil {
		text.FontSize = *patch.FontSize
	}
	if patch.FontFamily != nil {
		text.FontFamily = *patch.FontFamily
	}
	if patch.Color != nil {
		text.Color = *patch.Color
	}
	if patch.Rotation != nil {
		text.Rotation = *patch.Rotation
	}
	return text
}
