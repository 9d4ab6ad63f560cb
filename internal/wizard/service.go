// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wizard

import (
	"context"
	"log/slog"
	"time"

	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/validate"
	"github.com/memry/photobook/pkg/uuid"
)

// # Dependencies

// Catalog looks up selectable items. [catalog.Service] satisfies it.
type Catalog interface {
	GetBookType(context context.Context, id string) (*catalog.BookType, error)
	GetPageOption(context context.Context, id string) (*catalog.PageOption, error)
	GetTheme(context context.Context, id string) (*catalog.Theme, error)
}

// Books creates and updates the photobook behind a wizard. [photobook.Service] satisfies it.
type Books interface {
	Create(context context.Context, input photobook.CreateRequest) (*photobook.Detail, error)
	UpdateSelections(context context.Context, id string, selections photobook.Selections) (*photobook.Detail, error)
	Delete(context context.Context, id string) error
}

// # Service Layer

// Service implements the wizard state machine.
type Service struct {
	store   Store
	catalog Catalog
	books   Books
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store Store, catalog Catalog, books Books, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		books:   books,
		logger:  logger,
	}
}

// # Lifecycle

// Start opens a wizard on the BookType step.
func (service *Service) Start(context context.Context) (*View, error) {
	now := time.Now().UTC()
	session := &Session{
		ID:        uuid.New(),
		Step:      StepBookType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.store.Create(context, session.ID, session); err != nil {
		return nil, err
	}

	service.logger.Info("wizard_started", slog.String("session_id", session.ID))
	return session.view(), nil
}

// Get returns the wizard progress, NotFound once it expired.
func (service *Service) Get(context context.Context, sessionID string) (*View, error) {
	session, err := service.store.Get(context, sessionID)
	if err != nil {
		return nil, err
	}
	return session.view(), nil
}

// Reset deletes the wizard. The photobook, if created, is kept.
func (service *Service) Reset(context context.Context, sessionID string) error {
	return service.store.Delete(context, sessionID)
}

// # Selections

/*
SelectBookType records the book type choice.

Description: Only active book types can be chosen. When the photobook
already exists, the change is written to it as well.

Returns:
  - *View: The updated progress
  - error: InvalidReference for an unknown or inactive item, NotFound for an expired session
*/
func (service *Service) SelectBookType(context context.Context, sessionID, id string) (*View, error) {
	return service.selectItem(context, sessionID, id, resourceBookType,
		func() (bool, error) {
			item, err := service.catalog.GetBookType(context, id)
			if err != nil {
				return false, err
			}
			return item.IsActive, nil
		},
		func(session *Session) { session.BookTypeID = id },
		photobook.Selections{BookTypeID: &id},
	)
}

// SelectPageOption records the page option. A change on an existing book resizes its pages.
func (service *Service) SelectPageOption(context context.Context, sessionID, id string) (*View, error) {
	return service.selectItem(context, sessionID, id, resourcePageOption,
		func() (bool, error) {
			item, err := service.catalog.GetPageOption(context, id)
			if err != nil {
				return false, err
			}
			return item.IsActive, nil
		},
		func(session *Session) { session.PageOptionID = id },
		photobook.Selections{PageOptionID: &id},
	)
}

// SelectTheme records the theme choice.
func (service *Service) SelectTheme(context context.Context, sessionID, id string) (*View, error) {
	return service.selectItem(context, sessionID, id, resourceTheme,
		func() (bool, error) {
			item, err := service.catalog.GetTheme(context, id)
			if err != nil {
				return false, err
			}
			return item.IsActive, nil
		},
		func(session *Session) { session.ThemeID = id },
		photobook.Selections{ThemeID: &id},
	)
}

func (service *Service) selectItem(
	context context.Context,
	sessionID, id, resource string,
	isActive func() (bool, error),
	apply func(*Session),
	selections photobook.Selections,
) (*View, error) {
	if id == "" {
		return nil, validate.RequiredError(FieldID, "This field is required")
	}

	active, err := isActive()
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.InvalidReference(resource)
		}
		return nil, err
	}
	if !active {
		return nil, apperr.InvalidReference(resource)
	}

	session, err := service.store.Get(context, sessionID)
	if err != nil {
		return nil, err
	}

	// Push to the book first so a failed update leaves the wizard unchanged.
	if session.PhotobookID != "" {
		if _, err := service.books.UpdateSelections(context, session.PhotobookID, selections); err != nil {
			return nil, err
		}
	}

	session, err = service.store.Update(context, sessionID, func(session *Session) error {
		apply(session)
		session.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session.view(), nil
}

// # Navigation

/*
Next advances one step.

Description: The current step's selection must be made. Leaving Theme
creates the photobook unless it already exists. Editor is the last step.

Returns:
  - *View: The updated progress
  - error: ValidationError for a missing selection, or errors from photobook creation
*/
func (service *Service) Next(context context.Context, sessionID string) (*View, error) {
	session, err := service.store.Get(context, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireSelection(session); err != nil {
		return nil, err
	}

	photobookID := session.PhotobookID
	created := ""
	if session.Step == StepTheme && photobookID == "" {
		detail, err := service.books.Create(context, photobook.CreateRequest{
			BookTypeID:   session.BookTypeID,
			PageOptionID: session.PageOptionID,
			ThemeID:      session.ThemeID,
		})
		if err != nil {
			return nil, err
		}
		photobookID = detail.ID
		created = detail.ID

		service.logger.Info("wizard_photobook_created",
			slog.String("session_id", sessionID),
			slog.String("photobook_id", photobookID),
		)
	}

	from := session.Step
	session, err = service.store.Update(context, sessionID, func(session *Session) error {
		if session.Step != from {
			return apperr.Conflict("Wizard moved on in another request")
		}
		if session.PhotobookID == "" {
			session.PhotobookID = photobookID
		}
		session.Step++
		session.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		service.dropOrphan(context, sessionID, created)
		return nil, err
	}
	if created != "" && session.PhotobookID != created {
		service.dropOrphan(context, sessionID, created)
	}
	return session.view(), nil
}

// dropOrphan deletes a photobook created by a Next that lost a race.
func (service *Service) dropOrphan(context context.Context, sessionID, photobookID string) {
	if photobookID == "" {
		return
	}
	if err := service.books.Delete(context, photobookID); err != nil {
		service.logger.Warn("wizard_orphan_delete_failed",
			slog.String("session_id", sessionID),
			slog.String("photobook_id", photobookID),
			slog.Any("error", err),
		)
		return
	}
	service.logger.Info("wizard_orphan_deleted",
		slog.String("session_id", sessionID),
		slog.String("photobook_id", photobookID),
	)
}

// Back returns to the previous step. BookType is the floor.
func (service *Service) Back(context context.Context, sessionID string) (*View, error) {
	session, err := service.store.Update(context, sessionID, func(session *Session) error {
		if session.Step > StepBookType {
			session.Step--
		}
		session.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session.view(), nil
}

// requireSelection checks that the current step can be left.
func requireSelection(session *Session) error {
	switch session.Step {
	case StepBookType:
		if session.BookTypeID == "" {
			return validate.RequiredError("bookTypeId", "Select a book type first")
		}
	case StepPageOption:
		if session.PageOptionID == "" {
			return validate.RequiredError("pageOptionId", "Select a page option first")
		}
	case StepTheme:
		if session.ThemeID == "" {
			return validate.RequiredError("themeId", "Select a theme first")
		}
	case StepUpload:
		if session.PhotobookID == "" {
			return validate.RequiredError("photobookId", "The photobook has not been created")
		}
	case StepEditor:
		return apperr.Conflict("The editor is the last step")
	}
	return nil
}
