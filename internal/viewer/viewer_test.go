// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/viewer"
)

type fakeBooks map[string]*photobook.Detail

func (fake fakeBooks) GetByShareID(_ context.Context, shareID string) (*photobook.Detail, error) {
	if detail, ok := fake[shareID]; ok {
		return detail, nil
	}
	return nil, apperr.NotFound("Photobook")
}

func newService() *viewer.Service {
	books := fakeBooks{
		"a1b2c3d4e5": {
			Photobook: &photobook.Photobook{
				ID:      "0190a6c2-7d44-7b3e-9d1f-aaaaaaaaaaaa",
				ShareID: "a1b2c3d4e5",
				Status:  photobook.StatusCompleted,
				Pages:   photobook.NewPages(3),
			},
			BookType: &catalog.BookType{Name: "Portrait"},
		},
		"draft00000": {
			Photobook: &photobook.Photobook{ShareID: "draft00000", Status: photobook.StatusDraft, Pages: photobook.NewPages(1)},
		},
	}
	return viewer.NewService(books, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_View(t *testing.T) {
	service := newService()

	book, err := service.View(context.Background(), "a1b2c3d4e5")
	require.NoError(t, err)
	assert.Equal(t, 3, book.PageCount)
	assert.Equal(t, "Portrait", book.BookType.Name)
	assert.Nil(t, book.Theme)

	draft, err := service.View(context.Background(), "draft00000")
	require.NoError(t, err)
	assert.Equal(t, photobook.StatusDraft, draft.Status)

	_, err = service.View(context.Background(), "zzzzzzzzzz")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestHandler_View checks the public projection never exposes the internal id.
*/
func TestHandler_View(t *testing.T) {
	router := chi.NewRouter()
	router.Mount("/view", viewer.NewHandler(newService()).Routes())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/view/a1b2c3d4e5", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "a1b2c3d4e5", body.Data["shareId"])
	assert.NotContains(t, body.Data, "id")
	assert.Len(t, body.Data["pages"], 3)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/view/missing", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
