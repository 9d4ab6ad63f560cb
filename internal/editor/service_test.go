// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/editor"
	"github.com/memry/photobook/internal/photo"
	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/apperr"
)

const bookID = "0190a6c2-7d44-7b3e-9d1f-aaaaaaaaaaaa"

// # Fakes

type fakeBooks struct {
	books     map[string]*photobook.Photobook
	saves     int
	completed []string
}

func newFakeBooks(pages []photobook.Page) *fakeBooks {
	return &fakeBooks{books: map[string]*photobook.Photobook{
		bookID: {ID: bookID, ShareID: "abcde12345", Status: photobook.StatusDraft, Pages: pages},
	}}
}

func (fake *fakeBooks) Get(_ context.Context, id string) (*photobook.Photobook, error) {
	book, ok := fake.books[id]
	if !ok {
		return nil, apperr.NotFound("Photobook")
	}
	clone := *book
	return &clone, nil
}

func (fake *fakeBooks) UpdatePages(ctx context.Context, id string, pages []photobook.Page) (*photobook.Photobook, error) {
	if err := photobook.ValidatePages(pages); err != nil {
		return nil, err
	}
	book, ok := fake.books[id]
	if !ok {
		return nil, apperr.NotFound("Photobook")
	}
	fake.saves++
	book.Pages = pages
	return fake.Get(ctx, id)
}

func (fake *fakeBooks) Complete(_ context.Context, id string) (string, error) {
	fake.completed = append(fake.completed, id)
	fake.books[id].Status = photobook.StatusCompleted
	return fake.books[id].ShareID, nil
}

type fakePhotos []*photo.Asset

func (fake fakePhotos) ListForBook(_ context.Context, photobookID string) ([]*photo.Asset, error) {
	return fake, nil
}

func uploads(n int) fakePhotos {
	assets := make(fakePhotos, n)
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i := range assets {
		assets[i] = &photo.Asset{
			PhotobookID: bookID,
			StorageID:   "uploads/x/" + names[i] + ".jpg",
			URL:         "https://blob.test/uploads/x/" + names[i] + ".jpg",
			Filename:    names[i] + ".jpg",
		}
	}
	return assets
}

type fixture struct {
	service *editor.Service
	books   *fakeBooks
	redis   *miniredis.Miniredis
}

func newFixture(t *testing.T, pages []photobook.Page, photos fakePhotos) *fixture {
	t.Helper()
	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	books := newFakeBooks(pages)
	store := editor.NewRedisStore(client, time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service: editor.NewService(store, books, photos, logger),
		books:   books,
		redis:   server,
	}
}

func (f *fixture) open(t *testing.T) *editor.View {
	t.Helper()
	view, err := f.service.Open(context.Background(), bookID)
	require.NoError(t, err)
	return view
}

func storageIDs(photos []photobook.PagePhoto) []string {
	ids := make([]string, len(photos))
	for i, photo := range photos {
		ids[i] = photo.StorageID
	}
	return ids
}

// # Open

/*
TestService_Open_AutoFill seeds the Nth photo on the Nth page of an empty book.
*/
func TestService_Open_AutoFill(t *testing.T) {
	f := newFixture(t, photobook.NewPages(5), uploads(3))

	view := f.open(t)

	require.Len(t, view.Pages, 5)
	for i := 0; i < 3; i++ {
		require.Len(t, view.Pages[i].Photos, 1)
		assert.Equal(t, view.Photos[i].StorageID, view.Pages[i].Photos[0].StorageID)
		assert.Equal(t, 100.0, view.Pages[i].Photos[0].Width)
	}
	assert.Empty(t, view.Pages[3].Photos)
	assert.Empty(t, view.Unplaced)
	assert.True(t, f.redis.Exists("editor:session:"+view.ID))
	assert.Equal(t, 0, f.books.saves, "opening must not write the book")
}

func TestService_Open_KeepsStoredPages(t *testing.T) {
	pages := photobook.NewPages(3)
	pages[2].BackgroundColor = "#ff0000"
	f := newFixture(t, pages, uploads(2))

	view := f.open(t)

	assert.Empty(t, view.Pages[0].Photos)
	assert.Equal(t, "#ff0000", view.Pages[2].BackgroundColor)
	assert.Len(t, view.Unplaced, 2)
}

/*
TestService_Open_RefreshesPhotoURLs swaps stored page URLs for the ones
listed with the uploads.
*/
func TestService_Open_RefreshesPhotoURLs(t *testing.T) {
	photos := uploads(1)
	pages := photobook.NewPages(2)
	pages[1].Photos = []photobook.PagePhoto{
		photobook.LayoutSingle.Place(photobook.PagePhoto{StorageID: photos[0].StorageID, URL: "https://expired.test/a.jpg"}, 0),
	}
	f := newFixture(t, pages, photos)

	view := f.open(t)

	require.Len(t, view.Pages[1].Photos, 1)
	assert.Equal(t, photos[0].URL, view.Pages[1].Photos[0].URL)
}

func TestService_Open_Errors(t *testing.T) {
	f := newFixture(t, photobook.NewPages(1), nil)

	_, err := f.service.Open(context.Background(), "0190a6c2-7d44-7b3e-9d1f-bbbbbbbbbbbb")
	assert.True(t, apperr.IsNotFound(err))

	f.books.books[bookID].Status = photobook.StatusOrdered
	_, err = f.service.Open(context.Background(), bookID)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

// # Layout

/*
TestService_ChangeLayout keeps photos by slot, drops surplus and fills from unplaced uploads.
*/
func TestService_ChangeLayout(t *testing.T) {
	pages := photobook.NewPages(2)
	pages[1].BackgroundColor = "#eeeeee"
	f := newFixture(t, pages, uploads(4))
	view := f.open(t)
	ctx := context.Background()

	// Page 1 holds a, page 2 holds b; c and d are unplaced.
	view, err := f.service.ChangeLayout(ctx, view.ID, 1, photobook.LayoutQuad)
	require.NoError(t, err)
	page := view.Pages[0]
	assert.Equal(t, []string{"uploads/x/a.jpg", "uploads/x/c.jpg", "uploads/x/d.jpg"}, storageIDs(page.Photos))
	assert.Equal(t, photobook.PagePhoto{StorageID: "uploads/x/c.jpg", URL: "https://blob.test/uploads/x/c.jpg", X: 50, Y: 0, Width: 50, Height: 50}, page.Photos[1])
	assert.Empty(t, view.Unplaced)

	view, err = f.service.ChangeLayout(ctx, view.ID, 1, photobook.LayoutDouble)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/x/a.jpg", "uploads/x/c.jpg"}, storageIDs(view.Pages[0].Photos))
	assert.Equal(t, 50.0, view.Pages[0].Photos[1].X)
	assert.Equal(t, 100.0, view.Pages[0].Photos[1].Height)
	require.Len(t, view.Unplaced, 1)
	assert.Equal(t, "uploads/x/d.jpg", view.Unplaced[0].StorageID)

	_, err = f.service.ChangeLayout(ctx, view.ID, 1, "5")
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = f.service.ChangeLayout(ctx, view.ID, 9, photobook.LayoutQuad)
	require.Error(t, err)
	assert.Equal(t, "Page not found", err.Error())
}

func TestService_ChangeBackground(t *testing.T) {
	f := newFixture(t, photobook.NewPages(1), nil)
	view := f.open(t)

	view, err := f.service.ChangeBackground(context.Background(), view.ID, 1, "#102030")
	require.NoError(t, err)
	assert.Equal(t, "#102030", view.Pages[0].BackgroundColor)

	_, err = f.service.ChangeBackground(context.Background(), view.ID, 1, "blue")
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Slots

/*
TestService_AssignPhoto replaces, appends contiguously and rejects foreign photos.
*/
func TestService_AssignPhoto(t *testing.T) {
	f := newFixture(t, photobook.NewPages(1), uploads(3))
	view := f.open(t)
	ctx := context.Background()

	view, err := f.service.ChangeLayout(ctx, view.ID, 1, photobook.LayoutSix)
	require.NoError(t, err)
	require.Len(t, view.Pages[0].Photos, 3)

	view, err = f.service.AssignPhoto(ctx, view.ID, 1, 0, "uploads/x/c.jpg")
	require.NoError(t, err)
	assert.Equal(t, "uploads/x/c.jpg", view.Pages[0].Photos[0].StorageID)
	assert.Equal(t, 0.0, view.Pages[0].Photos[0].X)

	view, err = f.service.AssignPhoto(ctx, view.ID, 1, 5, "uploads/x/a.jpg")
	require.NoError(t, err)
	require.Len(t, view.Pages[0].Photos, 4, "a slot past the end appends")
	rect, _ := photobook.LayoutSix.SlotRect(3)
	assert.Equal(t, rect.X, view.Pages[0].Photos[3].X)
	assert.Equal(t, rect.Y, view.Pages[0].Photos[3].Y)

	_, err = f.service.AssignPhoto(ctx, view.ID, 1, 6, "uploads/x/a.jpg")
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = f.service.AssignPhoto(ctx, view.ID, 1, 0, "uploads/other/z.jpg")
	require.Error(t, err)
	assert.Equal(t, "Photo does not exist", err.Error())
}

func TestService_RemovePhoto(t *testing.T) {
	f := newFixture(t, photobook.NewPages(1), uploads(3))
	view := f.open(t)
	ctx := context.Background()

	view, err := f.service.ChangeLayout(ctx, view.ID, 1, photobook.LayoutTriple)
	require.NoError(t, err)

	view, err = f.service.RemovePhoto(ctx, view.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/x/b.jpg", "uploads/x/c.jpg"}, storageIDs(view.Pages[0].Photos))
	assert.Equal(t, 0.0, view.Pages[0].Photos[0].X, "remaining photos reflow")

	_, err = f.service.RemovePhoto(ctx, view.ID, 1, 2)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Texts

/*
TestService_Texts adds a default overlay, edits and deletes it.
*/
func TestService_Texts(t *testing.T) {
	f := newFixture(t, photobook.NewPages(1), nil)
	view := f.open(t)
	ctx := context.Background()

	view, err := f.service.AddText(ctx, view.ID, 1)
	require.NoError(t, err)
	require.Len(t, view.Pages[0].Texts, 1)
	text := view.Pages[0].Texts[0]
	assert.NotEmpty(t, text.ID)
	assert.Equal(t, photobook.PageText{
		ID: text.ID, Content: "Double tap to edit", X: 10, Y: 10,
		FontSize: 16, FontFamily: "sans-serif", Color: "#000000", Rotation: 0,
	}, text)

	content, size := "Hello", 32.0
	view, err = f.service.EditText(ctx, view.ID, 1, text.ID, editor.TextPatch{Content: &content, FontSize: &size})
	require.NoError(t, err)
	assert.Equal(t, "Hello", view.Pages[0].Texts[0].Content)
	assert.Equal(t, 32.0, view.Pages[0].Texts[0].FontSize)
	assert.Equal(t, "sans-serif", view.Pages[0].Texts[0].FontFamily)

	badColor := "red"
	_, err = f.service.EditText(ctx, view.ID, 1, text.ID, editor.TextPatch{Color: &badColor})
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = f.service.EditText(ctx, view.ID, 1, "missing", editor.TextPatch{Content: &content})
	assert.Equal(t, "Text not found", err.Error())

	view, err = f.service.DeleteText(ctx, view.ID, 1, text.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Pages[0].Texts)
}

// # Save and Complete

func TestService_SaveAndComplete(t *testing.T) {
	f := newFixture(t, photobook.NewPages(2), uploads(1))
	view := f.open(t)
	ctx := context.Background()

	book, err := f.service.Save(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/x/a.jpg", book.Pages[0].Photos[0].StorageID)
	assert.Equal(t, 1, f.books.saves)

	shareID, err := f.service.Complete(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "abcde12345", shareID)
	assert.Equal(t, []string{bookID}, f.books.completed)

	_, err = f.service.Get(ctx, view.ID)
	assert.True(t, apperr.IsNotFound(err), "completing closes the session")
}

func TestService_Expiry(t *testing.T) {
	f := newFixture(t, photobook.NewPages(1), nil)
	view := f.open(t)

	f.redis.FastForward(2 * time.Hour)

	_, err := f.service.Get(context.Background(), view.ID)
	require.Error(t, err)
	assert.Equal(t, "Editor session not found", err.Error())

	_, err = f.service.Save(context.Background(), view.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 0, f.books.saves)
}

func TestService_Discard(t *testing.T) {
	f := newFixture(t, photobook.NewPages(1), nil)
	view := f.open(t)

	require.NoError(t, f.service.Discard(context.Background(), view.ID))
	assert.False(t, f.redis.Exists("editor:session:"+view.ID))
}
