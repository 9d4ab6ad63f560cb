// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package editor holds the layout editor working copy.

A session copies a photobook's pages and its uploaded photos into Redis.
Every edit rewrites the session and refreshes its TTL. Nothing reaches the
photobook until Save or Complete.
*/
package editor

import (
	"time"

	"github.com/memry/photobook/internal/photobook"
)

// Session is one open editor.
type Session struct {
	ID          string           `json:"id"`
	PhotobookID string           `json:"photobookId"`
	ShareID     string           `json:"shareId"`
	Pages       []photobook.Page `json:"pages"`
	Photos      []Photo          `json:"photos"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// Photo is an uploaded photo the editor can place.
type Photo struct {
	StorageID string `json:"storageId"`
	URL       string `json:"url"`
	Filename  string `json:"filename"`
}

// View is a session with the photos still available for placement.
type View struct {
	*Session
	Unplaced []Photo `json:"unplaced"`
}

// TextPatch changes any subset of a text overlay. Nil fields are kept.
type TextPatch struct {
	Content    *string  `json:"content"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	FontSize   *float64 `json:"fontSize"`
	FontFamily *string  `json:"fontFamily"`
	Color      *string  `json:"color"`
	Rotation   *float64 `json:"rotation"`
}

// Text defaults for a freshly added overlay.
const (
	DefaultTextContent    = "Double tap to edit"
	DefaultTextX          = 10.0
	DefaultTextY          = 10.0
	DefaultTextFontSize   = 16.0
	DefaultTextFontFamily = "sans-serif"
	DefaultTextColor      = "#000000"
)

// Field and resource names.
const (
	FieldPhotobookID = "photobookId"
	FieldLayout      = "layout"
	FieldColor       = "color"
	FieldSlot        = "slot"
	FieldStorageID   = "storageId"

	resourceSession = "Editor session"
	resourcePage    = "Page"
	resourceText    = "Text"
	resourcePhoto   = "Photo"
)

// page returns a pointer into the session's page list, or nil.
func (session *Session) page(number int) *photobook.Page {
	for i := range session.Pages {
		if session.Pages[i].PageNumber == number {
			return &session.Pages[i]
		}
	}
	return nil
}

// photo returns the uploaded photo with the storage id, or nil.
func (session *Session) photo(storageID string) *Photo {
	for i := range session.Photos {
		if session.Photos[i].StorageID == storageID {
			return &session.Photos[i]
		}
	}
	return nil
}

// Unplaced returns uploaded photos not placed on any page, in upload order.
func (session *Session) Unplaced() []Photo {
	placed := make(map[string]bool)
	for _, page := range session.Pages {
		for _, photo := range page.Photos {
			placed[photo.StorageID] = true
		}
	}

	unplaced := make([]Photo, 0, len(session.Photos))
	for _, photo := range session.Photos {
		if !placed[photo.StorageID] {
			unplaced = append(unplaced, photo)
		}
	}
	return unplaced
}

// view wraps a session for responses.
func (session *Session) view() *View {
	return &View{Session: session, Unplaced: session.Unplaced()}
}
