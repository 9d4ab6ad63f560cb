// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package wizard drives the five-step order flow.

	BookType ─▶ PageOption ─▶ Theme ─▶ Upload ─▶ Editor

Progress lives in Redis. Entering Upload creates the photobook from the
three selections. Later selection changes are pushed to the existing book.
*/
package wizard

import "time"

// Step is a wizard position, 1-based.
type Step int

const (
	StepBookType Step = iota + 1
	StepPageOption
	StepTheme
	StepUpload
	StepEditor
)

var stepNames = map[Step]string{
	StepBookType:   "bookType",
	StepPageOption: "pageOption",
	StepTheme:      "theme",
	StepUpload:     "upload",
	StepEditor:     "editor",
}

func (step Step) String() string {
	if name, ok := stepNames[step]; ok {
		return name
	}
	return "unknown"
}

// Session is the stored wizard progress.
type Session struct {
	ID           string    `json:"id"`
	Step         Step      `json:"step"`
	BookTypeID   string    `json:"bookTypeId,omitempty"`
	PageOptionID string    `json:"pageOptionId,omitempty"`
	ThemeID      string    `json:"themeId,omitempty"`
	PhotobookID  string    `json:"photobookId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// View adds the step name for clients.
type View struct {
	*Session
	StepName string `json:"stepName"`
}

func (session *Session) view() *View {
	return &View{Session: session, StepName: session.Step.String()}
}

// Field and resource names.
const (
	FieldID = "id"

	resourceSession    = "Wizard session"
	resourceBookType   = "Book type"
	resourcePageOption = "Page option"
	resourceTheme      = "Theme"
)
