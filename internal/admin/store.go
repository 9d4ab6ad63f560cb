// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"time"
)

// # Account Data Access

// Repository defines the data access contract for admin accounts.
type Repository interface {

	// Exists reports whether any admin account has been created.
	Exists(context context.Context) (bool, error)

	/*
		InsertFirst stores the account only while the table is empty.

		Returns:
		  - bool: false when another admin already exists
		  - error: Database failures
	*/
	InsertFirst(context context.Context, account *Account) (bool, error)

	// FindByEmail looks up a lower-cased email. NotFound if absent.
	FindByEmail(context context.Context, email string) (*Account, error)

	// FindByID returns the account or NotFound.
	FindByID(context context.Context, id string) (*Account, error)

	// UpdatePassword replaces the stored digest.
	UpdatePassword(context context.Context, id, passwordHash string) error
}

// # Session Data Access

// SessionStore keeps the revocable session records.
type SessionStore interface {
	Create(context context.Context, session *Session, ttl time.Duration) error
	Get(context context.Context, sessionID string) (*Session, error)
	IsSessionActive(context context.Context, sessionID string) (bool, error)
	Delete(context context.Context, sessionID string) error

	// DeleteOthers revokes every session of adminID except keepID.
	DeleteOthers(context context.Context, adminID, keepID string) (int, error)
}
