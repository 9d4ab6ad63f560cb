// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements the console login.

There is at most one way in: the first admin is created through the setup
endpoint while the account table is empty, and every later visitor must log
in. Tokens are RS256 JWTs bound to a Redis session so logout and password
changes take effect before the token expires.
*/
package admin

import "time"

// # Domain Entities

// Account is a console user.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is the revocable record behind a console token.
type Session struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"adminId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResult is returned to the console after a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     *Account  `json:"admin"`
}

// # Constants

const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"

	// MinPasswordLength is the shortest accepted console password.
	MinPasswordLength = 6

	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72

	resourceAdmin = "Admin"
)
