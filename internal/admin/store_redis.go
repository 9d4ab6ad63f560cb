// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/memry/photobook/internal/platform/apperr"
	"github.com/memry/photobook/internal/platform/constants"
	"github.com/memry/photobook/pkg/slice"
)

// RedisSessionStore implements [SessionStore].
//
// # Key Layout
//
//	admin:session:<sid>       JSON session record, expires with the token
//	admin:sessions:<adminID>  set of the admin's session ids
//
// The set only indexes sessions for revocation. A stale member whose record
// already expired is harmless.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed [SessionStore].
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixAdminSession + sessionID
}

func indexKey(adminID string) string {
	return constants.RedisPrefixAdminSessions + adminID
}

/*
Create stores the session and adds it to the admin's index.

Parameters:
  - context: context.Context
  - session: *Session
  - ttl: time.Duration (token lifetime)

Returns:
  - error: Storage failures
*/
func (store *RedisSessionStore) Create(context context.Context, session *Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return apperr.Internal(err)
	}

	_, err = store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(session.ID), data, ttl)
		pipe.SAdd(context, indexKey(session.AdminID), session.ID)
		pipe.Expire(context, indexKey(session.AdminID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_admin_session_create_failed: %w", err)
	}
	return nil
}

// Get returns the session or Unauthorized when it was revoked or expired.
func (store *RedisSessionStore) Get(context context.Context, sessionID string) (*Session, error) {
	data, err := store.client.Get(context, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.Unauthorized("Session has ended, please log in again")
		}
		return nil, fmt.Errorf("redis_admin_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, apperr.Internal(fmt.Errorf("redis_admin_session_decode_failed: %w", err))
	}
	return session, nil
}

// IsSessionActive implements middleware.SessionChecker.
func (store *RedisSessionStore) IsSessionActive(context context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	count, err := store.client.Exists(context, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_admin_session_exists_failed: %w", err)
	}
	return count == 1, nil
}

// Delete revokes one session. Deleting an unknown session is a no-op.
func (store *RedisSessionStore) Delete(context context.Context, sessionID string) error {
	data, err := store.client.Get(context, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis_admin_session_get_failed: %w", err)
	}

	var session Session
	_ = json.Unmarshal(data, &session)

	_, err = store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, sessionKey(sessionID))
		if session.AdminID != "" {
			pipe.SRem(context, indexKey(session.AdminID), sessionID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_admin_session_delete_failed: %w", err)
	}
	return nil
}

// DeleteOthers revokes every session in the admin's index except keepID.
func (store *RedisSessionStore) DeleteOthers(context context.Context, adminID, keepID string) (int, error) {
	members, err := store.client.SMembers(context, indexKey(adminID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_admin_session_list_failed: %w", err)
	}

	revoked := slice.Filter(members, func(sessionID string) bool { return sessionID != keepID })
	if len(revoked) == 0 {
		return 0, nil
	}
	keys := slice.Map(revoked, sessionKey)

	_, err = store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, keys...)
		pipe.SRem(context, indexKey(adminID), slice.Map(revoked, func(sessionID string) any { return sessionID })...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis_admin_session_revoke_failed: %w", err)
	}
	return len(revoked), nil
}
