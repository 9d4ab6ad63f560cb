// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/memry/photobook/internal/platform/apperr"
)

// maxUpdateAttempts bounds the optimistic retry loop of [JSONStore.Update].
const maxUpdateAttempts = 8

/*
JSONStore keeps one JSON document per key under a fixed prefix.

Every write refreshes the TTL, so a document expires after a period of
inactivity rather than a fixed time after creation. Updates run inside
WATCH/MULTI and are retried when another writer got there first.
*/
type JSONStore[T any] struct {
	client   *redis.Client
	prefix   string
	resource string
	ttl      time.Duration
}

// NewJSONStore creates a store. resource names the document in NotFound errors.
func NewJSONStore[T any](client *redis.Client, prefix, resource string, ttl time.Duration) *JSONStore[T] {
	return &JSONStore[T]{
		client:   client,
		prefix:   prefix,
		resource: resource,
		ttl:      ttl,
	}
}

func (store *JSONStore[T]) key(id string) string {
	return store.prefix + id
}

// Create writes a new document, failing with Conflict if the id is taken.
func (store *JSONStore[T]) Create(context stdctx.Context, id string, document *T) error {
	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("redis_json_encode_failed: %w", err)
	}

	created, err := store.client.SetNX(context, store.key(id), data, store.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis_json_create_failed: %w", err)
	}
	if !created {
		return apperr.Conflict(store.resource + " already exists")
	}
	return nil
}

/*
Get reads a document.

Returns:
  - *T: The decoded document
  - error: apperr.NotFound when absent or expired
*/
func (store *JSONStore[T]) Get(context stdctx.Context, id string) (*T, error) {
	data, err := store.client.Get(context, store.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound(store.resource)
		}
		return nil, fmt.Errorf("redis_json_get_failed: %w", err)
	}
	return store.decode(data)
}

/*
Update applies mutate to the stored document and writes it back atomically.

Description: mutate may run more than once when a concurrent writer
touches the key, so it must only change the document it is given. An
error from mutate aborts the update and is returned as-is.

Returns:
  - *T: The document as written
  - error: apperr.NotFound, the mutate error, or storage failures
*/
func (store *JSONStore[T]) Update(context stdctx.Context, id string, mutate func(*T) error) (*T, error) {
	key := store.key(id)
	var updated *T

	transaction := func(tx *redis.Tx) error {
		data, err := tx.Get(context, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return apperr.NotFound(store.resource)
			}
			return fmt.Errorf("redis_json_get_failed: %w", err)
		}

		document, err := store.decode(data)
		if err != nil {
			return err
		}
		if err := mutate(document); err != nil {
			return err
		}

		encoded, err := json.Marshal(document)
		if err != nil {
			return fmt.Errorf("redis_json_encode_failed: %w", err)
		}

		_, err = tx.TxPipelined(context, func(pipe redis.Pipeliner) error {
			pipe.Set(context, key, encoded, store.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = document
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := store.client.Watch(context, transaction, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, apperr.Conflict(store.resource + " is being modified, please retry")
}

// Delete removes a document. Deleting an absent key is not an error.
func (store *JSONStore[T]) Delete(context stdctx.Context, id string) error {
	if err := store.client.Del(context, store.key(id)).Err(); err != nil {
		return fmt.Errorf("redis_json_delete_failed: %w", err)
	}
	return nil
}

func (store *JSONStore[T]) decode(data []byte) (*T, error) {
	document := new(T)
	if err := json.Unmarshal(data, document); err != nil {
		return nil, fmt.Errorf("redis_json_decode_failed: %w", err)
	}
	return document, nil
}
