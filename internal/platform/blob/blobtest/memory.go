// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package blobtest provides an in-memory [blob.Store] for service tests.
package blobtest

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/memry/photobook/internal/platform/blob"
)

// Memory keeps objects in a map. Failing keys can be injected per operation.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte

	// BaseURL prefixes every URL returned by [Memory.URL].
	BaseURL string

	// FailPut and FailDelete make the matching operations return an error.
	FailPut    map[string]bool
	FailDelete map[string]bool
}

var _ blob.Store = (*Memory)(nil)

// NewMemory returns an empty store serving https://blob.test/ URLs.
func NewMemory() *Memory {
	return &Memory{
		objects:    map[string][]byte{},
		BaseURL:    "https://blob.test",
		FailPut:    map[string]bool{},
		FailDelete: map[string]bool{},
	}
}

// Seed stores an object directly, as a client PUT to a presigned URL would.
func (memory *Memory) Seed(key string, data []byte) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.objects[key] = data
}

// Keys lists stored keys in lexical order.
func (memory *Memory) Keys() []string {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	keys := make([]string, 0, len(memory.objects))
	for key := range memory.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (memory *Memory) PresignUpload(_ context.Context, key, contentType string, ttl time.Duration) (*blob.UploadTarget, error) {
	return blob.NewUploadTarget(key, blob.PublicURL(memory.BaseURL, key)+"?signed=1", contentType, time.Now().Add(ttl)), nil
}

func (memory *Memory) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if memory.FailPut[key] {
		return errors.New("blobtest: put failed")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	memory.objects[key] = data
	return nil
}

func (memory *Memory) Exists(_ context.Context, key string) (bool, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	_, ok := memory.objects[key]
	return ok, nil
}

func (memory *Memory) URL(_ context.Context, key string) (string, error) {
	return blob.PublicURL(memory.BaseURL, key), nil
}

func (memory *Memory) Delete(_ context.Context, key string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	if memory.FailDelete[key] {
		return errors.New("blobtest: delete failed")
	}
	delete(memory.objects, key)
	return nil
}

func (memory *Memory) Ping(context.Context) error { return nil }
