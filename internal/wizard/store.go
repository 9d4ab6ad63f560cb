// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package wizard

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/memry/photobook/internal/platform/constants"
	"github.com/memry/photobook/internal/platform/redis"
)

// Store keeps wizard sessions.
type Store interface {
	Create(context context.Context, id string, session *Session) error
	Get(context context.Context, id string) (*Session, error)
	Update(context context.Context, id string, mutate func(*Session) error) (*Session, error)
	Delete(context context.Context, id string) error
}

// NewRedisStore creates a session store under the wizard key prefix.
func NewRedisStore(client *goredis.Client, ttl time.Duration) Store {
	return redis.NewJSONStore[Session](client, constants.RedisPrefixWizardSession, resourceSession, ttl)
}
