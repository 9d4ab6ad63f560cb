// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/platform/sec"
)

func newTokenService(t *testing.T, issuer string) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	service, err := sec.NewTokenServiceFromPEM(privatePEM, publicPEM, issuer)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies a signed token verifies with the same claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, "memry.app")

	token, expiresAt, err := service.GenerateAdminToken("admin-1", "owner@memry.app", "sid-1", "admin", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.AdminID)
	assert.Equal(t, "owner@memry.app", claims.Email)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "admin", claims.Role)
}

/*
TestTokenService_Rejects covers expired, foreign and tampered tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, "memry.app")

	t.Run("expired", func(t *testing.T) {
		token, _, err := service.GenerateAdminToken("admin-1", "a@b.c", "sid", "admin", -time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("other_key", func(t *testing.T) {
		other := newTokenService(t, "memry.app")
		token, _, err := other.GenerateAdminToken("admin-1", "a@b.c", "sid", "admin", time.Hour)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not-a-token")
		assert.Error(t, err)
	})
}

/*
TestPasswordHash checks bcrypt hashing and comparison.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("secret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "secret-pass", hash)
	assert.True(t, sec.CheckPasswordHash("secret-pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-pass", hash))
}
