// Copyright (c) 2026 Memry. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memry/photobook/internal/admin"
	"github.com/memry/photobook/internal/api"
	"github.com/memry/photobook/internal/catalog"
	"github.com/memry/photobook/internal/demo"
	"github.com/memry/photobook/internal/editor"
	"github.com/memry/photobook/internal/photo"
	"github.com/memry/photobook/internal/photobook"
	"github.com/memry/photobook/internal/platform/blob/blobtest"
	"github.com/memry/photobook/internal/platform/config"
	"github.com/memry/photobook/internal/platform/sec"
	"github.com/memry/photobook/internal/viewer"
	"github.com/memry/photobook/internal/wizard"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	tokens, err := sec.NewTokenServiceFromPEM(privatePEM, publicPEM, "memry.app")
	require.NoError(t, err)
	return tokens
}

/*
newServer wires the full router over a mocked pool, miniredis and an
in-memory bucket.
*/
func newServer(t *testing.T) (http.Handler, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	redisServer := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: redisServer.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := newTokenService(t)

	catalogService := catalog.NewService(catalog.NewPostgresRepository(mock), logger)
	photoService := photo.NewService(photo.NewPostgresRepository(mock), blobtest.NewMemory(), 15*time.Minute, logger)
	photobookService := photobook.NewService(photobook.NewPostgresRepository(mock), catalogService, photoService, logger)
	adminService := admin.NewService(admin.NewPostgresRepository(mock), admin.NewRedisSessionStore(rdb), tokens, time.Hour, logger)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, logger)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Catalog:   catalog.NewHandler(catalogService),
		Photobook: photobook.NewHandler(photobookService),
		Photo:     photo.NewHandler(photoService),
		Wizard:    wizard.NewHandler(wizard.NewService(wizard.NewRedisStore(rdb, time.Hour), catalogService, photobookService, logger)),
		Editor:    editor.NewHandler(editor.NewService(editor.NewRedisStore(rdb, time.Hour), photobookService, photoService, logger)),
		Viewer:    viewer.NewHandler(viewer.NewService(photobookService, logger)),
		Admin:     admin.NewHandler(adminService),
		Demo:      demo.NewHandler(demo.NewService(catalogService, photobookService, photoService, logger)),
	}

	context, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{ServerPort: "0", Environment: "development"}
	return api.NewServer(context, cfg, logger, tokens, adminService, handlers).Handler(), mock
}

func serve(handler http.Handler, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, nil)
	request.RemoteAddr = "203.0.113.7:4000"
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestServer_Routes(t *testing.T) {
	handler, mock := newServer(t)

	t.Run("health", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(handler, http.MethodGet, "/health").Code)
	})

	t.Run("wizard_is_anonymous", func(t *testing.T) {
		recorder := serve(handler, http.MethodPost, "/api/v1/wizard")
		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"stepName":"bookType"`)
	})

	t.Run("admin_setup_is_public", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM admin.account)")).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		recorder := serve(handler, http.MethodGet, "/api/v1/admin/setup")
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"hasAdmin":false`)
	})

	t.Run("console_requires_token", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/admin/catalog/book-types",
			"/api/v1/admin/photobooks",
			"/api/v1/admin/me",
		} {
			assert.Equal(t, http.StatusUnauthorized, serve(handler, http.MethodGet, path).Code, path)
		}
		assert.Equal(t, http.StatusUnauthorized, serve(handler, http.MethodPost, "/api/v1/admin/demo/seed").Code)
	})

	t.Run("unknown_route", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, serve(handler, http.MethodGet, "/api/v1/nothing").Code)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
