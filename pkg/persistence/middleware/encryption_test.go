package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/mathpad/pkg/adapters/memory"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/persistence/middleware"
	"github.com/aretw0/mathpad/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func sealed(t *testing.T, next ports.DocumentStore, cfg middleware.EncryptionConfig) ports.DocumentStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return middleware.Chain(next, mw)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := sealed(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunDocumentStoreContract(t, store)
}

func TestEncryptionMiddleware_HidesExpression(t *testing.T) {
	underlying := memory.NewStore()
	store := sealed(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	doc := domain.NewDocument("s1")
	doc.Expression = domain.Expression{domain.NewText("secret+"), domain.NewSqrt("42")}
	doc.Edit = domain.ActiveState(domain.ModeSqrt, 1)
	require.NoError(t, store.Save(ctx, "s1", doc))

	raw, err := underlying.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, raw.Expression)
	assert.Equal(t, domain.ModeNormal, raw.Edit.Mode)
	assert.NotEmpty(t, raw.Sealed)
	assert.False(t, strings.Contains(raw.Sealed, "secret"))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, doc.Expression, loaded.Expression)
	assert.Equal(t, doc.Edit, loaded.Edit)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)
	ctx := context.Background()

	doc := domain.NewDocument("s1")
	doc.Expression = domain.Expression{domain.NewText("1+1")}
	require.NoError(t, sealed(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey}).Save(ctx, "s1", doc))

	rotated := sealed(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := rotated.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, doc.Expression, loaded.Expression)

	withoutOld := sealed(t, underlying, middleware.EncryptionConfig{ActiveKey: newKey})
	_, err = withoutOld.Load(ctx, "s1")
	assert.ErrorContains(t, err, "decrypt")
}

func TestEncryptionMiddleware_RejectsPlainDocuments(t *testing.T) {
	underlying := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, underlying.Save(ctx, "plain", domain.NewDocument("plain")))

	store := sealed(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := store.Load(ctx, "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestNewEncryptionMiddleware_InvalidKeys(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)
}

func TestDecodeKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.DecodeKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.DecodeKey(base64.StdEncoding.EncodeToString([]byte("tiny")))
	assert.ErrorIs(t, err, middleware.ErrInvalidKey)

	_, err = middleware.DecodeKey("not base64!")
	assert.Error(t, err)
}
