package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestActionToken_IsExpiredAt(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	token := &ActionToken{CreatedAt: created, ExpiresAt: created.Add(15 * time.Minute)}

	assert.False(t, token.IsExpiredAt(created))
	assert.False(t, token.IsExpiredAt(created.Add(15*time.Minute)))
	assert.True(t, token.IsExpiredAt(created.Add(15*time.Minute+time.Nanosecond)))
}

func TestActionToken_IsExecuted(t *testing.T) {
	token := &ActionToken{}
	assert.False(t, token.IsExecuted())
	token.ExecutedAt = null.TimeFrom(time.Now())
	assert.True(t, token.IsExecuted())
}

func TestUser_JSONHidesPasswordHash(t *testing.T) {
	u := &User{ID: uuid.New(), Name: "ana", Email: "ana@example.com", PasswordHash: "secret-hash"}
	assert.False(t, u.IsVerified())

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
	assert.Contains(t, string(raw), `"emailVerifiedAt":null`)
}

func TestInputs_IsEmpty(t *testing.T) {
	assert.True(t, UpdateUserInput{}.IsEmpty())
	name := "bob"
	assert.False(t, UpdateUserInput{Name: &name}.IsEmpty())

	assert.True(t, UpdateShortURLInput{}.IsEmpty())
	code := "yt"
	assert.False(t, UpdateShortURLInput{ShortURL: &code}.IsEmpty())
}

func TestShortCodeRules(t *testing.T) {
	assert.True(t, IsValidShortCode("ytbe"))
	assert.True(t, IsValidShortCode("My_code-1"))
	assert.False(t, IsValidShortCode(""))
	assert.False(t, IsValidShortCode("has space"))
	assert.False(t, IsValidShortCode("a/b"))

	for _, code := range []string{"list", "show-long-url", "update", "delete", "LIST"} {
		assert.True(t, IsReservedShortCode(code), code)
		assert.False(t, IsValidShortCode(code), code)
	}
}
