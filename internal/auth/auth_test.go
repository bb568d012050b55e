package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dormops-backend/internal/model"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "correct horse battery"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestHashPasswordRejectsShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret-at-least-32-bytes-long", time.Hour)
	user := &model.User{ID: 42, Email: "resident@example.org"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "resident@example.org", claims.Email)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	m1 := NewJWTManager("secret-one-secret-one-secret-one", time.Hour)
	m2 := NewJWTManager("secret-two-secret-two-secret-two", time.Hour)

	token, err := m1.Generate(&model.User{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = m2.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret-at-least-32-bytes-long", -time.Minute)

	token, err := m.Generate(&model.User{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
