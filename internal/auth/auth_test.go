package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/inreleppik/shortlink/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestSignCookieValue(t *testing.T) {
	a := auth.New("test-secret")
	userID := uuid.NewString()
	signed := a.SignCookieValue(userID)

	parts := strings.SplitN(signed, ":", 2)
	assert.Len(t, parts, 2)
	assert.Equal(t, userID, parts[0])
	assert.Equal(t, a.SignCookieValue(userID), signed)
}

func TestUserID_Valid(t *testing.T) {
	a := auth.New("test-secret")
	userID := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  "auth_token",
		Value: a.SignCookieValue(userID),
	})

	id, ok := a.UserID(req)
	assert.True(t, ok)
	assert.Equal(t, userID, id)
}

func TestUserID_NoCookie(t *testing.T) {
	a := auth.New("test-secret")

	id, ok := a.UserID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestUserID_BadSignature(t *testing.T) {
	a := auth.New("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  "auth_token",
		Value: uuid.NewString() + ":bad-signature",
	})

	id, ok := a.UserID(req)
	assert.False(t, ok)
	assert.Empty(t, id)
}

// Подпись чужим секретом не принимается
func TestUserID_WrongSecret(t *testing.T) {
	other := auth.New("other-secret")
	a := auth.New("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  "auth_token",
		Value: other.SignCookieValue(uuid.NewString()),
	})

	_, ok := a.UserID(req)
	assert.False(t, ok)
}

// Идентификатор обязан быть UUID
func TestUserID_NotUUID(t *testing.T) {
	a := auth.New("test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  "auth_token",
		Value: a.SignCookieValue("not-a-uuid"),
	})

	_, ok := a.UserID(req)
	assert.False(t, ok)
}
