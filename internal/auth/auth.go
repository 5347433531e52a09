package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const cookieName = "auth_token"

// Auth проверяет подписанную куку с идентификатором пользователя.
// Выпуск куки — забота внешнего сервиса аутентификации; здесь мы только
// извлекаем идентификатор и проверяем подпись.
type Auth struct {
	SecretKey string
}

func New(secret string) *Auth {
	return &Auth{SecretKey: secret}
}

// Создать подпись
func (a *Auth) sign(userID string) string {
	mac := hmac.New(sha256.New, []byte(a.SecretKey))
	mac.Write([]byte(userID))
	return hex.EncodeToString(mac.Sum(nil))
}

// UserID возвращает идентификатор пользователя из куки auth_token,
// если кука присутствует, корректно подписана и содержит валидный UUID.
func (a *Auth) UserID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	parts := strings.SplitN(cookie.Value, ":", 2)
	if len(parts) != 2 || !hmac.Equal([]byte(a.sign(parts[0])), []byte(parts[1])) {
		return "", false
	}
	if _, err := uuid.Parse(parts[0]); err != nil {
		return "", false
	}

	return parts[0], true
}

// SignCookieValue формирует валидное значение куки вида userID:signature
// (используется в тестах и внешним сервисом выпуска токенов).
func (a *Auth) SignCookieValue(userID string) string {
	return fmt.Sprintf("%s:%s", userID, a.sign(userID))
}
