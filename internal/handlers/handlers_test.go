package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inreleppik/shortlink/internal/auth"
	"github.com/inreleppik/shortlink/internal/handlers"
	"github.com/inreleppik/shortlink/internal/model"
	"github.com/inreleppik/shortlink/internal/repositories/mocks"
	"github.com/inreleppik/shortlink/internal/router"
	"github.com/inreleppik/shortlink/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func setup(t *testing.T) (http.Handler, *mocks.MockRepository, *auth.Auth) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	logger := zap.NewNop()
	authService := auth.New(testSecret)

	svc := service.NewLinkService(repo, logger)
	h := handlers.NewHandler(svc, authService, logger, "http://localhost:8080")
	return router.NewRouter(h, logger), repo, authService
}

func authCookie(a *auth.Auth, userID string) *http.Cookie {
	return &http.Cookie{Name: "auth_token", Value: a.SignCookieValue(userID)}
}

func TestShorten_Anonymous(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().CreateLink(gomock.Any(), gomock.Any()).Return(nil)

	body := `{"original_url":"https://x.com/"}`
	req := httptest.NewRequest(http.MethodPost, "/links/shorten", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		ShortCode   string     `json:"short_code"`
		OriginalURL string     `json:"original_url"`
		ExpiresAt   *time.Time `json:"expires_at"`
		ShortURL    string     `json:"short_url"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Len(t, got.ShortCode, 8)
	assert.Equal(t, "https://x.com", got.OriginalURL)
	assert.Equal(t, "http://localhost:8080/links/"+got.ShortCode, got.ShortURL)
	// Анонимное создание всегда получает срок жизни
	assert.NotNil(t, got.ExpiresAt)
}

func TestShorten_AliasTaken(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().CreateLink(gomock.Any(), gomock.Any()).Return(model.ErrAliasTaken)

	body := `{"original_url":"https://x.com","custom_alias":"taken"}`
	req := httptest.NewRequest(http.MethodPost, "/links/shorten", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestShorten_InvalidURL(t *testing.T) {
	r, _, _ := setup(t)

	body := `{"original_url":"not a url"}`
	req := httptest.NewRequest(http.MethodPost, "/links/shorten", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// TestRedirect проверяет редирект на оригинальный URL
func TestRedirect(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().ResolveLink(gomock.Any(), "abc12345", gomock.Any()).
		Return(&model.Link{ShortCode: "abc12345", OriginalURL: "https://x.com", Clicks: 1}, nil)

	req := httptest.NewRequest(http.MethodGet, "/links/abc12345", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://x.com", resp.Header.Get("Location"))
}

func TestRedirect_NotFound(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().ResolveLink(gomock.Any(), "missing1", gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/links/missing1", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRedirect_Gone(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().ResolveLink(gomock.Any(), "expired1", gomock.Any()).
		Return(nil, model.ErrLinkGone)

	req := httptest.NewRequest(http.MethodGet, "/links/expired1", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestSearch(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().SearchByOrigin(gomock.Any(), "https://x.com").
		Return([]*model.Link{{ShortCode: "abc12345", OriginalURL: "https://x.com"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/links/search?original_url=https%3A%2F%2Fx.com%2F", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 1)
}

// Пустой результат поиска — 404, а не пустой список
func TestSearch_Empty(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().SearchByOrigin(gomock.Any(), "https://none.com").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/links/search?original_url=https%3A%2F%2Fnone.com", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearch_MissingParam(t *testing.T) {
	r, _, _ := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/links/search", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpired(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().ListDeleted(gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/links/expired", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]\n", w.Body.String())
}

func TestStats(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().GetActiveByCode(gomock.Any(), "abc12345").
		Return(&model.Link{ShortCode: "abc12345", OriginalURL: "https://x.com", Clicks: 42}, nil)

	req := httptest.NewRequest(http.MethodGet, "/links/abc12345/stats", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, float64(42), got["clicks"])
}

func TestUpdate_Unauthorized(t *testing.T) {
	r, _, _ := setup(t)

	body := `{"original_url":"https://y.com"}`
	req := httptest.NewRequest(http.MethodPut, "/links/abc12345", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdate_Forbidden(t *testing.T) {
	r, repo, a := setup(t)

	owner := uuid.NewString()
	repo.EXPECT().GetByCode(gomock.Any(), "abc12345").
		Return(&model.Link{ShortCode: "abc12345", UserID: &owner}, nil)

	body := `{"original_url":"https://y.com"}`
	req := httptest.NewRequest(http.MethodPut, "/links/abc12345", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(authCookie(a, uuid.NewString())) // другой пользователь
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpdate_Owner(t *testing.T) {
	r, repo, a := setup(t)

	owner := uuid.NewString()
	repo.EXPECT().GetByCode(gomock.Any(), "abc12345").
		Return(&model.Link{ShortCode: "abc12345", UserID: &owner}, nil)
	repo.EXPECT().UpdateOriginal(gomock.Any(), "abc12345", "https://y.com", gomock.Any()).
		Return(true, nil)

	body := `{"original_url":"https://y.com/"}`
	req := httptest.NewRequest(http.MethodPut, "/links/abc12345", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(authCookie(a, owner))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDelete_Unauthorized(t *testing.T) {
	r, _, _ := setup(t)

	req := httptest.NewRequest(http.MethodDelete, "/links/abc12345", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDelete_Owner(t *testing.T) {
	r, repo, a := setup(t)

	owner := uuid.NewString()
	repo.EXPECT().GetByCode(gomock.Any(), "abc12345").
		Return(&model.Link{ShortCode: "abc12345", UserID: &owner}, nil)
	repo.EXPECT().SoftDelete(gomock.Any(), "abc12345").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/links/abc12345", nil)
	req.AddCookie(authCookie(a, owner))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDelete_AnonymousLink(t *testing.T) {
	r, repo, a := setup(t)

	repo.EXPECT().GetByCode(gomock.Any(), "anon1234").
		Return(&model.Link{ShortCode: "anon1234"}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/links/anon1234", nil)
	req.AddCookie(authCookie(a, uuid.NewString()))
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPing(t *testing.T) {
	r, repo, _ := setup(t)

	repo.EXPECT().Ping(gomock.Any()).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
