package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/inreleppik/shortlink/internal/auth"
	"github.com/inreleppik/shortlink/internal/model"
	"github.com/inreleppik/shortlink/internal/service"
	"go.uber.org/zap"
)

// Handler обслуживает HTTP-эндпоинты сервиса коротких ссылок.
type Handler struct {
	Service *service.LinkService
	Auth    *auth.Auth
	Logger  *zap.Logger
	BaseURL string
}

// NewHandler создаёт Handler с базовым URL для формирования коротких ссылок.
func NewHandler(svc *service.LinkService, authSvc *auth.Auth, logger *zap.Logger, baseURL string) *Handler {
	return &Handler{
		Service: svc,
		Auth:    authSvc,
		Logger:  logger,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Shorten обрабатывает POST /links/shorten: создаёт короткую ссылку.
// Авторизация необязательна: анонимная ссылка получает принудительный
// срок жизни и не имеет владельца.
func (h *Handler) Shorten(res http.ResponseWriter, req *http.Request) {
	var in model.ShortenRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeDetail(res, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}
	if !validURL(in.OriginalURL) {
		writeDetail(res, http.StatusBadRequest, "Некорректный URL")
		return
	}

	var userID *string
	if id, ok := h.Auth.UserID(req); ok {
		userID = &id
	}

	link, err := h.Service.Create(req.Context(), in, userID)
	if err != nil {
		if errors.Is(err, model.ErrAliasTaken) {
			writeDetail(res, http.StatusBadRequest, "Alias уже занят!")
			return
		}
		h.Logger.Error("Не удалось создать ссылку", zap.Error(err))
		writeDetail(res, http.StatusInternalServerError, "Внутренняя ошибка")
		return
	}

	writeJSON(res, http.StatusOK, model.ShortenResponse{
		Link:     link,
		ShortURL: h.BaseURL + "/links/" + link.ShortCode,
	})
}

// Redirect обрабатывает GET /links/{code}: переход по короткой ссылке.
func (h *Handler) Redirect(res http.ResponseWriter, req *http.Request) {
	code := chi.URLParam(req, "code")

	link, err := h.Service.Resolve(req.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrLinkNotFound):
			writeDetail(res, http.StatusNotFound, "Ссылка не найдена или удалена")
		case errors.Is(err, model.ErrLinkGone):
			writeDetail(res, http.StatusGone, "Срок жизни ссылки истёк")
		default:
			h.Logger.Error("Не удалось разрешить ссылку", zap.Error(err))
			writeDetail(res, http.StatusInternalServerError, "Внутренняя ошибка")
		}
		return
	}

	http.Redirect(res, req, link.OriginalURL, http.StatusFound)
}

// Search обрабатывает GET /links/search?original_url=...
func (h *Handler) Search(res http.ResponseWriter, req *http.Request) {
	originalURL := req.URL.Query().Get("original_url")
	if originalURL == "" {
		writeDetail(res, http.StatusBadRequest, "Параметр original_url обязателен")
		return
	}

	links, err := h.Service.Search(req.Context(), originalURL)
	if err != nil {
		if errors.Is(err, model.ErrLinkNotFound) {
			writeDetail(res, http.StatusNotFound, "Ссылки не найдены")
			return
		}
		h.Logger.Error("Ошибка поиска по URL", zap.Error(err))
		writeDetail(res, http.StatusInternalServerError, "Внутренняя ошибка")
		return
	}

	writeJSON(res, http.StatusOK, links)
}

// Expired обрабатывает GET /links/expired: список удалённых ссылок.
func (h *Handler) Expired(res http.ResponseWriter, req *http.Request) {
	links, err := h.Service.Expired(req.Context())
	if err != nil {
		h.Logger.Error("Ошибка выборки удалённых ссылок", zap.Error(err))
		writeDetail(res, http.StatusInternalServerError, "Внутренняя ошибка")
		return
	}
	if links == nil {
		links = []*model.Link{}
	}
	writeJSON(res, http.StatusOK, links)
}

// Stats обрабатывает GET /links/{code}/stats: статистика по ссылке.
func (h *Handler) Stats(res http.ResponseWriter, req *http.Request) {
	code := chi.URLParam(req, "code")

	link, err := h.Service.Stats(req.Context(), code)
	if err != nil {
		if errors.Is(err, model.ErrLinkNotFound) {
			writeDetail(res, http.StatusNotFound, "Ссылка не найдена или удалена")
			return
		}
		h.Logger.Error("Ошибка выборки статистики", zap.Error(err))
		writeDetail(res, http.StatusInternalServerError, "Внутренняя ошибка")
		return
	}

	writeJSON(res, http.StatusOK, link)
}

// Update обрабатывает PUT /links/{code}: смена оригинального URL владельцем.
func (h *Handler) Update(res http.ResponseWriter, req *http.Request) {
	userID, ok := h.Auth.UserID(req)
	if !ok {
		writeDetail(res, http.StatusUnauthorized, "Не авторизован")
		return
	}

	var in model.UpdateRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		writeDetail(res, http.StatusBadRequest, "Некорректное тело запроса")
		return
	}
	if !validURL(in.OriginalURL) {
		writeDetail(res, http.StatusBadRequest, "Некорректный URL")
		return
	}

	code := chi.URLParam(req, "code")
	if err := h.Service.Update(req.Context(), code, in.OriginalURL, userID); err != nil {
		h.writeLinkError(res, err)
		return
	}

	writeDetail(res, http.StatusOK, "Обновлено")
}

// Delete обрабатывает DELETE /links/{code}: мягкое удаление владельцем.
func (h *Handler) Delete(res http.ResponseWriter, req *http.Request) {
	userID, ok := h.Auth.UserID(req)
	if !ok {
		writeDetail(res, http.StatusUnauthorized, "Не авторизован")
		return
	}

	code := chi.URLParam(req, "code")
	if err := h.Service.Delete(req.Context(), code, userID); err != nil {
		h.writeLinkError(res, err)
		return
	}

	writeDetail(res, http.StatusOK, "Ссылка помечена как удалённая")
}

// Ping обрабатывает GET /ping: проверка доступности БД.
func (h *Handler) Ping(res http.ResponseWriter, req *http.Request) {
	if err := h.Service.Ping(req.Context()); err != nil {
		h.Logger.Error("БД недоступна", zap.Error(err))
		writeDetail(res, http.StatusInternalServerError, "БД недоступна")
		return
	}
	res.WriteHeader(http.StatusOK)
}

func (h *Handler) writeLinkError(res http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrLinkNotFound):
		writeDetail(res, http.StatusNotFound, "Ссылка не найдена")
	case errors.Is(err, model.ErrForbidden):
		writeDetail(res, http.StatusForbidden, "Нет доступа")
	default:
		h.Logger.Error("Ошибка операции над ссылкой", zap.Error(err))
		writeDetail(res, http.StatusInternalServerError, "Внутренняя ошибка")
	}
}

func validURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

func writeJSON(res http.ResponseWriter, status int, body any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	_ = json.NewEncoder(res).Encode(body)
}

func writeDetail(res http.ResponseWriter, status int, detail string) {
	writeJSON(res, status, model.DetailResponse{Detail: detail})
}
