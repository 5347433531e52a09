package model

import "time"

// ShortenRequest представляет структуру запроса на сокращение URL.
type ShortenRequest struct {
	OriginalURL string     `json:"original_url"`
	CustomAlias string     `json:"custom_alias,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// UpdateRequest представляет структуру запроса на смену оригинального URL.
type UpdateRequest struct {
	OriginalURL string `json:"original_url"`
}

// ShortenResponse — запись ссылки плюс готовый короткий URL.
type ShortenResponse struct {
	*Link
	ShortURL string `json:"short_url"`
}

// DetailResponse — тело ответа с пояснением (в том числе для ошибок).
type DetailResponse struct {
	Detail string `json:"detail"`
}
