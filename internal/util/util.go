package util

import (
	"strings"

	"github.com/google/uuid"
)

// codeLength — длина генерируемого короткого кода.
const codeLength = 8

// AllocateCode возвращает код для новой ссылки: пользовательский alias,
// если он задан, иначе первые 8 символов случайного UUID. Уникальность
// кода гарантирует не генератор, а вставка в хранилище.
func AllocateCode(customAlias string) string {
	if alias := strings.TrimSpace(customAlias); alias != "" {
		return alias
	}
	return uuid.NewString()[:codeLength]
}

// NormalizeURL приводит оригинальный URL к каноничному виду:
// обрезает пробелы и завершающий слэш.
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
