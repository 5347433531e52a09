package model

import "time"

// AnonymousTTLDays — принудительный срок жизни анонимной ссылки.
const AnonymousTTLDays = 7

// Link представляет запись сокращённой ссылки в таблице short_links.
type Link struct {
	ID          int64      `json:"-"`
	ShortCode   string     `json:"short_code"`
	OriginalURL string     `json:"original_url"`
	UserID      *string    `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	IsDeleted   bool       `json:"is_deleted"`
	Clicks      int64      `json:"clicks"`
}

// IsExpired сообщает, истёк ли срок жизни ссылки на момент now.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// IsStale сообщает, подлежит ли ссылка удалению как неиспользуемая:
// не использовалась более staleDays дней, либо не использовалась вовсе
// и создана более staleDays дней назад, либо уже истекла по ExpiresAt.
// Удалённые ссылки не считаются stale.
func (l *Link) IsStale(now time.Time, staleDays int) bool {
	if l.IsDeleted {
		return false
	}
	deadline := now.AddDate(0, 0, -staleDays)
	if l.LastUsedAt != nil {
		if l.LastUsedAt.Before(deadline) {
			return true
		}
	} else if l.CreatedAt.Before(deadline) {
		return true
	}
	return l.IsExpired(now)
}

// AnonymousExpiry возвращает принудительный срок истечения для ссылки,
// созданной без авторизации.
func AnonymousExpiry(now time.Time) time.Time {
	return now.AddDate(0, 0, AnonymousTTLDays)
}
