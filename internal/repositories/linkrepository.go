package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inreleppik/shortlink/internal/database"
	"github.com/inreleppik/shortlink/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Код ошибки PostgreSQL «unique_violation».
const uniqueViolation = "23505"

// LinkRepositoryInterface определяет методы репозитория ссылок.
type LinkRepositoryInterface interface {
	CreateLink(ctx context.Context, link *model.Link) error
	ResolveLink(ctx context.Context, code string, now time.Time) (*model.Link, error)
	GetByCode(ctx context.Context, code string) (*model.Link, error)
	GetActiveByCode(ctx context.Context, code string) (*model.Link, error)
	SearchByOrigin(ctx context.Context, originalURL string) ([]*model.Link, error)
	ListDeleted(ctx context.Context) ([]*model.Link, error)
	UpdateOriginal(ctx context.Context, code, originalURL string, now time.Time) (bool, error)
	SoftDelete(ctx context.Context, code string) error
	MarkStaleDeleted(ctx context.Context, now time.Time, staleDays int) (int64, error)
	Ping(ctx context.Context) error
}

// LinkRepository реализует LinkRepositoryInterface с использованием PostgreSQL.
type LinkRepository struct {
	DB database.DBInterface
}

// NewLinkRepository создаёт новый экземпляр LinkRepository.
func NewLinkRepository(db database.DBInterface) *LinkRepository {
	return &LinkRepository{DB: db}
}

const linkColumns = `id, short_code, original_url, user_id, created_at, last_used_at, expires_at, is_deleted, clicks`

func scanLink(row pgx.Row) (*model.Link, error) {
	link := &model.Link{}
	err := row.Scan(
		&link.ID, &link.ShortCode, &link.OriginalURL, &link.UserID,
		&link.CreatedAt, &link.LastUsedAt, &link.ExpiresAt, &link.IsDeleted, &link.Clicks,
	)
	if err != nil {
		return nil, err
	}
	return link, nil
}

// CreateLink сохраняет новую ссылку. Проверка занятости кода и вставка
// выполняются в одной транзакции: активная запись с тем же кодом даёт
// model.ErrAliasTaken, удалённая — физически удаляется (реклейм кода).
func (r *LinkRepository) CreateLink(ctx context.Context, link *model.Link) error {
	tx, err := r.DB.(*database.DB).Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existingID int64
	var isDeleted bool
	err = tx.QueryRow(ctx,
		`SELECT id, is_deleted FROM short_links WHERE short_code = $1 FOR UPDATE`,
		link.ShortCode,
	).Scan(&existingID, &isDeleted)
	switch {
	case err == nil:
		if !isDeleted {
			return model.ErrAliasTaken
		}
		if _, err := tx.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, existingID); err != nil {
			return fmt.Errorf("failed to reclaim short code: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		// Код свободен
	default:
		return fmt.Errorf("database query error: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO short_links (short_code, original_url, user_id, created_at, expires_at)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id`,
		link.ShortCode, link.OriginalURL, link.UserID, link.CreatedAt, link.ExpiresAt,
	).Scan(&link.ID)
	if err != nil {
		// Конкурентная вставка того же кода упирается в уникальный индекс
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrAliasTaken
		}
		return fmt.Errorf("database insert error: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ResolveLink извлекает ссылку по коду для редиректа. В одной транзакции:
// истёкшая запись физически удаляется (возвращается model.ErrLinkGone),
// живая — получает +1 к счётчику переходов и отметку последнего использования.
// Отсутствующая или удалённая ссылка — (nil, nil).
func (r *LinkRepository) ResolveLink(ctx context.Context, code string, now time.Time) (*model.Link, error) {
	tx, err := r.DB.(*database.DB).Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	link, err := scanLink(tx.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM short_links WHERE short_code = $1 FOR UPDATE`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database query error: %w", err)
	}
	if link.IsDeleted {
		return nil, nil
	}

	if link.IsExpired(now) {
		if _, err := tx.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, link.ID); err != nil {
			return nil, fmt.Errorf("failed to delete expired link: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, model.ErrLinkGone
	}

	err = tx.QueryRow(ctx,
		`UPDATE short_links SET clicks = clicks + 1, last_used_at = $2 WHERE id = $1 RETURNING clicks`,
		link.ID, now,
	).Scan(&link.Clicks)
	if err != nil {
		return nil, fmt.Errorf("failed to update click counter: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	link.LastUsedAt = &now
	return link, nil
}

// GetByCode возвращает ссылку по коду независимо от флага удаления.
// Если записи нет — (nil, nil).
func (r *LinkRepository) GetByCode(ctx context.Context, code string) (*model.Link, error) {
	link, err := scanLink(r.DB.(*database.DB).Pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM short_links WHERE short_code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return link, nil
}

// GetActiveByCode возвращает неудалённую ссылку по коду.
func (r *LinkRepository) GetActiveByCode(ctx context.Context, code string) (*model.Link, error) {
	link, err := scanLink(r.DB.(*database.DB).Pool.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM short_links WHERE short_code = $1 AND is_deleted = FALSE`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("database query error: %w", err)
	}
	return link, nil
}

// SearchByOrigin возвращает все неудалённые ссылки с данным оригинальным URL.
func (r *LinkRepository) SearchByOrigin(ctx context.Context, originalURL string) ([]*model.Link, error) {
	rows, err := r.DB.(*database.DB).Pool.Query(ctx,
		`SELECT `+linkColumns+` FROM short_links WHERE original_url = $1 AND is_deleted = FALSE ORDER BY id`,
		originalURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query links by origin: %w", err)
	}
	defer rows.Close()

	return collectLinks(rows)
}

// ListDeleted возвращает все ссылки, помеченные как удалённые.
func (r *LinkRepository) ListDeleted(ctx context.Context) ([]*model.Link, error) {
	rows, err := r.DB.(*database.DB).Pool.Query(ctx,
		`SELECT `+linkColumns+` FROM short_links WHERE is_deleted = TRUE ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query deleted links: %w", err)
	}
	defer rows.Close()

	return collectLinks(rows)
}

func collectLinks(rows pgx.Rows) ([]*model.Link, error) {
	var results []*model.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return results, nil
}

// UpdateOriginal меняет оригинальный URL у активной ссылки. Условие
// is_deleted = FALSE делает запись условной: конкурентное удаление даст
// ноль затронутых строк, а не воскрешение ссылки.
func (r *LinkRepository) UpdateOriginal(ctx context.Context, code, originalURL string, now time.Time) (bool, error) {
	tag, err := r.DB.(*database.DB).Pool.Exec(ctx,
		`UPDATE short_links SET original_url = $2, last_used_at = $3
         WHERE short_code = $1 AND is_deleted = FALSE`,
		code, originalURL, now)
	if err != nil {
		return false, fmt.Errorf("failed to update link: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SoftDelete помечает ссылку как удалённую. Повторный вызов безвреден.
func (r *LinkRepository) SoftDelete(ctx context.Context, code string) error {
	_, err := r.DB.(*database.DB).Pool.Exec(ctx,
		`UPDATE short_links SET is_deleted = TRUE WHERE short_code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to mark link as deleted: %w", err)
	}
	return nil
}

// MarkStaleDeleted помечает как удалённые ссылки, которые не использовались
// более staleDays дней, не использовались вовсе и созданы более staleDays
// дней назад, или уже истекли по expires_at. Возвращает число затронутых строк.
func (r *LinkRepository) MarkStaleDeleted(ctx context.Context, now time.Time, staleDays int) (int64, error) {
	deadline := now.AddDate(0, 0, -staleDays)
	tag, err := r.DB.(*database.DB).Pool.Exec(ctx,
		`UPDATE short_links SET is_deleted = TRUE
         WHERE is_deleted = FALSE
           AND (last_used_at < $1
                OR (last_used_at IS NULL AND created_at < $1)
                OR (expires_at IS NOT NULL AND expires_at < $2))`,
		deadline, now)
	if err != nil {
		return 0, fmt.Errorf("failed to mark stale links: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Ping проверяет доступность базы данных.
func (r *LinkRepository) Ping(ctx context.Context) error {
	_, err := r.DB.(*database.DB).Pool.Exec(ctx, "SELECT 1")
	return err
}
