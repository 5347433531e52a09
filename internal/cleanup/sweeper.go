package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Repository — часть хранилища, нужная уборщику.
type Repository interface {
	MarkStaleDeleted(ctx context.Context, now time.Time, staleDays int) (int64, error)
}

// Sweeper помечает как удалённые ссылки, которые не использовались дольше
// заданного окна или истекли по expires_at. Запускается при старте процесса
// и, при ненулевом интервале, по таймеру.
type Sweeper struct {
	Repo      Repository
	Logger    *zap.Logger
	StaleDays int
	now       func() time.Time
}

func NewSweeper(repo Repository, logger *zap.Logger, staleDays int) *Sweeper {
	return &Sweeper{
		Repo:      repo,
		Logger:    logger,
		StaleDays: staleDays,
		now:       time.Now,
	}
}

// Sweep выполняет один проход очистки и возвращает число помеченных ссылок.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	return s.Repo.MarkStaleDeleted(ctx, s.now().UTC(), s.StaleDays)
}

// RunAtStartup выполняет стартовый проход очистки. Ошибка логируется,
// но не мешает запуску сервера.
func (s *Sweeper) RunAtStartup(ctx context.Context) {
	count, err := s.Sweep(ctx)
	if err != nil {
		s.Logger.Error("Стартовая очистка не удалась", zap.Error(err))
		return
	}
	s.Logger.Info("Стартовая очистка завершена", zap.Int64("marked", count))
}

// Start запускает периодическую очистку с заданным интервалом.
// Останавливается по отмене контекста.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := s.Sweep(ctx)
			if err != nil {
				s.Logger.Error("Очистка не удалась", zap.Error(err))
				continue
			}
			s.Logger.Info("Очистка завершена", zap.Int64("marked", count))
		}
	}
}
