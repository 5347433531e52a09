package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // драйвер postgres
	_ "github.com/golang-migrate/migrate/v4/source/file"       // миграции из файлов
	"go.uber.org/zap"
)

// RunMigrations применяет SQL-миграции из каталога path к базе по dsn.
func RunMigrations(path, dsn string, logger *zap.Logger) error {
	m, err := migrate.New("file://"+path, dsn)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Миграции не требуются")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Миграции применены", zap.String("path", path))
	return nil
}
