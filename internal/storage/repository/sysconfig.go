package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// LicenseKeyConfig ключ записи системной настройки с лицензионным ключом.
const LicenseKeyConfig = "license_key"

// GetConfigValue возвращает значение системной настройки
// или пустую строку, если запись отсутствует.
func (s *Storage) GetConfigValue(ctx context.Context, key string) (string, error) {
	const op = "storage.GetConfigValue"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var value string
	query := `SELECT value FROM system_config WHERE key = $1`
	if err := s.DB.QueryRowContext(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return value, nil
}

// UpsertConfigValue сохраняет значение системной настройки,
// перезаписывая существующую запись.
func (s *Storage) UpsertConfigValue(ctx context.Context, key, value string) error {
	const op = "storage.UpsertConfigValue"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO system_config (key, value)
			  VALUES ($1, $2)
			  ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := s.DB.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
