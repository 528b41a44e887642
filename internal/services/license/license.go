// Package license реализует политику лицензирования системы:
// решение о допуске к регистрации и входу, статус лицензии
// для административной панели и сохранение ключа.
package license

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/tender-procurement/internal/config"
	"github.com/magabrotheeeer/tender-procurement/internal/licenseclient"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
	"github.com/magabrotheeeer/tender-procurement/internal/storage/repository"
)

// ConfigRepository доступ к системным настройкам в базе данных.
type ConfigRepository interface {
	// GetConfigValue возвращает значение настройки или пустую строку.
	GetConfigValue(ctx context.Context, key string) (string, error)
	// UpsertConfigValue сохраняет значение настройки.
	UpsertConfigValue(ctx context.Context, key, value string) error
}

// Verifier проверяет лицензионный ключ у внешнего сервера.
type Verifier interface {
	Verify(ctx context.Context, licenseKey string) licenseclient.Result
}

// Status состояние лицензии для административной панели.
type Status struct {
	Configured bool                 `json:"configured"`
	Result     licenseclient.Result `json:"-"`
}

// Service реализует политику лицензирования.
type Service struct {
	cfg      config.LicenseServer
	repo     ConfigRepository
	verifier Verifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(cfg config.LicenseServer, repo ConfigRepository, verifier Verifier, log *slog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		repo:     repo,
		verifier: verifier,
		log:      log,
	}
}

// StoredKey возвращает действующий лицензионный ключ: значение из
// переменной окружения имеет приоритет над записью в базе данных.
// Пустая строка означает, что ключ ещё не настроен.
func (s *Service) StoredKey(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(s.cfg.Key); key != "" {
		return key, nil
	}
	value, err := s.repo.GetConfigValue(ctx, repository.LicenseKeyConfig)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// CheckAccess решает, допустим ли защищённый вход или регистрация.
// Порядок политики:
//  1. лицензионный сервер не настроен — разрешить (локальный режим);
//  2. ключ ещё не сохранён — разрешить (окно для настройки администратором);
//  3. иначе проверить ключ у сервера; недействительный ключ — отказ
//     с сообщением проверки.
func (s *Service) CheckAccess(ctx context.Context) error {
	if s.cfg.URL == "" {
		return nil
	}
	key, err := s.StoredKey(ctx)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	result := s.verifier.Verify(ctx, key)
	if !result.Valid {
		return fmt.Errorf("%w: %s", models.ErrLicenseInvalid, result.Message)
	}
	return nil
}

// GetStatus возвращает текущее состояние лицензии для администратора.
func (s *Service) GetStatus(ctx context.Context) (*Status, error) {
	key, err := s.StoredKey(ctx)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return &Status{
			Configured: false,
			Result: licenseclient.Result{
				Valid:   false,
				Message: "license key not configured",
			},
		}, nil
	}
	result := s.verifier.Verify(ctx, key)
	return &Status{Configured: true, Result: result}, nil
}

// Configure проверяет и сохраняет лицензионный ключ.
// Недействительный ключ не сохраняется: возвращается состояние
// с сообщением проверки и Configured=false.
func (s *Service) Configure(ctx context.Context, licenseKey string) (*Status, error) {
	licenseKey = strings.TrimSpace(licenseKey)
	if licenseKey == "" {
		return nil, models.ErrLicenseKeyRequired
	}

	result := s.verifier.Verify(ctx, licenseKey)
	if !result.Valid {
		return &Status{Configured: false, Result: result}, nil
	}

	if err := s.repo.UpsertConfigValue(ctx, repository.LicenseKeyConfig, licenseKey); err != nil {
		return nil, err
	}
	s.log.Info("license key configured")
	return &Status{Configured: true, Result: result}, nil
}
