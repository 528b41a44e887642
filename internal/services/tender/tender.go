// Package tender содержит бизнес-логику жизненного цикла тендеров:
// создание, частичное обновление, публикация, выборка с правилом
// видимости черновиков и удаление с каскадом предложений.
package tender

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// Repository определяет методы для работы с тендерами в хранилище.
type Repository interface {
	// CreateTender добавляет новый тендер и возвращает его ID.
	CreateTender(ctx context.Context, tender models.Tender) (int64, error)
	// GetTender возвращает тендер по ID вместе с числом предложений.
	GetTender(ctx context.Context, id int64) (*models.Tender, error)
	// ListTenders возвращает список тендеров по фильтру.
	ListTenders(ctx context.Context, filter models.TenderFilter) ([]*models.Tender, error)
	// UpdateTender частично обновляет тендер, возвращает число изменённых строк.
	UpdateTender(ctx context.Context, id int64, patch models.TenderPatch) (int64, error)
	// SetTenderStatus устанавливает статус, возвращает число изменённых строк.
	SetTenderStatus(ctx context.Context, id int64, status models.TenderStatus) (int64, error)
	// DeleteTender удаляет тендер, возвращает число удалённых строк.
	DeleteTender(ctx context.Context, id int64) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// DeadlineLayout формат даты дедлайна в запросах API.
const DeadlineLayout = time.RFC3339

const cacheTTL = time.Minute

// Service реализует бизнес-логику работы с тендерами, включая кеширование карточек.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CacheKey ключ кеша карточки тендера.
func CacheKey(id int64) string {
	return fmt.Sprintf("tender:%d", id)
}

// Create создает тендер в статусе draft от имени администратора.
func (s *Service) Create(ctx context.Context, actor models.Actor, req models.CreateTenderRequest) (*models.Tender, error) {
	deadline, err := time.Parse(DeadlineLayout, req.Deadline)
	if err != nil {
		return nil, models.ErrInvalidDeadline
	}

	entry := models.Tender{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
		Status:      models.TenderDraft,
		Deadline:    deadline,
		CreatedBy:   actor.UserID,
	}
	id, err := s.repo.CreateTender(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new tender", slog.Int64("id", id))
	return s.repo.GetTender(ctx, id)
}

// Get возвращает тендер по ID. Черновик виден только создателю
// и администраторам; остальным возвращается ошибка доступа.
func (s *Service) Get(ctx context.Context, actor models.Actor, id int64) (*models.Tender, error) {
	var result *models.Tender
	cacheKey := CacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read tender from cache", slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found {
		result, err = s.repo.GetTender(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
			s.log.Warn("failed to cache tender", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	if result.Status == models.TenderDraft && !actor.IsAdmin() && result.CreatedBy != actor.UserID {
		return nil, models.ErrAccessDenied
	}
	return result, nil
}

// List возвращает тендеры по фильтру. Черновики попадают в выборку,
// только если инициатор администратор и явно запросил их.
func (s *Service) List(ctx context.Context, actor models.Actor, filter models.TenderFilter) ([]*models.Tender, error) {
	filter.IncludeDrafts = filter.IncludeDrafts && actor.IsAdmin()
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.ListTenders(ctx, filter)
}

// Update частично обновляет тендер: поля запроса, оставленные пустыми,
// не меняются. Возвращает обновлённый тендер.
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateTenderRequest) (*models.Tender, error) {
	patch := models.TenderPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Budget:      req.Budget,
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(DeadlineLayout, *req.Deadline)
		if err != nil {
			return nil, models.ErrInvalidDeadline
		}
		patch.Deadline = &deadline
	}
	if req.Status != nil {
		status := models.TenderStatus(*req.Status)
		patch.Status = &status
	}

	count, err := s.repo.UpdateTender(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrTenderNotFound
	}
	s.invalidate(id)
	return s.repo.GetTender(ctx, id)
}

// Publish переводит тендер в статус bidding. Предыдущее состояние
// не проверяется: повторная публикация разрешена.
func (s *Service) Publish(ctx context.Context, id int64) error {
	count, err := s.repo.SetTenderStatus(ctx, id, models.TenderBidding)
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrTenderNotFound
	}
	s.invalidate(id)
	s.log.Info("published tender", slog.Int64("id", id))
	return nil
}

// Delete удаляет тендер вместе с его предложениями.
func (s *Service) Delete(ctx context.Context, id int64) error {
	count, err := s.repo.DeleteTender(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrTenderNotFound
	}
	s.invalidate(id)
	s.log.Info("deleted tender", slog.Int64("id", id))
	return nil
}

func (s *Service) invalidate(id int64) {
	cacheKey := CacheKey(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate tender cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
