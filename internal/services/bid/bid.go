// Package bid содержит бизнес-логику приёма предложений: проверки допуска
// при подаче, выборки и решение администратора с присуждением тендера.
package bid

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/tender-procurement/internal/lib/sl"
	"github.com/magabrotheeeer/tender-procurement/internal/models"
	tenderservice "github.com/magabrotheeeer/tender-procurement/internal/services/tender"
)

// Repository определяет методы для работы с предложениями в хранилище.
type Repository interface {
	// CreateBid добавляет предложение; дубликат пары (тендер, участник)
	// возвращает models.ErrDuplicateBid.
	CreateBid(ctx context.Context, bid models.Bid) (int64, error)
	// GetBid возвращает предложение по ID или models.ErrBidNotFound.
	GetBid(ctx context.Context, id int64) (*models.Bid, error)
	// HasBid сообщает, подавал ли участник предложение по тендеру.
	HasBid(ctx context.Context, tenderID, bidderID int64) (bool, error)
	// ListBidsByTender возвращает предложения тендера по возрастанию суммы.
	ListBidsByTender(ctx context.Context, tenderID int64) ([]*models.BidWithBidder, error)
	// ListBidsByBidder возвращает предложения участника, новые первыми.
	ListBidsByBidder(ctx context.Context, bidderID int64) ([]*models.Bid, error)
	// UpdateBidStatus устанавливает статус, возвращает число изменённых строк.
	UpdateBidStatus(ctx context.Context, id int64, status models.BidStatus) (int64, error)
}

// TenderRepository подмножество хранилища тендеров, нужное приёму предложений.
type TenderRepository interface {
	GetTender(ctx context.Context, id int64) (*models.Tender, error)
	SetTenderStatus(ctx context.Context, id int64, status models.TenderStatus) (int64, error)
}

// UserRepository доступ к профилям участников для уведомлений.
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Cache описывает методы кеша; используется для инвалидации карточек тендеров
// при изменении числа или статуса предложений.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события о решениях по предложениям
// в очередь уведомлений.
type EventPublisher interface {
	PublishBidDecision(event models.BidDecisionEvent) error
}

// Service реализует бизнес-логику приёма и рассмотрения предложений.
type Service struct {
	repo    Repository
	tenders TenderRepository
	users   UserRepository
	cache   Cache
	events  EventPublisher
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, tenders TenderRepository, users UserRepository, cache Cache, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		tenders: tenders,
		users:   users,
		cache:   cache,
		events:  events,
		log:     log,
	}
}

// Submit подаёт предложение по тендеру. Проверки выполняются по порядку,
// первая неуспешная решает исход: тендер существует; тендер в фазе bidding;
// участник ещё не подавал предложение; сумма не превышает бюджет.
// Сумма, равная бюджету, допустима.
func (s *Service) Submit(ctx context.Context, actor models.Actor, req models.SubmitBidRequest) (*models.Bid, error) {
	tender, err := s.tenders.GetTender(ctx, req.TenderID)
	if err != nil {
		return nil, err
	}
	if tender.Status != models.TenderBidding {
		return nil, models.ErrTenderNotAcceptingBids
	}
	exists, err := s.repo.HasBid(ctx, req.TenderID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrDuplicateBid
	}
	if req.Amount > tender.Budget {
		return nil, models.ErrBidExceedsBudget
	}

	entry := models.Bid{
		TenderID: req.TenderID,
		BidderID: actor.UserID,
		Amount:   req.Amount,
		Proposal: req.Proposal,
		Status:   models.BidPending,
	}
	// Гонка двух одновременных подач закрывается ограничением
	// уникальности: проигравшая вставка вернёт ErrDuplicateBid.
	id, err := s.repo.CreateBid(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.invalidateTender(req.TenderID)
	s.log.Info("submitted new bid", slog.Int64("id", id), slog.Int64("tender_id", req.TenderID))
	return s.repo.GetBid(ctx, id)
}

// ListByTender возвращает предложения тендера по возрастанию суммы,
// каждое с публичным профилем участника. Тендер должен существовать.
func (s *Service) ListByTender(ctx context.Context, tenderID int64) ([]*models.BidWithBidder, error) {
	if _, err := s.tenders.GetTender(ctx, tenderID); err != nil {
		return nil, err
	}
	return s.repo.ListBidsByTender(ctx, tenderID)
}

// ListMine возвращает предложения инициатора, новые первыми.
func (s *Service) ListMine(ctx context.Context, actor models.Actor) ([]*models.Bid, error) {
	return s.repo.ListBidsByBidder(ctx, actor.UserID)
}

// UpdateStatus применяет решение администратора к предложению.
// Принятие предложения переводит родительский тендер в статус awarded
// независимо от его текущего состояния; если тендер к этому моменту
// удалён, побочный эффект молча пропускается.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status models.BidStatus) (*models.Bid, error) {
	bid, err := s.repo.GetBid(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.UpdateBidStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, models.ErrBidNotFound
	}

	if status == models.BidAccepted {
		if _, err := s.tenders.SetTenderStatus(ctx, bid.TenderID, models.TenderAwarded); err != nil {
			s.log.Warn("failed to award tender", slog.Int64("tender_id", bid.TenderID), sl.Err(err))
		}
	}
	s.invalidateTender(bid.TenderID)
	s.log.Info("updated bid status", slog.Int64("id", id), slog.String("status", string(status)))

	s.notifyDecision(ctx, bid, status)
	return s.repo.GetBid(ctx, id)
}

// notifyDecision публикует событие о решении в очередь уведомлений.
// Сбой публикации не влияет на исход запроса.
func (s *Service) notifyDecision(ctx context.Context, bid *models.Bid, status models.BidStatus) {
	bidder, err := s.users.GetUser(ctx, bid.BidderID)
	if err != nil {
		s.log.Warn("failed to load bidder for notification", slog.Int64("bidder_id", bid.BidderID), sl.Err(err))
		return
	}
	event := models.BidDecisionEvent{
		BidID:       bid.ID,
		TenderID:    bid.TenderID,
		BidderEmail: bidder.Email,
		Amount:      bid.Amount,
		Decision:    string(status),
	}
	if tender, err := s.tenders.GetTender(ctx, bid.TenderID); err == nil {
		event.TenderTitle = tender.Title
	}
	if err := s.events.PublishBidDecision(event); err != nil {
		s.log.Warn("failed to publish bid decision event", slog.Int64("bid_id", bid.ID), sl.Err(err))
	}
}

func (s *Service) invalidateTender(tenderID int64) {
	cacheKey := tenderservice.CacheKey(tenderID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate tender cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
