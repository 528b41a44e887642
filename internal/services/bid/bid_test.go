package bid

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/tender-procurement/internal/models"
)

// MockRepo реализует интерфейс Repository
type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateBid(ctx context.Context, bid models.Bid) (int64, error) {
	args := m.Called(ctx, bid)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) GetBid(ctx context.Context, id int64) (*models.Bid, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bid), args.Error(1)
}

func (m *MockRepo) HasBid(ctx context.Context, tenderID, bidderID int64) (bool, error) {
	args := m.Called(ctx, tenderID, bidderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) ListBidsByTender(ctx context.Context, tenderID int64) ([]*models.BidWithBidder, error) {
	args := m.Called(ctx, tenderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BidWithBidder), args.Error(1)
}

func (m *MockRepo) ListBidsByBidder(ctx context.Context, bidderID int64) ([]*models.Bid, error) {
	args := m.Called(ctx, bidderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bid), args.Error(1)
}

func (m *MockRepo) UpdateBidStatus(ctx context.Context, id int64, status models.BidStatus) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockTenderRepo реализует интерфейс TenderRepository
type MockTenderRepo struct {
	mock.Mock
}

func (m *MockTenderRepo) GetTender(ctx context.Context, id int64) (*models.Tender, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tender), args.Error(1)
}

func (m *MockTenderRepo) SetTenderStatus(ctx context.Context, id int64, status models.TenderStatus) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepo реализует интерфейс UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockCache реализует интерфейс Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// MockPublisher реализует интерфейс EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBidDecision(event models.BidDecisionEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func newTestService(repo *MockRepo, tenders *MockTenderRepo, users *MockUserRepo, cache *MockCache, events *MockPublisher) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(repo, tenders, users, cache, events, logger)
}

func biddingTender(budget float64) *models.Tender {
	return &models.Tender{
		ID:     10,
		Title:  "Поставка оборудования",
		Budget: budget,
		Status: models.TenderBidding,
	}
}

func TestSubmit_AdmissionOrder(t *testing.T) {
	actor := models.Actor{UserID: 7, Role: "user"}

	tests := []struct {
		name      string
		req       models.SubmitBidRequest
		setupMock func(repo *MockRepo, tenders *MockTenderRepo, cache *MockCache)
		wantErr   error
	}{
		{
			name: "тендер не найден",
			req:  models.SubmitBidRequest{TenderID: 10, Amount: 100, Proposal: "p"},
			setupMock: func(_ *MockRepo, tenders *MockTenderRepo, _ *MockCache) {
				tenders.On("GetTender", mock.Anything, int64(10)).Return(nil, models.ErrTenderNotFound)
			},
			wantErr: models.ErrTenderNotFound,
		},
		{
			name: "тендер не принимает предложения",
			req:  models.SubmitBidRequest{TenderID: 10, Amount: 100, Proposal: "p"},
			setupMock: func(_ *MockRepo, tenders *MockTenderRepo, _ *MockCache) {
				tender := biddingTender(1000)
				tender.Status = models.TenderDraft
				tenders.On("GetTender", mock.Anything, int64(10)).Return(tender, nil)
			},
			wantErr: models.ErrTenderNotAcceptingBids,
		},
		{
			name: "повторное предложение отклоняется до проверки бюджета",
			req:  models.SubmitBidRequest{TenderID: 10, Amount: 99999, Proposal: "p"},
			setupMock: func(repo *MockRepo, tenders *MockTenderRepo, _ *MockCache) {
				tenders.On("GetTender", mock.Anything, int64(10)).Return(biddingTender(1000), nil)
				repo.On("HasBid", mock.Anything, int64(10), int64(7)).Return(true, nil)
			},
			wantErr: models.ErrDuplicateBid,
		},
		{
			name: "сумма выше бюджета",
			req:  models.SubmitBidRequest{TenderID: 10, Amount: 1000.01, Proposal: "p"},
			setupMock: func(repo *MockRepo, tenders *MockTenderRepo, _ *MockCache) {
				tenders.On("GetTender", mock.Anything, int64(10)).Return(biddingTender(1000), nil)
				repo.On("HasBid", mock.Anything, int64(10), int64(7)).Return(false, nil)
			},
			wantErr: models.ErrBidExceedsBudget,
		},
		{
			name: "сумма равная бюджету принимается",
			req:  models.SubmitBidRequest{TenderID: 10, Amount: 1000.00, Proposal: "p"},
			setupMock: func(repo *MockRepo, tenders *MockTenderRepo, cache *MockCache) {
				tenders.On("GetTender", mock.Anything, int64(10)).Return(biddingTender(1000), nil)
				repo.On("HasBid", mock.Anything, int64(10), int64(7)).Return(false, nil)
				repo.On("CreateBid", mock.Anything, mock.AnythingOfType("models.Bid")).Return(int64(55), nil)
				cache.On("Invalidate", "tender:10").Return(nil)
				repo.On("GetBid", mock.Anything, int64(55)).Return(&models.Bid{ID: 55, TenderID: 10, BidderID: 7, Amount: 1000, Status: models.BidPending}, nil)
			},
			wantErr: nil,
		},
		{
			name: "гонка на вставке даёт ошибку дубликата",
			req:  models.SubmitBidRequest{TenderID: 10, Amount: 500, Proposal: "p"},
			setupMock: func(repo *MockRepo, tenders *MockTenderRepo, _ *MockCache) {
				tenders.On("GetTender", mock.Anything, int64(10)).Return(biddingTender(1000), nil)
				repo.On("HasBid", mock.Anything, int64(10), int64(7)).Return(false, nil)
				repo.On("CreateBid", mock.Anything, mock.AnythingOfType("models.Bid")).Return(int64(0), models.ErrDuplicateBid)
			},
			wantErr: models.ErrDuplicateBid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepo)
			tenders := new(MockTenderRepo)
			users := new(MockUserRepo)
			cache := new(MockCache)
			events := new(MockPublisher)
			tt.setupMock(repo, tenders, cache)

			service := newTestService(repo, tenders, users, cache, events)

			bid, err := service.Submit(context.Background(), actor, tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.BidPending, bid.Status)
			}
			repo.AssertExpectations(t)
			tenders.AssertExpectations(t)
		})
	}
}

func TestUpdateStatus_AcceptAwardsTender(t *testing.T) {
	repo := new(MockRepo)
	tenders := new(MockTenderRepo)
	users := new(MockUserRepo)
	cache := new(MockCache)
	events := new(MockPublisher)

	pending := &models.Bid{ID: 55, TenderID: 10, BidderID: 7, Amount: 300, Status: models.BidPending}
	accepted := &models.Bid{ID: 55, TenderID: 10, BidderID: 7, Amount: 300, Status: models.BidAccepted}

	repo.On("GetBid", mock.Anything, int64(55)).Return(pending, nil).Once()
	repo.On("UpdateBidStatus", mock.Anything, int64(55), models.BidAccepted).Return(int64(1), nil)
	tenders.On("SetTenderStatus", mock.Anything, int64(10), models.TenderAwarded).Return(int64(1), nil)
	cache.On("Invalidate", "tender:10").Return(nil)
	users.On("GetUser", mock.Anything, int64(7)).Return(&models.User{ID: 7, Email: "bidder@example.com"}, nil)
	tenders.On("GetTender", mock.Anything, int64(10)).Return(biddingTender(1000), nil)
	events.On("PublishBidDecision", mock.AnythingOfType("models.BidDecisionEvent")).Return(nil)
	repo.On("GetBid", mock.Anything, int64(55)).Return(accepted, nil).Once()

	service := newTestService(repo, tenders, users, cache, events)

	got, err := service.UpdateStatus(context.Background(), 55, models.BidAccepted)

	require.NoError(t, err)
	assert.Equal(t, models.BidAccepted, got.Status)
	repo.AssertExpectations(t)
	tenders.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestUpdateStatus_AwardSkippedWhenTenderGone(t *testing.T) {
	repo := new(MockRepo)
	tenders := new(MockTenderRepo)
	users := new(MockUserRepo)
	cache := new(MockCache)
	events := new(MockPublisher)

	pending := &models.Bid{ID: 55, TenderID: 10, BidderID: 7, Amount: 300, Status: models.BidPending}

	repo.On("GetBid", mock.Anything, int64(55)).Return(pending, nil)
	repo.On("UpdateBidStatus", mock.Anything, int64(55), models.BidAccepted).Return(int64(1), nil)
	// Нулевое число изменённых строк: тендер уже удалён, присуждение пропускается
	tenders.On("SetTenderStatus", mock.Anything, int64(10), models.TenderAwarded).Return(int64(0), nil)
	cache.On("Invalidate", "tender:10").Return(nil)
	users.On("GetUser", mock.Anything, int64(7)).Return(&models.User{ID: 7, Email: "bidder@example.com"}, nil)
	tenders.On("GetTender", mock.Anything, int64(10)).Return(nil, models.ErrTenderNotFound)
	events.On("PublishBidDecision", mock.AnythingOfType("models.BidDecisionEvent")).Return(nil)

	service := newTestService(repo, tenders, users, cache, events)

	_, err := service.UpdateStatus(context.Background(), 55, models.BidAccepted)

	require.NoError(t, err)
	tenders.AssertExpectations(t)
}

func TestUpdateStatus_RejectDoesNotAward(t *testing.T) {
	repo := new(MockRepo)
	tenders := new(MockTenderRepo)
	users := new(MockUserRepo)
	cache := new(MockCache)
	events := new(MockPublisher)

	pending := &models.Bid{ID: 55, TenderID: 10, BidderID: 7, Amount: 300, Status: models.BidPending}

	repo.On("GetBid", mock.Anything, int64(55)).Return(pending, nil)
	repo.On("UpdateBidStatus", mock.Anything, int64(55), models.BidRejected).Return(int64(1), nil)
	cache.On("Invalidate", "tender:10").Return(nil)
	users.On("GetUser", mock.Anything, int64(7)).Return(&models.User{ID: 7, Email: "bidder@example.com"}, nil)
	tenders.On("GetTender", mock.Anything, int64(10)).Return(biddingTender(1000), nil)
	events.On("PublishBidDecision", mock.AnythingOfType("models.BidDecisionEvent")).Return(nil)

	service := newTestService(repo, tenders, users, cache, events)

	_, err := service.UpdateStatus(context.Background(), 55, models.BidRejected)

	require.NoError(t, err)
	tenders.AssertNotCalled(t, "SetTenderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_BidNotFound(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetBid", mock.Anything, int64(404)).Return(nil, models.ErrBidNotFound)

	service := newTestService(repo, new(MockTenderRepo), new(MockUserRepo), new(MockCache), new(MockPublisher))

	_, err := service.UpdateStatus(context.Background(), 404, models.BidAccepted)

	require.ErrorIs(t, err, models.ErrBidNotFound)
}

func TestListByTender_TenderMissing(t *testing.T) {
	repo := new(MockRepo)
	tenders := new(MockTenderRepo)
	tenders.On("GetTender", mock.Anything, int64(10)).Return(nil, models.ErrTenderNotFound)

	service := newTestService(repo, tenders, new(MockUserRepo), new(MockCache), new(MockPublisher))

	_, err := service.ListByTender(context.Background(), 10)

	require.ErrorIs(t, err, models.ErrTenderNotFound)
	repo.AssertNotCalled(t, "ListBidsByTender", mock.Anything, mock.Anything)
}

func TestUpdateStatus_PublishFailureDoesNotFailRequest(t *testing.T) {
	repo := new(MockRepo)
	tenders := new(MockTenderRepo)
	users := new(MockUserRepo)
	cache := new(MockCache)
	events := new(MockPublisher)

	pending := &models.Bid{ID: 55, TenderID: 10, BidderID: 7, Amount: 300, Status: models.BidPending}

	repo.On("GetBid", mock.Anything, int64(55)).Return(pending, nil)
	repo.On("UpdateBidStatus", mock.Anything, int64(55), models.BidRejected).Return(int64(1), nil)
	cache.On("Invalidate", "tender:10").Return(nil)
	users.On("GetUser", mock.Anything, int64(7)).Return(&models.User{ID: 7, Email: "bidder@example.com"}, nil)
	tenders.On("GetTender", mock.Anything, int64(10)).Return(biddingTender(1000), nil)
	events.On("PublishBidDecision", mock.AnythingOfType("models.BidDecisionEvent")).Return(errors.New("amqp down"))

	service := newTestService(repo, tenders, users, cache, events)

	_, err := service.UpdateStatus(context.Background(), 55, models.BidRejected)

	require.NoError(t, err)
}
